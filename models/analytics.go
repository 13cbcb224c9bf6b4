package models

import "time"

// Analytics is a per-user, per-course, per-day aggregate row. Submissions on the
// same day add into the existing row rather than creating a new one.
type Analytics struct {
	ID                string    `json:"id" db:"id"`
	UserID            string    `json:"user_id" db:"user_id"`
	CourseID          string    `json:"course_id" db:"course_id"`
	Date              time.Time `json:"date" db:"date"`
	QuestionsAnswered int       `json:"questions_answered" db:"questions_answered"`
	CorrectAnswers    int       `json:"correct_answers" db:"correct_answers"`
	QuizAttempts      int       `json:"quiz_attempts" db:"quiz_attempts"`
	StudyTimeSeconds  int       `json:"study_time_seconds" db:"study_time_seconds"`
	MasteryPercentage float64   `json:"mastery_percentage" db:"mastery_percentage"`
}

type AnalyticsDelta struct {
	QuestionsAnswered int
	CorrectAnswers    int
	QuizAttempts      int
	StudyTimeSeconds  int
}

type AnalyticsSummary struct {
	QuestionsAnswered int         `json:"questions_answered"`
	CorrectAnswers    int         `json:"correct_answers"`
	QuizAttempts      int         `json:"quiz_attempts"`
	StudyTimeSeconds  int         `json:"study_time_seconds"`
	MasteryPercentage float64     `json:"mastery_percentage"`
	Daily             []*Analytics `json:"daily"`
}
