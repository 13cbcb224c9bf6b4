package models

import "time"

const (
	QuizTypeFlashcard      = "FLASHCARD"
	QuizTypeMultipleChoice = "MULTIPLE_CHOICE"
)

const (
	DifficultyEasy   = "EASY"
	DifficultyMedium = "MEDIUM"
	DifficultyHard   = "HARD"
	DifficultyMixed  = "MIXED"
)

type Quiz struct {
	ID               string     `json:"id" db:"id"`
	CourseID         string     `json:"course_id" db:"course_id"`
	UserID           string     `json:"user_id" db:"user_id"`
	QuizType         string     `json:"quiz_type" db:"quiz_type"`
	Difficulty       string     `json:"difficulty" db:"difficulty"`
	QuestionCount    int        `json:"question_count" db:"question_count"`
	TopicFocus       *string    `json:"topic_focus,omitempty" db:"topic_focus"`
	MaterialIDs      []string   `json:"material_ids" db:"material_ids"`
	Score            *float64   `json:"score,omitempty" db:"score"`
	TimeSpentSeconds *int       `json:"time_spent_seconds,omitempty" db:"time_spent_seconds"`
	CompletedAt      *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`

	Questions []*Question `json:"questions,omitempty"`
}

type Question struct {
	ID                string    `json:"id" db:"id"`
	QuizID            string    `json:"quiz_id" db:"quiz_id"`
	MaterialID        string    `json:"material_id" db:"material_id"`
	QuestionText      string    `json:"question_text" db:"question_text"`
	QuestionType      string    `json:"question_type" db:"question_type"`
	Difficulty        string    `json:"difficulty" db:"difficulty"`
	CorrectAnswer     string    `json:"correct_answer" db:"correct_answer"`
	Options           []string  `json:"options" db:"options"`
	Explanation       string    `json:"explanation" db:"explanation"`
	SourceReference   string    `json:"source_reference" db:"source_reference"`
	UserAnswer        *string   `json:"user_answer,omitempty" db:"user_answer"`
	AnsweredCorrectly *bool     `json:"answered_correctly,omitempty" db:"answered_correctly"`
	AttemptNumber     int       `json:"attempt_number" db:"attempt_number"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

type GenerateQuizRequest struct {
	QuizType      string   `json:"quiz_type"`
	Difficulty    string   `json:"difficulty"`
	QuestionCount int      `json:"question_count"`
	TopicFocus    *string  `json:"topic_focus,omitempty"`
	MaterialIDs   []string `json:"material_ids,omitempty"`
}

type SubmitQuizRequest struct {
	Answers          map[string]string `json:"answers"`
	TimeSpentSeconds int               `json:"time_spent_seconds"`
}

type SubmitQuizResponse struct {
	Quiz      *Quiz       `json:"quiz"`
	Questions []*Question `json:"questions"`
	Score     float64     `json:"score"`
}
