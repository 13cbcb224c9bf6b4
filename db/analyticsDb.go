package db

import (
	"database/sql"
	"fmt"
	"time"

	"studyquiz/models"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type AnalyticsRepository interface {
	UpsertDaily(userID, courseID string, date time.Time, delta models.AnalyticsDelta) error
	GetByCourseSince(userID, courseID string, since time.Time) ([]*models.Analytics, error)
	GetByUserSince(userID string, since time.Time) ([]*models.Analytics, error)
	Close() error
}

type PostgresAnalyticsRepository struct {
	db *sql.DB
}

func NewPostgresAnalyticsRepository(databaseURL string) (*PostgresAnalyticsRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresAnalyticsRepository{db: db}, nil
}

// UpsertDaily adds the submission's counters into the (user, course, day) row,
// creating it on first touch. Mastery is recomputed from the summed counters in
// the same statement so concurrent submissions cannot race the percentage.
func (r *PostgresAnalyticsRepository) UpsertDaily(userID, courseID string, date time.Time, delta models.AnalyticsDelta) error {
	query := `
		INSERT INTO studyquiz.analytics
			(id, user_id, course_id, date, questions_answered, correct_answers, quiz_attempts, study_time_seconds, mastery_percentage)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			CASE WHEN $5 > 0 THEN $6::float / $5 * 100 ELSE 0 END)
		ON CONFLICT (user_id, course_id, date) DO UPDATE SET
			questions_answered = studyquiz.analytics.questions_answered + EXCLUDED.questions_answered,
			correct_answers = studyquiz.analytics.correct_answers + EXCLUDED.correct_answers,
			quiz_attempts = studyquiz.analytics.quiz_attempts + EXCLUDED.quiz_attempts,
			study_time_seconds = studyquiz.analytics.study_time_seconds + EXCLUDED.study_time_seconds,
			mastery_percentage = CASE
				WHEN studyquiz.analytics.questions_answered + EXCLUDED.questions_answered > 0
				THEN (studyquiz.analytics.correct_answers + EXCLUDED.correct_answers)::float
					/ (studyquiz.analytics.questions_answered + EXCLUDED.questions_answered) * 100
				ELSE 0
			END`

	_, err := r.db.Exec(query, uuid.NewString(), userID, courseID, date,
		delta.QuestionsAnswered, delta.CorrectAnswers, delta.QuizAttempts, delta.StudyTimeSeconds)
	if err != nil {
		return fmt.Errorf("failed to upsert analytics: %w", err)
	}

	return nil
}

func (r *PostgresAnalyticsRepository) GetByCourseSince(userID, courseID string, since time.Time) ([]*models.Analytics, error) {
	query := `
		SELECT id, user_id, course_id, date, questions_answered, correct_answers,
			quiz_attempts, study_time_seconds, mastery_percentage
		FROM studyquiz.analytics
		WHERE user_id = $1 AND course_id = $2 AND date >= $3
		ORDER BY date ASC`

	rows, err := r.db.Query(query, userID, courseID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query analytics: %w", err)
	}
	defer rows.Close()

	return scanAnalytics(rows)
}

func (r *PostgresAnalyticsRepository) GetByUserSince(userID string, since time.Time) ([]*models.Analytics, error) {
	query := `
		SELECT id, user_id, course_id, date, questions_answered, correct_answers,
			quiz_attempts, study_time_seconds, mastery_percentage
		FROM studyquiz.analytics
		WHERE user_id = $1 AND date >= $2
		ORDER BY date DESC`

	rows, err := r.db.Query(query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query analytics: %w", err)
	}
	defer rows.Close()

	return scanAnalytics(rows)
}

func (r *PostgresAnalyticsRepository) Close() error {
	return r.db.Close()
}

func scanAnalytics(rows *sql.Rows) ([]*models.Analytics, error) {
	records := make([]*models.Analytics, 0)
	for rows.Next() {
		record := &models.Analytics{}
		err := rows.Scan(&record.ID, &record.UserID, &record.CourseID, &record.Date,
			&record.QuestionsAnswered, &record.CorrectAnswers, &record.QuizAttempts,
			&record.StudyTimeSeconds, &record.MasteryPercentage)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analytics: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over analytics: %w", err)
	}

	return records, nil
}
