package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"studyquiz/models"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type QuizRepository interface {
	CreateQuizWithQuestions(quiz *models.Quiz, questions []*models.Question) error
	GetQuizByID(id, userID string) (*models.Quiz, error)
	GetQuizzesByCourse(courseID, userID string) ([]*models.Quiz, error)
	UpdateQuestionAnswer(questionID string, userAnswer string, answeredCorrectly bool, attemptNumber int) error
	CompleteQuiz(quizID string, score float64, timeSpentSeconds int) error
	DeleteQuiz(id, userID string) error
	Close() error
}

type PostgresQuizRepository struct {
	db *sql.DB
}

func NewPostgresQuizRepository(databaseURL string) (*PostgresQuizRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresQuizRepository{db: db}, nil
}

// CreateQuizWithQuestions persists the quiz and all its questions in one
// transaction so a failed question insert never leaves a partial quiz behind.
func (r *PostgresQuizRepository) CreateQuizWithQuestions(quiz *models.Quiz, questions []*models.Question) error {
	materialIDsJSON, err := json.Marshal(quiz.MaterialIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal material ids: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	quiz.ID = uuid.NewString()

	quizQuery := `
		INSERT INTO studyquiz.quizzes (id, course_id, user_id, quiz_type, difficulty, question_count, topic_focus, material_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	row := tx.QueryRow(quizQuery, quiz.ID, quiz.CourseID, quiz.UserID, quiz.QuizType,
		quiz.Difficulty, quiz.QuestionCount, quiz.TopicFocus, materialIDsJSON)
	if err := row.Scan(&quiz.CreatedAt); err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	questionQuery := `
		INSERT INTO studyquiz.questions (id, quiz_id, material_id, question_text, question_type, difficulty,
			correct_answer, options, explanation, source_reference, attempt_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0)
		RETURNING created_at`

	for _, question := range questions {
		question.ID = uuid.NewString()
		question.QuizID = quiz.ID

		optionsJSON, err := json.Marshal(question.Options)
		if err != nil {
			return fmt.Errorf("failed to marshal options: %w", err)
		}

		row := tx.QueryRow(questionQuery, question.ID, question.QuizID, question.MaterialID,
			question.QuestionText, question.QuestionType, question.Difficulty,
			question.CorrectAnswer, optionsJSON, question.Explanation, question.SourceReference)
		if err := row.Scan(&question.CreatedAt); err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit quiz creation: %w", err)
	}

	quiz.Questions = questions
	return nil
}

func (r *PostgresQuizRepository) GetQuizByID(id, userID string) (*models.Quiz, error) {
	query := `
		SELECT id, course_id, user_id, quiz_type, difficulty, question_count, topic_focus,
			material_ids, score, time_spent_seconds, completed_at, created_at
		FROM studyquiz.quizzes
		WHERE id = $1 AND user_id = $2`

	quiz := &models.Quiz{}
	var materialIDsJSON []byte
	row := r.db.QueryRow(query, id, userID)

	err := row.Scan(&quiz.ID, &quiz.CourseID, &quiz.UserID, &quiz.QuizType, &quiz.Difficulty,
		&quiz.QuestionCount, &quiz.TopicFocus, &materialIDsJSON, &quiz.Score,
		&quiz.TimeSpentSeconds, &quiz.CompletedAt, &quiz.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("quiz with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if err := json.Unmarshal(materialIDsJSON, &quiz.MaterialIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal material ids: %w", err)
	}

	questions, err := r.getQuestionsByQuiz(quiz.ID)
	if err != nil {
		return nil, err
	}
	quiz.Questions = questions

	return quiz, nil
}

func (r *PostgresQuizRepository) GetQuizzesByCourse(courseID, userID string) ([]*models.Quiz, error) {
	query := `
		SELECT id, course_id, user_id, quiz_type, difficulty, question_count, topic_focus,
			material_ids, score, time_spent_seconds, completed_at, created_at
		FROM studyquiz.quizzes
		WHERE course_id = $1 AND user_id = $2
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query, courseID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := make([]*models.Quiz, 0)
	for rows.Next() {
		quiz := &models.Quiz{}
		var materialIDsJSON []byte
		err := rows.Scan(&quiz.ID, &quiz.CourseID, &quiz.UserID, &quiz.QuizType, &quiz.Difficulty,
			&quiz.QuestionCount, &quiz.TopicFocus, &materialIDsJSON, &quiz.Score,
			&quiz.TimeSpentSeconds, &quiz.CompletedAt, &quiz.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}

		if err := json.Unmarshal(materialIDsJSON, &quiz.MaterialIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal material ids: %w", err)
		}

		quizzes = append(quizzes, quiz)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over quizzes: %w", err)
	}

	return quizzes, nil
}

// UpdateQuestionAnswer overwrites the prior answer state; only the attempt
// counter carries history across retakes.
func (r *PostgresQuizRepository) UpdateQuestionAnswer(questionID string, userAnswer string, answeredCorrectly bool, attemptNumber int) error {
	query := `
		UPDATE studyquiz.questions
		SET user_answer = $1, answered_correctly = $2, attempt_number = $3
		WHERE id = $4`

	result, err := r.db.Exec(query, userAnswer, answeredCorrectly, attemptNumber, questionID)
	if err != nil {
		return fmt.Errorf("failed to update question answer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("question with id %s not found", questionID)
	}

	return nil
}

func (r *PostgresQuizRepository) CompleteQuiz(quizID string, score float64, timeSpentSeconds int) error {
	query := `
		UPDATE studyquiz.quizzes
		SET score = $1, time_spent_seconds = $2, completed_at = NOW()
		WHERE id = $3`

	result, err := r.db.Exec(query, score, timeSpentSeconds, quizID)
	if err != nil {
		return fmt.Errorf("failed to complete quiz: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("quiz with id %s not found", quizID)
	}

	return nil
}

func (r *PostgresQuizRepository) DeleteQuiz(id, userID string) error {
	query := "DELETE FROM studyquiz.quizzes WHERE id = $1 AND user_id = $2"

	result, err := r.db.Exec(query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("quiz with id %s not found", id)
	}

	return nil
}

func (r *PostgresQuizRepository) Close() error {
	return r.db.Close()
}

func (r *PostgresQuizRepository) getQuestionsByQuiz(quizID string) ([]*models.Question, error) {
	query := `
		SELECT id, quiz_id, material_id, question_text, question_type, difficulty,
			correct_answer, options, explanation, source_reference,
			user_answer, answered_correctly, attempt_number, created_at
		FROM studyquiz.questions
		WHERE quiz_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(query, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	questions := make([]*models.Question, 0)
	for rows.Next() {
		question := &models.Question{}
		var optionsJSON []byte
		err := rows.Scan(&question.ID, &question.QuizID, &question.MaterialID,
			&question.QuestionText, &question.QuestionType, &question.Difficulty,
			&question.CorrectAnswer, &optionsJSON, &question.Explanation, &question.SourceReference,
			&question.UserAnswer, &question.AnsweredCorrectly, &question.AttemptNumber, &question.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}

		if err := json.Unmarshal(optionsJSON, &question.Options); err != nil {
			return nil, fmt.Errorf("failed to unmarshal options: %w", err)
		}

		questions = append(questions, question)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over questions: %w", err)
	}

	return questions, nil
}
