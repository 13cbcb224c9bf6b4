package db

import (
	"database/sql"
	"fmt"

	"studyquiz/models"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type CourseRepository interface {
	CreateCourse(course *models.Course) error
	GetCourseByID(id, userID string) (*models.Course, error)
	GetCoursesByUser(userID string) ([]*models.Course, error)
	UpdateCourse(id, userID string, updates map[string]any) error
	DeleteCourse(id, userID string) error
	Close() error
}

type PostgresCourseRepository struct {
	db *sql.DB
}

func NewPostgresCourseRepository(databaseURL string) (*PostgresCourseRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresCourseRepository{db: db}, nil
}

func (r *PostgresCourseRepository) CreateCourse(course *models.Course) error {
	course.ID = uuid.NewString()

	query := `
		INSERT INTO studyquiz.courses (id, user_id, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	row := r.db.QueryRow(query, course.ID, course.UserID, course.Name, course.Description)

	if err := row.Scan(&course.CreatedAt, &course.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	return nil
}

func (r *PostgresCourseRepository) GetCourseByID(id, userID string) (*models.Course, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM studyquiz.courses
		WHERE id = $1 AND user_id = $2`

	course := &models.Course{}
	row := r.db.QueryRow(query, id, userID)

	err := row.Scan(&course.ID, &course.UserID, &course.Name, &course.Description,
		&course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("course with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return course, nil
}

func (r *PostgresCourseRepository) GetCoursesByUser(userID string) ([]*models.Course, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM studyquiz.courses
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		course := &models.Course{}
		err := rows.Scan(&course.ID, &course.UserID, &course.Name, &course.Description,
			&course.CreatedAt, &course.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over courses: %w", err)
	}

	return courses, nil
}

func (r *PostgresCourseRepository) UpdateCourse(id, userID string, updates map[string]any) error {
	setClause := ""
	args := []any{id, userID}
	argIndex := 3

	for column, value := range updates {
		if setClause != "" {
			setClause += ", "
		}
		setClause += fmt.Sprintf("%s = $%d", column, argIndex)
		args = append(args, value)
		argIndex++
	}

	query := fmt.Sprintf(`
		UPDATE studyquiz.courses
		SET %s, updated_at = NOW()
		WHERE id = $1 AND user_id = $2`, setClause)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("course with id %s not found", id)
	}

	return nil
}

func (r *PostgresCourseRepository) DeleteCourse(id, userID string) error {
	query := "DELETE FROM studyquiz.courses WHERE id = $1 AND user_id = $2"

	result, err := r.db.Exec(query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("course with id %s not found", id)
	}

	return nil
}

func (r *PostgresCourseRepository) Close() error {
	return r.db.Close()
}
