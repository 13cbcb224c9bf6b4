package db

import (
	"database/sql"
	"fmt"

	"studyquiz/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type MaterialRepository interface {
	CreateMaterial(material *models.Material) error
	GetMaterialByID(id string) (*models.Material, error)
	GetMaterialsByCourse(courseID string) ([]*models.Material, error)
	GetMaterialsByIDs(courseID string, ids []string) ([]*models.Material, error)
	CountMaterialsByUser(userID string) (int, error)
	DeleteMaterial(id, courseID string) error
	Close() error
}

type PostgresMaterialRepository struct {
	db *sql.DB
}

func NewPostgresMaterialRepository(databaseURL string) (*PostgresMaterialRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresMaterialRepository{db: db}, nil
}

func (r *PostgresMaterialRepository) CreateMaterial(material *models.Material) error {
	material.ID = uuid.NewString()

	query := `
		INSERT INTO studyquiz.materials (id, course_id, title, source_type, source_url, file_name, content_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING uploaded_at`

	row := r.db.QueryRow(query, material.ID, material.CourseID, material.Title,
		material.SourceType, material.SourceURL, material.FileName, material.ContentText)

	if err := row.Scan(&material.UploadedAt); err != nil {
		return fmt.Errorf("failed to create material: %w", err)
	}

	return nil
}

func (r *PostgresMaterialRepository) GetMaterialByID(id string) (*models.Material, error) {
	query := `
		SELECT id, course_id, title, source_type, source_url, file_name, content_text, uploaded_at
		FROM studyquiz.materials
		WHERE id = $1`

	material := &models.Material{}
	row := r.db.QueryRow(query, id)

	err := row.Scan(&material.ID, &material.CourseID, &material.Title, &material.SourceType,
		&material.SourceURL, &material.FileName, &material.ContentText, &material.UploadedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("material with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get material: %w", err)
	}

	return material, nil
}

func (r *PostgresMaterialRepository) GetMaterialsByCourse(courseID string) ([]*models.Material, error) {
	query := `
		SELECT id, course_id, title, source_type, source_url, file_name, content_text, uploaded_at
		FROM studyquiz.materials
		WHERE course_id = $1
		ORDER BY uploaded_at DESC`

	rows, err := r.db.Query(query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query materials: %w", err)
	}
	defer rows.Close()

	return scanMaterials(rows)
}

func (r *PostgresMaterialRepository) GetMaterialsByIDs(courseID string, ids []string) ([]*models.Material, error) {
	query := `
		SELECT id, course_id, title, source_type, source_url, file_name, content_text, uploaded_at
		FROM studyquiz.materials
		WHERE course_id = $1 AND id = ANY($2)
		ORDER BY uploaded_at DESC`

	rows, err := r.db.Query(query, courseID, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query materials: %w", err)
	}
	defer rows.Close()

	return scanMaterials(rows)
}

func (r *PostgresMaterialRepository) CountMaterialsByUser(userID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM studyquiz.materials m
		JOIN studyquiz.courses c ON c.id = m.course_id
		WHERE c.user_id = $1`

	var count int
	if err := r.db.QueryRow(query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count materials: %w", err)
	}

	return count, nil
}

func (r *PostgresMaterialRepository) DeleteMaterial(id, courseID string) error {
	query := "DELETE FROM studyquiz.materials WHERE id = $1 AND course_id = $2"

	result, err := r.db.Exec(query, id, courseID)
	if err != nil {
		return fmt.Errorf("failed to delete material: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("material with id %s not found", id)
	}

	return nil
}

func (r *PostgresMaterialRepository) Close() error {
	return r.db.Close()
}

func scanMaterials(rows *sql.Rows) ([]*models.Material, error) {
	materials := make([]*models.Material, 0)
	for rows.Next() {
		material := &models.Material{}
		err := rows.Scan(&material.ID, &material.CourseID, &material.Title, &material.SourceType,
			&material.SourceURL, &material.FileName, &material.ContentText, &material.UploadedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		materials = append(materials, material)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over materials: %w", err)
	}

	return materials, nil
}
