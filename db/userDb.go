package db

import (
	"database/sql"
	"fmt"

	"studyquiz/models"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	Close() error
}

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(databaseURL string) (*PostgresUserRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresUserRepository{db: db}, nil
}

func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	user.ID = uuid.NewString()

	query := `
		INSERT INTO studyquiz.users (id, email, password_hash, name)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	row := r.db.QueryRow(query, user.ID, user.Email, user.PasswordHash, user.Name)

	if err := row.Scan(&user.CreatedAt); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, name, created_at
		FROM studyquiz.users
		WHERE email = $1`

	user := &models.User{}
	row := r.db.QueryRow(query, email)

	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (r *PostgresUserRepository) GetUserByID(id string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, name, created_at
		FROM studyquiz.users
		WHERE id = $1`

	user := &models.User{}
	row := r.db.QueryRow(query, id)

	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (r *PostgresUserRepository) Close() error {
	return r.db.Close()
}
