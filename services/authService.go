package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"studyquiz/db"
	"studyquiz/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 7 * 24 * time.Hour

type AuthService struct {
	repo      db.UserRepository
	jwtSecret []byte
}

func NewAuthService(repo db.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{repo: repo, jwtSecret: []byte(jwtSecret)}
}

func (s *AuthService) Register(req *models.RegisterRequest) (*models.AuthResponse, error) {
	log.Printf("[INFO] Starting user registration")

	if err := s.validateRegisterRequest(req); err != nil {
		log.Printf("[ERROR] Registration validation failed: %v", err)
		return nil, err
	}

	if existing, _ := s.repo.GetUserByEmail(strings.ToLower(strings.TrimSpace(req.Email))); existing != nil {
		log.Printf("[ERROR] Registration failed: email already in use")
		return nil, fmt.Errorf("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[ERROR] Failed to hash password: %v", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
	}

	if err := s.repo.CreateUser(user); err != nil {
		log.Printf("[ERROR] Failed to create user in repository: %v", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] Successfully registered user with ID %s", user.ID)
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *AuthService) Login(req *models.LoginRequest) (*models.AuthResponse, error) {
	log.Printf("[INFO] Starting user login")

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		log.Printf("[ERROR] Login failed for email lookup: %v", err)
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Printf("[ERROR] Login failed: password mismatch for user %s", user.ID)
		return nil, fmt.Errorf("invalid email or password")
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] Successfully logged in user with ID %s", user.ID)
	return &models.AuthResponse{Token: token, User: user}, nil
}

// VerifyToken parses and validates a bearer token, returning the user ID.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("token missing subject claim")
	}

	return userID, nil
}

func (s *AuthService) issueToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

func (s *AuthService) validateRegisterRequest(req *models.RegisterRequest) error {
	if req == nil {
		return fmt.Errorf("request cannot be nil")
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("a valid email is required")
	}

	if len(req.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("name is required")
	}

	return nil
}
