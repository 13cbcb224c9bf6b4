package services

import (
	"fmt"
	"log"
	"strings"

	"studyquiz/db"
	"studyquiz/models"
)

type CourseService struct {
	repo db.CourseRepository
}

func NewCourseService(repo db.CourseRepository) *CourseService {
	return &CourseService{repo: repo}
}

func (s *CourseService) CreateCourse(userID string, req *models.CreateCourseRequest) (*models.Course, error) {
	log.Printf("[INFO] Starting course creation for user %s", userID)

	if err := s.validateCreateRequest(req); err != nil {
		log.Printf("[ERROR] Course creation validation failed: %v", err)
		return nil, err
	}

	course := &models.Course{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}

	if err := s.repo.CreateCourse(course); err != nil {
		log.Printf("[ERROR] Failed to create course in repository: %v", err)
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	log.Printf("[INFO] Successfully created course with ID %s", course.ID)
	return course, nil
}

func (s *CourseService) GetCourseByID(id, userID string) (*models.Course, error) {
	log.Printf("[INFO] Starting get course by ID %s", id)

	course, err := s.repo.GetCourseByID(id, userID)
	if err != nil {
		log.Printf("[ERROR] Failed to get course by ID %s: %v", id, err)
		return nil, err
	}

	return course, nil
}

func (s *CourseService) GetCoursesByUser(userID string) ([]*models.Course, error) {
	log.Printf("[INFO] Starting get courses for user %s", userID)

	courses, err := s.repo.GetCoursesByUser(userID)
	if err != nil {
		log.Printf("[ERROR] Failed to get courses for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}

	log.Printf("[INFO] Successfully retrieved %d courses", len(courses))
	return courses, nil
}

func (s *CourseService) UpdateCourse(id, userID string, req *models.UpdateCourseRequest) (*models.Course, error) {
	log.Printf("[INFO] Starting update course with ID %s", id)

	if req == nil || (req.Name == nil && req.Description == nil) {
		log.Printf("[ERROR] No valid updates provided for course ID %s", id)
		return nil, fmt.Errorf("at least one field must be provided for update")
	}

	updates := make(map[string]any)

	if req.Name != nil {
		trimmedName := strings.TrimSpace(*req.Name)
		if trimmedName == "" {
			log.Printf("[ERROR] Empty name provided for course ID %s", id)
			return nil, fmt.Errorf("name cannot be empty")
		}
		updates["name"] = trimmedName
	}

	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}

	if err := s.repo.UpdateCourse(id, userID, updates); err != nil {
		log.Printf("[ERROR] Failed to update course ID %s in repository: %v", id, err)
		return nil, err
	}

	log.Printf("[INFO] Successfully updated course with ID %s", id)
	return s.repo.GetCourseByID(id, userID)
}

func (s *CourseService) DeleteCourse(id, userID string) error {
	log.Printf("[INFO] Starting delete course with ID %s", id)

	if err := s.repo.DeleteCourse(id, userID); err != nil {
		log.Printf("[ERROR] Failed to delete course ID %s: %v", id, err)
		return err
	}

	log.Printf("[INFO] Successfully deleted course with ID %s", id)
	return nil
}

func (s *CourseService) validateCreateRequest(req *models.CreateCourseRequest) error {
	if req == nil {
		return fmt.Errorf("request cannot be nil")
	}

	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("name is required")
	}

	return nil
}
