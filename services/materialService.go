package services

import (
	"fmt"
	"log"
	"strings"

	"studyquiz/db"
	"studyquiz/models"
	"studyquiz/services/docindex"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxMaterialsPerUser caps stored materials across all of a user's courses.
const maxMaterialsPerUser = 50

type MaterialService struct {
	repo            db.MaterialRepository
	docindexService *docindex.Service
}

// NewMaterialService wires the repository and an optional document index; pass
// a nil docindexService to disable semantic indexing.
func NewMaterialService(repo db.MaterialRepository, docindexService *docindex.Service) *MaterialService {
	return &MaterialService{
		repo:            repo,
		docindexService: docindexService,
	}
}

func (s *MaterialService) CreateMaterial(userID, courseID string, req *models.CreateMaterialRequest) (*models.Material, error) {
	log.Printf("[INFO] Starting material creation for course %s", courseID)

	if err := s.validateCreateRequest(req); err != nil {
		log.Printf("[ERROR] Material creation validation failed: %v", err)
		return nil, err
	}

	count, err := s.repo.CountMaterialsByUser(userID)
	if err != nil {
		log.Printf("[ERROR] Failed to count materials for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to count materials: %w", err)
	}
	if count >= maxMaterialsPerUser {
		log.Printf("[ERROR] Material limit reached for user %s (%d)", userID, count)
		return nil, fmt.Errorf("material limit reached (%d per user)", maxMaterialsPerUser)
	}

	material := &models.Material{
		CourseID:    courseID,
		Title:       strings.TrimSpace(req.Title),
		SourceType:  req.SourceType,
		SourceURL:   req.SourceURL,
		FileName:    req.FileName,
		ContentText: strings.TrimSpace(req.ContentText),
	}

	if err := s.repo.CreateMaterial(material); err != nil {
		log.Printf("[ERROR] Failed to create material in repository: %v", err)
		return nil, fmt.Errorf("failed to create material: %w", err)
	}

	if s.docindexService != nil {
		if err := s.docindexService.IndexMaterial(material); err != nil {
			// Indexing is best effort; the material is already persisted and
			// quiz generation falls back to full-content concatenation.
			log.Printf("[WARN] Failed to index material %s: %v", material.ID, err)
		}
	}

	log.Printf("[INFO] Successfully created material with ID %s", material.ID)
	return material, nil
}

func (s *MaterialService) GetMaterialsByCourse(courseID string) ([]*models.Material, error) {
	log.Printf("[INFO] Starting get materials for course %s", courseID)

	materials, err := s.repo.GetMaterialsByCourse(courseID)
	if err != nil {
		log.Printf("[ERROR] Failed to get materials for course %s: %v", courseID, err)
		return nil, fmt.Errorf("failed to get materials: %w", err)
	}

	log.Printf("[INFO] Successfully retrieved %d materials", len(materials))
	return materials, nil
}

func (s *MaterialService) GetMaterialsForQuiz(courseID string, materialIDs []string) ([]*models.Material, error) {
	if len(materialIDs) > 0 {
		return s.repo.GetMaterialsByIDs(courseID, materialIDs)
	}
	return s.repo.GetMaterialsByCourse(courseID)
}

func (s *MaterialService) DeleteMaterial(id, courseID string) error {
	log.Printf("[INFO] Starting delete material with ID %s", id)

	if err := s.repo.DeleteMaterial(id, courseID); err != nil {
		log.Printf("[ERROR] Failed to delete material ID %s: %v", id, err)
		return err
	}

	log.Printf("[INFO] Successfully deleted material with ID %s", id)
	return nil
}

func (s *MaterialService) SearchMaterialsByContent(courseID string, searchTerms []string) ([]*models.Material, error) {
	log.Printf("[INFO] Starting material search with %d search terms", len(searchTerms))

	materials, err := s.GetMaterialsByCourse(courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get materials for search: %w", err)
	}

	if len(searchTerms) == 0 {
		log.Printf("[INFO] No search terms provided, returning all %d materials", len(materials))
		return materials, nil
	}

	var matchingMaterials []*models.Material
	for _, material := range materials {
		if s.materialMatchesSearch(material, searchTerms) {
			matchingMaterials = append(matchingMaterials, material)
		}
	}

	log.Printf("[INFO] Found %d materials matching search criteria", len(matchingMaterials))
	return matchingMaterials, nil
}

func (s *MaterialService) materialMatchesSearch(material *models.Material, searchTerms []string) bool {
	content := material.Title + " " + material.ContentText
	words := strings.Fields(strings.ToLower(content))

	for _, term := range searchTerms {
		if fuzzy.MatchFold(term, content) {
			return true
		}

		cleanWords := make([]string, 0, len(words))
		for _, word := range words {
			cleanWord := strings.Trim(word, ".,!?;:()[]{}\"'")
			if len(cleanWord) > 0 {
				cleanWords = append(cleanWords, cleanWord)
			}
		}

		// Fuzzy match against individual words tolerates typos in the terms.
		if matches := fuzzy.Find(term, cleanWords); len(matches) > 0 {
			return true
		}
	}

	return false
}

func (s *MaterialService) validateCreateRequest(req *models.CreateMaterialRequest) error {
	if req == nil {
		return fmt.Errorf("request cannot be nil")
	}

	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("title is required")
	}

	switch req.SourceType {
	case models.MaterialSourceFile:
		if req.FileName == nil || strings.TrimSpace(*req.FileName) == "" {
			return fmt.Errorf("file_name is required for FILE materials")
		}
	case models.MaterialSourceURL:
		if req.SourceURL == nil || strings.TrimSpace(*req.SourceURL) == "" {
			return fmt.Errorf("source_url is required for URL materials")
		}
	case models.MaterialSourceText:
		// Nothing beyond content.
	default:
		return fmt.Errorf("source_type must be one of FILE, URL, TEXT")
	}

	if strings.TrimSpace(req.ContentText) == "" {
		return fmt.Errorf("content_text is required; upload extraction happens before this API")
	}

	return nil
}
