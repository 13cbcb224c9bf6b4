package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"studyquiz/db"
	"studyquiz/models"
	"studyquiz/services/docindex"
	"studyquiz/services/llm"

	"github.com/samber/lo"
)

const (
	minQuestionCount = 5
	maxQuestionCount = 25

	// topicChunkLimit caps how many indexed chunks a topic focus can pull in.
	topicChunkLimit = 10
)

// QuestionGenerator produces validated questions from study content. Satisfied
// by *llm.Service; faked in tests.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, content string, questionCount int, difficulty, quizType string, topicFocus *string) ([]llm.QuizQuestion, error)
}

type QuizService struct {
	repo             db.QuizRepository
	materialService  *MaterialService
	analyticsService *AnalyticsService
	generator        QuestionGenerator
	docindexService  *docindex.Service
}

// NewQuizService wires the quiz orchestrator; docindexService may be nil, in
// which case topic focus relies on the LLM prompt alone.
func NewQuizService(repo db.QuizRepository, materialService *MaterialService, analyticsService *AnalyticsService, generator QuestionGenerator, docindexService *docindex.Service) *QuizService {
	return &QuizService{
		repo:             repo,
		materialService:  materialService,
		analyticsService: analyticsService,
		generator:        generator,
		docindexService:  docindexService,
	}
}

// GenerateQuiz builds study content from the course materials, asks the LLM for
// questions, and persists the quiz. Nothing is stored when generation fails.
func (s *QuizService) GenerateQuiz(ctx context.Context, userID, courseID string, req *models.GenerateQuizRequest) (*models.Quiz, error) {
	log.Printf("[INFO] Starting quiz generation for course %s", courseID)

	if err := s.validateGenerateRequest(req); err != nil {
		log.Printf("[ERROR] Quiz generation validation failed: %v", err)
		return nil, err
	}

	materials, err := s.materialService.GetMaterialsForQuiz(courseID, req.MaterialIDs)
	if err != nil {
		log.Printf("[ERROR] Failed to load materials for course %s: %v", courseID, err)
		return nil, fmt.Errorf("failed to load materials: %w", err)
	}
	if len(materials) == 0 {
		return nil, fmt.Errorf("no materials found for this course; upload materials before generating a quiz")
	}

	content := s.buildStudyContent(courseID, materials, req.TopicFocus)
	if content == "" {
		return nil, fmt.Errorf("materials contain no extractable text")
	}

	// MIXED asks for a spread of difficulties; the per-question difficulty in
	// the response is what gets stored.
	promptDifficulty := req.Difficulty
	if promptDifficulty == models.DifficultyMixed {
		promptDifficulty = models.DifficultyMedium
	}

	generated, err := s.generator.GenerateQuestions(ctx, content, req.QuestionCount, promptDifficulty, req.QuizType, req.TopicFocus)
	if err != nil {
		log.Printf("[ERROR] Question generation failed for course %s: %v", courseID, err)
		return nil, err
	}

	if len(generated) < req.QuestionCount {
		log.Printf("[WARN] Generated %d questions, requested %d; keeping the usable subset", len(generated), req.QuestionCount)
	}

	quiz := &models.Quiz{
		CourseID:      courseID,
		UserID:        userID,
		QuizType:      req.QuizType,
		Difficulty:    req.Difficulty,
		QuestionCount: len(generated),
		TopicFocus:    req.TopicFocus,
		MaterialIDs:   lo.Map(materials, func(m *models.Material, _ int) string { return m.ID }),
	}

	questions := make([]*models.Question, 0, len(generated))
	for _, q := range generated {
		questions = append(questions, &models.Question{
			MaterialID:      materials[0].ID,
			QuestionText:    q.Question,
			QuestionType:    req.QuizType,
			Difficulty:      q.Difficulty,
			CorrectAnswer:   q.CorrectAnswer,
			Options:         q.Options,
			Explanation:     q.Explanation,
			SourceReference: q.SourceReference,
		})
	}

	if err := s.repo.CreateQuizWithQuestions(quiz, questions); err != nil {
		log.Printf("[ERROR] Failed to persist quiz: %v", err)
		return nil, fmt.Errorf("failed to save quiz: %w", err)
	}
	quiz.Questions = questions

	log.Printf("[INFO] Successfully generated quiz %s with %d questions", quiz.ID, len(questions))
	return quiz, nil
}

// SubmitQuiz scores the answers, records them per question, and folds the
// result into the user's analytics. Resubmitting a completed quiz is a retake:
// every question's attempt number goes up and prior answers are overwritten.
func (s *QuizService) SubmitQuiz(quizID, userID string, req *models.SubmitQuizRequest) (*models.SubmitQuizResponse, error) {
	log.Printf("[INFO] Starting quiz submission for quiz %s", quizID)

	if req == nil || req.Answers == nil {
		return nil, fmt.Errorf("answers are required")
	}

	quiz, err := s.repo.GetQuizByID(quizID, userID)
	if err != nil {
		log.Printf("[ERROR] Failed to get quiz %s: %v", quizID, err)
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("quiz %s has no questions", quizID)
	}

	result := ScoreSubmission(quiz.Questions, req.Answers)

	for _, question := range quiz.Questions {
		answer := req.Answers[question.ID]
		correct := result.CorrectByQuestion[question.ID]
		attemptNumber := question.AttemptNumber + 1

		if err := s.repo.UpdateQuestionAnswer(question.ID, answer, correct, attemptNumber); err != nil {
			log.Printf("[ERROR] Failed to record answer for question %s: %v", question.ID, err)
			return nil, fmt.Errorf("failed to record answer: %w", err)
		}

		question.UserAnswer = &answer
		answeredCorrectly := correct
		question.AnsweredCorrectly = &answeredCorrectly
		question.AttemptNumber = attemptNumber
	}

	if err := s.repo.CompleteQuiz(quizID, result.Score, req.TimeSpentSeconds); err != nil {
		log.Printf("[ERROR] Failed to complete quiz %s: %v", quizID, err)
		return nil, fmt.Errorf("failed to complete quiz: %w", err)
	}
	quiz.Score = &result.Score
	quiz.TimeSpentSeconds = &req.TimeSpentSeconds

	delta := models.AnalyticsDelta{
		QuestionsAnswered: len(quiz.Questions),
		CorrectAnswers:    result.CorrectCount,
		QuizAttempts:      1,
		StudyTimeSeconds:  req.TimeSpentSeconds,
	}
	if err := s.analyticsService.RecordSubmission(userID, quiz.CourseID, delta); err != nil {
		// The submission itself succeeded; analytics lag behind at worst.
		log.Printf("[WARN] Failed to record analytics for quiz %s: %v", quizID, err)
	}

	log.Printf("[INFO] Successfully submitted quiz %s with score %.1f", quizID, result.Score)
	return &models.SubmitQuizResponse{
		Quiz:      quiz,
		Questions: quiz.Questions,
		Score:     result.Score,
	}, nil
}

func (s *QuizService) GetQuiz(quizID, userID string) (*models.Quiz, error) {
	log.Printf("[INFO] Starting get quiz with ID %s", quizID)

	quiz, err := s.repo.GetQuizByID(quizID, userID)
	if err != nil {
		log.Printf("[ERROR] Failed to get quiz %s: %v", quizID, err)
		return nil, err
	}

	log.Printf("[INFO] Successfully retrieved quiz %s", quizID)
	return quiz, nil
}

func (s *QuizService) GetQuizzesByCourse(courseID, userID string) ([]*models.Quiz, error) {
	log.Printf("[INFO] Starting get quizzes for course %s", courseID)

	quizzes, err := s.repo.GetQuizzesByCourse(courseID, userID)
	if err != nil {
		log.Printf("[ERROR] Failed to get quizzes for course %s: %v", courseID, err)
		return nil, fmt.Errorf("failed to get quizzes: %w", err)
	}

	log.Printf("[INFO] Successfully retrieved %d quizzes", len(quizzes))
	return quizzes, nil
}

func (s *QuizService) DeleteQuiz(quizID, userID string) error {
	log.Printf("[INFO] Starting delete quiz with ID %s", quizID)

	if err := s.repo.DeleteQuiz(quizID, userID); err != nil {
		log.Printf("[ERROR] Failed to delete quiz %s: %v", quizID, err)
		return err
	}

	log.Printf("[INFO] Successfully deleted quiz %s", quizID)
	return nil
}

// buildStudyContent concatenates the selected materials' text and, when a topic
// focus is set and the document index is available, prepends the most relevant
// indexed chunks.
func (s *QuizService) buildStudyContent(courseID string, materials []*models.Material, topicFocus *string) string {
	parts := make([]string, 0, len(materials))

	if topicFocus != nil && strings.TrimSpace(*topicFocus) != "" && s.docindexService != nil {
		chunks, err := s.docindexService.QueryTopicChunks(courseID, *topicFocus, topicChunkLimit)
		if err != nil {
			log.Printf("[WARN] Topic chunk lookup failed, falling back to full materials: %v", err)
		} else if len(chunks) > 0 {
			parts = append(parts, "Most relevant sections for the requested topic:\n\n"+strings.Join(chunks, "\n\n"))
		}
	}

	for _, material := range materials {
		if text := strings.TrimSpace(material.ContentText); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n\n")
}

func (s *QuizService) validateGenerateRequest(req *models.GenerateQuizRequest) error {
	if req == nil {
		return fmt.Errorf("request cannot be nil")
	}

	switch req.QuizType {
	case models.QuizTypeFlashcard, models.QuizTypeMultipleChoice:
	default:
		return fmt.Errorf("quiz_type must be FLASHCARD or MULTIPLE_CHOICE")
	}

	switch req.Difficulty {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard, models.DifficultyMixed:
	default:
		return fmt.Errorf("difficulty must be one of EASY, MEDIUM, HARD, MIXED")
	}

	if req.QuestionCount < minQuestionCount || req.QuestionCount > maxQuestionCount {
		return fmt.Errorf("question_count must be between %d and %d", minQuestionCount, maxQuestionCount)
	}

	return nil
}
