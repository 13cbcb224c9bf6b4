package services

import (
	"fmt"
	"log"
	"time"

	"studyquiz/db"
	"studyquiz/models"
)

// analyticsWindowDays is how far back course and user reports reach.
const analyticsWindowDays = 30

type AnalyticsService struct {
	repo db.AnalyticsRepository
}

func NewAnalyticsService(repo db.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// RecordSubmission folds one quiz submission into the day's aggregate row.
func (s *AnalyticsService) RecordSubmission(userID, courseID string, delta models.AnalyticsDelta) error {
	log.Printf("[INFO] Recording analytics for user %s in course %s", userID, courseID)

	day := truncateToDay(time.Now().UTC())
	if err := s.repo.UpsertDaily(userID, courseID, day, delta); err != nil {
		log.Printf("[ERROR] Failed to record analytics: %v", err)
		return fmt.Errorf("failed to record analytics: %w", err)
	}

	return nil
}

func (s *AnalyticsService) GetCourseAnalytics(userID, courseID string) ([]*models.Analytics, error) {
	log.Printf("[INFO] Starting course analytics lookup for course %s", courseID)

	since := truncateToDay(time.Now().UTC().AddDate(0, 0, -analyticsWindowDays))
	records, err := s.repo.GetByCourseSince(userID, courseID, since)
	if err != nil {
		log.Printf("[ERROR] Failed to get course analytics: %v", err)
		return nil, fmt.Errorf("failed to get course analytics: %w", err)
	}

	log.Printf("[INFO] Successfully retrieved %d analytics records for course %s", len(records), courseID)
	return records, nil
}

// GetUserSummary aggregates the last 30 days across all of a user's courses.
func (s *AnalyticsService) GetUserSummary(userID string) (*models.AnalyticsSummary, error) {
	log.Printf("[INFO] Starting analytics summary for user %s", userID)

	since := truncateToDay(time.Now().UTC().AddDate(0, 0, -analyticsWindowDays))
	records, err := s.repo.GetByUserSince(userID, since)
	if err != nil {
		log.Printf("[ERROR] Failed to get user analytics: %v", err)
		return nil, fmt.Errorf("failed to get user analytics: %w", err)
	}

	summary := &models.AnalyticsSummary{Daily: records}
	for _, record := range records {
		summary.QuestionsAnswered += record.QuestionsAnswered
		summary.CorrectAnswers += record.CorrectAnswers
		summary.QuizAttempts += record.QuizAttempts
		summary.StudyTimeSeconds += record.StudyTimeSeconds
	}
	if summary.QuestionsAnswered > 0 {
		summary.MasteryPercentage = float64(summary.CorrectAnswers) / float64(summary.QuestionsAnswered) * 100
	}

	log.Printf("[INFO] Successfully built analytics summary for user %s (%d daily records)", userID, len(records))
	return summary, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
