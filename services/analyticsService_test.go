package services

import (
	"testing"
	"time"

	"studyquiz/models"
)

type recordingAnalyticsRepo struct {
	fakeAnalyticsRepo
	userRecords []*models.Analytics
}

func (r *recordingAnalyticsRepo) GetByUserSince(userID string, since time.Time) ([]*models.Analytics, error) {
	return r.userRecords, nil
}

func TestGetUserSummaryAggregates(t *testing.T) {
	repo := &recordingAnalyticsRepo{
		userRecords: []*models.Analytics{
			{CourseID: "c1", QuestionsAnswered: 10, CorrectAnswers: 8, QuizAttempts: 2, StudyTimeSeconds: 600},
			{CourseID: "c2", QuestionsAnswered: 5, CorrectAnswers: 1, QuizAttempts: 1, StudyTimeSeconds: 300},
		},
	}
	service := NewAnalyticsService(repo)

	summary, err := service.GetUserSummary("u1")
	if err != nil {
		t.Fatalf("GetUserSummary() error = %v", err)
	}

	if summary.QuestionsAnswered != 15 {
		t.Errorf("QuestionsAnswered = %d, expected 15", summary.QuestionsAnswered)
	}
	if summary.CorrectAnswers != 9 {
		t.Errorf("CorrectAnswers = %d, expected 9", summary.CorrectAnswers)
	}
	if summary.QuizAttempts != 3 {
		t.Errorf("QuizAttempts = %d, expected 3", summary.QuizAttempts)
	}
	if summary.StudyTimeSeconds != 900 {
		t.Errorf("StudyTimeSeconds = %d, expected 900", summary.StudyTimeSeconds)
	}
	if summary.MasteryPercentage != 60 {
		t.Errorf("MasteryPercentage = %v, expected 60", summary.MasteryPercentage)
	}
	if len(summary.Daily) != 2 {
		t.Errorf("Daily has %d records, expected 2", len(summary.Daily))
	}
}

func TestGetUserSummaryEmpty(t *testing.T) {
	service := NewAnalyticsService(&recordingAnalyticsRepo{})

	summary, err := service.GetUserSummary("u1")
	if err != nil {
		t.Fatalf("GetUserSummary() error = %v", err)
	}
	if summary.MasteryPercentage != 0 {
		t.Errorf("MasteryPercentage = %v, expected 0 with no activity", summary.MasteryPercentage)
	}
}

func TestTruncateToDay(t *testing.T) {
	ts := time.Date(2025, time.March, 14, 15, 9, 26, 535898, time.UTC)
	day := truncateToDay(ts)

	if day.Hour() != 0 || day.Minute() != 0 || day.Second() != 0 || day.Nanosecond() != 0 {
		t.Errorf("truncateToDay() = %v, expected midnight", day)
	}
	if day.Year() != 2025 || day.Month() != time.March || day.Day() != 14 {
		t.Errorf("truncateToDay() = %v, date changed", day)
	}
}
