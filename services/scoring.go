package services

import "studyquiz/models"

type ScoreResult struct {
	CorrectByQuestion map[string]bool
	CorrectCount      int
	Score             float64
}

// ScoreSubmission grades a submitted answer set against the quiz questions.
// Comparison is exact string equality, case-sensitive, with no normalization;
// a question with no submitted answer counts as incorrect, never as an error.
// The score is a raw percentage; rounding is a presentation concern.
func ScoreSubmission(questions []*models.Question, answers map[string]string) ScoreResult {
	result := ScoreResult{
		CorrectByQuestion: make(map[string]bool, len(questions)),
	}

	for _, question := range questions {
		submitted, ok := answers[question.ID]
		correct := ok && submitted == question.CorrectAnswer
		result.CorrectByQuestion[question.ID] = correct
		if correct {
			result.CorrectCount++
		}
	}

	if len(questions) > 0 {
		result.Score = float64(result.CorrectCount) / float64(len(questions)) * 100
	}

	return result
}
