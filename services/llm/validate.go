package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"studyquiz/models"

	"github.com/samber/lo"
)

// QuizQuestion is the transient, validated question produced by parsing. It has
// no identity of its own; the quiz service consumes it immediately to create
// persisted records.
type QuizQuestion struct {
	Question        string   `json:"question"`
	CorrectAnswer   string   `json:"correctAnswer"`
	Options         []string `json:"options,omitempty"`
	Explanation     string   `json:"explanation"`
	SourceReference string   `json:"sourceReference"`
	Difficulty      string   `json:"difficulty"`
}

// rawQuestion is one parsed array element before validation. Options stays raw
// so an absent field, a null, and a non-array value can be told apart.
type rawQuestion struct {
	Question        string          `json:"question"`
	CorrectAnswer   string          `json:"correctAnswer"`
	Options         json.RawMessage `json:"options"`
	Explanation     string          `json:"explanation"`
	SourceReference string          `json:"sourceReference"`
	Difficulty      string          `json:"difficulty"`
}

const defaultSourceReference = "Content reference"

const optionCount = 4

func normalizeQuestion(elem json.RawMessage, quizType string, index int) (QuizQuestion, error) {
	var raw rawQuestion
	if err := json.Unmarshal(elem, &raw); err != nil {
		// A non-object element carries none of the required fields.
		return QuizQuestion{}, missingFieldError(index, "question")
	}
	return normalizeRawQuestion(raw, quizType, index)
}

// normalizeRawQuestion enforces the per-question schema: required non-empty
// fields fail the question, while a malformed difficulty or a wrong option
// count are normalized rather than fatal.
func normalizeRawQuestion(raw rawQuestion, quizType string, index int) (QuizQuestion, error) {
	if strings.TrimSpace(raw.Question) == "" {
		return QuizQuestion{}, missingFieldError(index, "question")
	}
	if strings.TrimSpace(raw.CorrectAnswer) == "" {
		return QuizQuestion{}, missingFieldError(index, "correctAnswer")
	}
	if strings.TrimSpace(raw.Explanation) == "" {
		return QuizQuestion{}, missingFieldError(index, "explanation")
	}

	q := QuizQuestion{
		Question:        raw.Question,
		CorrectAnswer:   raw.CorrectAnswer,
		Explanation:     raw.Explanation,
		SourceReference: raw.SourceReference,
		Difficulty:      normalizeDifficulty(raw.Difficulty),
	}
	if q.SourceReference == "" {
		q.SourceReference = defaultSourceReference
	}

	if quizType == models.QuizTypeMultipleChoice {
		options, err := decodeOptions(raw.Options)
		if err != nil {
			return QuizQuestion{}, missingOptionsError(index)
		}
		q.Options = padOptions(options)
	}
	// For flashcards an options field, if present, is simply ignored.

	return q, nil
}

func decodeOptions(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("options field is absent")
	}
	var values []any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("options field is not an array: %w", err)
	}
	return lo.Map(values, func(v any, _ int) string {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}), nil
}

// padOptions deterministically fixes the option count: extras beyond 4 are
// discarded, short lists are padded with placeholder entries.
func padOptions(options []string) []string {
	if len(options) > optionCount {
		return options[:optionCount]
	}
	for len(options) < optionCount {
		options = append(options, fmt.Sprintf("Option %d", len(options)+1))
	}
	return options
}

// normalizeDifficulty uppercases and whitelists the difficulty label; anything
// absent or unrecognized becomes MEDIUM rather than failing the question.
func normalizeDifficulty(value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case models.DifficultyEasy:
		return models.DifficultyEasy
	case models.DifficultyHard:
		return models.DifficultyHard
	case models.DifficultyMedium:
		return models.DifficultyMedium
	default:
		return models.DifficultyMedium
	}
}
