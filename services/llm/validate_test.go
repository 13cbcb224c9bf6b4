package llm

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"studyquiz/models"
)

func TestNormalizeRawQuestionRequiredFields(t *testing.T) {
	base := rawQuestion{
		Question:      "What is an enzyme?",
		CorrectAnswer: "A biological catalyst",
		Explanation:   "Enzymes lower activation energy.",
	}

	tests := []struct {
		name      string
		mutate    func(q *rawQuestion)
		wantField string
	}{
		{
			name:      "missing question",
			mutate:    func(q *rawQuestion) { q.Question = "" },
			wantField: "question",
		},
		{
			name:      "whitespace-only question",
			mutate:    func(q *rawQuestion) { q.Question = "   " },
			wantField: "question",
		},
		{
			name:      "missing correct answer",
			mutate:    func(q *rawQuestion) { q.CorrectAnswer = "" },
			wantField: "correctAnswer",
		},
		{
			name:      "missing explanation",
			mutate:    func(q *rawQuestion) { q.Explanation = "" },
			wantField: "explanation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := base
			tt.mutate(&raw)

			_, err := normalizeRawQuestion(raw, models.QuizTypeFlashcard, 3)
			if !IsKind(err, KindMissingField) {
				t.Fatalf("error = %v, expected kind %s", err, KindMissingField)
			}

			var genErr *Error
			if !errors.As(err, &genErr) {
				t.Fatal("error is not a *Error")
			}
			if genErr.Field != tt.wantField {
				t.Errorf("Field = %q, expected %q", genErr.Field, tt.wantField)
			}
			if genErr.Index != 3 {
				t.Errorf("Index = %d, expected 3", genErr.Index)
			}
		})
	}
}

func TestNormalizeRawQuestionDefaults(t *testing.T) {
	raw := rawQuestion{
		Question:      "Define homeostasis.",
		CorrectAnswer: "Maintenance of a stable internal environment",
		Explanation:   "Organisms regulate internal conditions.",
	}

	q, err := normalizeRawQuestion(raw, models.QuizTypeFlashcard, 0)
	if err != nil {
		t.Fatalf("normalizeRawQuestion() error = %v", err)
	}

	if q.SourceReference != defaultSourceReference {
		t.Errorf("SourceReference = %q, expected default %q", q.SourceReference, defaultSourceReference)
	}
	if q.Difficulty != models.DifficultyMedium {
		t.Errorf("Difficulty = %q, expected default %q", q.Difficulty, models.DifficultyMedium)
	}
	if q.Options != nil {
		t.Errorf("Options = %v, expected none for flashcards", q.Options)
	}
}

func TestNormalizeRawQuestionOptions(t *testing.T) {
	base := rawQuestion{
		Question:      "Which gas do plants absorb?",
		CorrectAnswer: "Carbon dioxide",
		Explanation:   "Plants fix CO2 during photosynthesis.",
	}

	tests := []struct {
		name        string
		options     string // raw JSON for the options field, "" means absent
		quizType    string
		wantErr     bool
		wantOptions []string
	}{
		{
			name:        "exactly four options pass through",
			options:     `["Carbon dioxide", "Oxygen", "Nitrogen", "Methane"]`,
			quizType:    models.QuizTypeMultipleChoice,
			wantOptions: []string{"Carbon dioxide", "Oxygen", "Nitrogen", "Methane"},
		},
		{
			name:        "short list is padded",
			options:     `["Carbon dioxide", "Oxygen"]`,
			quizType:    models.QuizTypeMultipleChoice,
			wantOptions: []string{"Carbon dioxide", "Oxygen", "Option 3", "Option 4"},
		},
		{
			name:        "long list is truncated",
			options:     `["A", "B", "C", "D", "E", "F"]`,
			quizType:    models.QuizTypeMultipleChoice,
			wantOptions: []string{"A", "B", "C", "D"},
		},
		{
			name:        "empty array is fully padded",
			options:     `[]`,
			quizType:    models.QuizTypeMultipleChoice,
			wantOptions: []string{"Option 1", "Option 2", "Option 3", "Option 4"},
		},
		{
			name:        "non-string elements are coerced",
			options:     `[1, true, "three", 4.5]`,
			quizType:    models.QuizTypeMultipleChoice,
			wantOptions: []string{"1", "true", "three", "4.5"},
		},
		{
			name:     "absent options fail multiple choice",
			options:  "",
			quizType: models.QuizTypeMultipleChoice,
			wantErr:  true,
		},
		{
			name:     "null options fail multiple choice",
			options:  `null`,
			quizType: models.QuizTypeMultipleChoice,
			wantErr:  true,
		},
		{
			name:     "non-array options fail multiple choice",
			options:  `"Oxygen"`,
			quizType: models.QuizTypeMultipleChoice,
			wantErr:  true,
		},
		{
			name:        "flashcards ignore options entirely",
			options:     `["unused", "values"]`,
			quizType:    models.QuizTypeFlashcard,
			wantOptions: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := base
			if tt.options != "" {
				raw.Options = json.RawMessage(tt.options)
			}

			q, err := normalizeRawQuestion(raw, tt.quizType, 0)
			if tt.wantErr {
				if !IsKind(err, KindMissingOptions) {
					t.Fatalf("error = %v, expected kind %s", err, KindMissingOptions)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeRawQuestion() error = %v", err)
			}
			if !reflect.DeepEqual(q.Options, tt.wantOptions) {
				t.Errorf("Options = %v, expected %v", q.Options, tt.wantOptions)
			}
		})
	}
}

func TestNormalizeDifficulty(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"EASY", models.DifficultyEasy},
		{"easy", models.DifficultyEasy},
		{" Hard ", models.DifficultyHard},
		{"MEDIUM", models.DifficultyMedium},
		{"", models.DifficultyMedium},
		{"impossible", models.DifficultyMedium},
		{"MIXED", models.DifficultyMedium},
	}

	for _, tt := range tests {
		t.Run("input "+tt.input, func(t *testing.T) {
			if got := normalizeDifficulty(tt.input); got != tt.want {
				t.Errorf("normalizeDifficulty(%q) = %q, expected %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeQuestionRejectsNonObjectElement(t *testing.T) {
	_, err := normalizeQuestion(json.RawMessage(`"just a string"`), models.QuizTypeFlashcard, 2)
	if !IsKind(err, KindMissingField) {
		t.Errorf("error = %v, expected kind %s", err, KindMissingField)
	}
}
