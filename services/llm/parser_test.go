package llm

import (
	"errors"
	"testing"

	"studyquiz/models"
)

const validQuestionJSON = `{
	"question": "What organelle produces ATP?",
	"correctAnswer": "Mitochondria",
	"options": ["Mitochondria", "Nucleus", "Ribosome", "Golgi apparatus"],
	"explanation": "The mitochondria performs cellular respiration, producing ATP.",
	"sourceReference": "Section 2.1",
	"difficulty": "EASY"
}`

func TestParseQuestionsCleanResponses(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{
			name: "bare JSON array",
			raw:  "[" + validQuestionJSON + "]",
			want: 1,
		},
		{
			name: "fenced json block",
			raw:  "```json\n[" + validQuestionJSON + "]\n```",
			want: 1,
		},
		{
			name: "fenced block without language tag",
			raw:  "```\n[" + validQuestionJSON + "]\n```",
			want: 1,
		},
		{
			name: "prose before and after the array",
			raw:  "Here are your questions:\n[" + validQuestionJSON + "]\nHope that helps!",
			want: 1,
		},
		{
			name: "leading BOM and whitespace",
			raw:  "\uFEFF  \n[" + validQuestionJSON + "]",
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions, err := ParseQuestions(tt.raw, models.QuizTypeMultipleChoice)
			if err != nil {
				t.Fatalf("ParseQuestions() error = %v", err)
			}
			if len(questions) != tt.want {
				t.Fatalf("got %d questions, expected %d", len(questions), tt.want)
			}
			if questions[0].CorrectAnswer != "Mitochondria" {
				t.Errorf("CorrectAnswer = %q, expected %q", questions[0].CorrectAnswer, "Mitochondria")
			}
			if len(questions[0].Options) != 4 {
				t.Errorf("got %d options, expected 4", len(questions[0].Options))
			}
		})
	}
}

func TestParseQuestionsNoJSONFound(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "prose only", raw: "I'm sorry, I cannot generate questions from this content."},
		{name: "empty response", raw: ""},
		{name: "whitespace only", raw: "   \n\t  "},
		{name: "object without any array", raw: `{"error": "overloaded"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuestions(tt.raw, models.QuizTypeFlashcard)
			if !IsKind(err, KindNoJSONFound) {
				t.Errorf("ParseQuestions() error = %v, expected kind %s", err, KindNoJSONFound)
			}
		})
	}
}

func TestParseQuestionsRepairsTrailingCommas(t *testing.T) {
	raw := `[
		{
			"question": "Define osmosis.",
			"correctAnswer": "Movement of water across a membrane",
			"explanation": "Osmosis is passive water transport.",
			"difficulty": "MEDIUM",
		},
	]`

	questions, err := ParseQuestions(raw, models.QuizTypeFlashcard)
	if err != nil {
		t.Fatalf("ParseQuestions() error = %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, expected 1", len(questions))
	}
}

func TestParseQuestionsRepairsControlChars(t *testing.T) {
	raw := "[{\"question\": \"What is DNA?\n(full name)\", \"correctAnswer\": \"Deoxyribonucleic acid\", \"explanation\": \"DNA\tstores genetic information.\"}]"

	questions, err := ParseQuestions(raw, models.QuizTypeFlashcard)
	if err != nil {
		t.Fatalf("ParseQuestions() error = %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, expected 1", len(questions))
	}
	if questions[0].Question != "What is DNA?\n(full name)" {
		t.Errorf("Question = %q, newline not preserved through repair", questions[0].Question)
	}
}

func TestParseQuestionsRepairsInteriorQuotes(t *testing.T) {
	raw := `[{"question": "Who coined the term "cell"?", "correctAnswer": "Robert Hooke", "explanation": "Hooke named them after monastery cells."}]`

	questions, err := ParseQuestions(raw, models.QuizTypeFlashcard)
	if err != nil {
		t.Fatalf("ParseQuestions() error = %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, expected 1", len(questions))
	}
	if questions[0].Question != `Who coined the term "cell"?` {
		t.Errorf("Question = %q, interior quotes not recovered", questions[0].Question)
	}
}

func TestParseQuestionsSalvagesTruncatedResponse(t *testing.T) {
	// Truncated mid-array: the second object never closes, the array never
	// closes. The first object is still recoverable.
	raw := `[
		{"question": "What is diffusion?", "correctAnswer": "Passive movement down a gradient", "explanation": "No energy input is needed."},
		{"question": "incomplete`

	questions, err := ParseQuestions(raw, models.QuizTypeFlashcard)
	if err != nil {
		t.Fatalf("ParseQuestions() error = %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, expected 1 salvaged", len(questions))
	}
	if questions[0].Question != "What is diffusion?" {
		t.Errorf("Question = %q, expected the complete object to survive", questions[0].Question)
	}
}

func TestParseQuestionsSalvageDropsInvalidObjects(t *testing.T) {
	raw := `[
		{"question": "Keep me?", "correctAnswer": "Yes", "explanation": "All fields present."},
		{"question": "Drop me", "correctAnswer": ""},
		{"question": "broken": "explanation"},
	` // unclosed array forces the salvage path

	questions, err := ParseQuestions(raw, models.QuizTypeFlashcard)
	if err != nil {
		t.Fatalf("ParseQuestions() error = %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, expected 1", len(questions))
	}
	if questions[0].Question != "Keep me?" {
		t.Errorf("Question = %q, expected the valid object to survive", questions[0].Question)
	}
}

func TestParseQuestionsUnparseableWhenNothingSalvageable(t *testing.T) {
	raw := `[{{{"not even close`

	_, err := ParseQuestions(raw, models.QuizTypeFlashcard)
	if !IsKind(err, KindUnparseableResponse) {
		t.Errorf("ParseQuestions() error = %v, expected kind %s", err, KindUnparseableResponse)
	}
}

func TestParseQuestionsEmptyArray(t *testing.T) {
	_, err := ParseQuestions("[]", models.QuizTypeFlashcard)
	if !IsKind(err, KindNoQuestionsGenerated) {
		t.Errorf("ParseQuestions() error = %v, expected kind %s", err, KindNoQuestionsGenerated)
	}
}

func TestParseQuestionsMissingFieldFailsBatch(t *testing.T) {
	raw := `[
		` + validQuestionJSON + `,
		{"question": "No answer here", "explanation": "Missing the correct answer."}
	]`

	_, err := ParseQuestions(raw, models.QuizTypeMultipleChoice)
	if !IsKind(err, KindMissingField) {
		t.Fatalf("ParseQuestions() error = %v, expected kind %s", err, KindMissingField)
	}

	var genErr *Error
	if !errors.As(err, &genErr) {
		t.Fatal("error is not a *Error")
	}
	if genErr.Field != "correctAnswer" {
		t.Errorf("Field = %q, expected %q", genErr.Field, "correctAnswer")
	}
	if genErr.Index != 1 {
		t.Errorf("Index = %d, expected 1", genErr.Index)
	}
}

func TestParseArrayNotAnArray(t *testing.T) {
	_, err := parseArray(`{"questions": []}`)
	if !IsKind(err, KindNotAnArray) {
		t.Errorf("parseArray() error = %v, expected kind %s", err, KindNotAnArray)
	}

	_, err = parseArray(`"just a string"`)
	if !IsKind(err, KindNotAnArray) {
		t.Errorf("parseArray() error = %v, expected kind %s", err, KindNotAnArray)
	}
}

func TestExtractObjects(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "two top-level objects",
			text: `[{"a": 1}, {"b": 2}]`,
			want: 2,
		},
		{
			name: "nested objects count once",
			text: `[{"a": {"nested": true}}]`,
			want: 1,
		},
		{
			name: "braces inside strings are ignored",
			text: `[{"a": "not a } brace"}, {"b": 2}]`,
			want: 2,
		},
		{
			name: "escaped quotes do not break the scan",
			text: `[{"a": "say \"hi\" {now}"}]`,
			want: 1,
		},
		{
			name: "unclosed trailing object is dropped",
			text: `[{"a": 1}, {"b": `,
			want: 1,
		},
		{
			name: "no objects",
			text: `[1, 2, 3]`,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects := extractObjects(tt.text)
			if len(objects) != tt.want {
				t.Errorf("extractObjects() found %d objects, expected %d: %v", len(objects), tt.want, objects)
			}
		})
	}
}

func BenchmarkParseQuestionsClean(b *testing.B) {
	raw := "[" + validQuestionJSON + "," + validQuestionJSON + "," + validQuestionJSON + "]"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseQuestions(raw, models.QuizTypeMultipleChoice); err != nil {
			b.Fatal(err)
		}
	}
}
