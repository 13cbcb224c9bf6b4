package llm

import (
	"context"
	"strings"
	"testing"

	"studyquiz/models"
)

type fakeGenerator struct {
	response string
	err      error
	prompt   string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func TestNewServiceProviderSelection(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		wantErr  bool
	}{
		{name: "anthropic", provider: "anthropic"},
		{name: "empty defaults to anthropic", provider: ""},
		{name: "openai", provider: "openai"},
		{name: "unknown provider", provider: "cohere", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(tt.provider, "anthropic-key", "openai-key")
			if (err != nil) != tt.wantErr {
				t.Errorf("NewService(%q) error = %v, wantErr %v", tt.provider, err, tt.wantErr)
			}
		})
	}
}

func TestGenerateQuestionsEndToEnd(t *testing.T) {
	gen := &fakeGenerator{
		response: `[{"question": "What is mitosis?", "correctAnswer": "Cell division producing identical cells", "explanation": "Mitosis splits one cell into two identical daughters.", "difficulty": "EASY"}]`,
	}
	service := NewServiceWithGenerator(gen)

	focus := "cell division"
	questions, err := service.GenerateQuestions(context.Background(), "Mitosis is...", 5, models.DifficultyEasy, models.QuizTypeFlashcard, &focus)
	if err != nil {
		t.Fatalf("GenerateQuestions() error = %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, expected 1", len(questions))
	}
	if !strings.Contains(gen.prompt, "Focus specifically on: cell division") {
		t.Error("generator did not receive the topic focus in the prompt")
	}
}

func TestGenerateQuestionsPropagatesProviderError(t *testing.T) {
	gen := &fakeGenerator{err: newError(KindRateLimited, "rate limited")}
	service := NewServiceWithGenerator(gen)

	_, err := service.GenerateQuestions(context.Background(), "content", 5, models.DifficultyMedium, models.QuizTypeFlashcard, nil)
	if !IsKind(err, KindRateLimited) {
		t.Errorf("error = %v, expected kind %s", err, KindRateLimited)
	}
}

func TestGenerateQuestionsPropagatesParseError(t *testing.T) {
	gen := &fakeGenerator{response: "I cannot help with that."}
	service := NewServiceWithGenerator(gen)

	_, err := service.GenerateQuestions(context.Background(), "content", 5, models.DifficultyMedium, models.QuizTypeFlashcard, nil)
	if !IsKind(err, KindNoJSONFound) {
		t.Errorf("error = %v, expected kind %s", err, KindNoJSONFound)
	}
}
