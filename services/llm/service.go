package llm

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Generator is the single-call LLM boundary: one prompt in, raw response text
// out. Failures surface as *Error with an auth/rate-limit/provider kind.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// requestTimeout bounds the one unavoidable suspension point, the provider
// network call. Nothing in this package retries: malformed JSON is not
// transient, and transport retry policy belongs to the caller.
const requestTimeout = 120 * time.Second

type Service struct {
	generator Generator
}

func NewService(provider, anthropicAPIKey, openaiAPIKey string) (*Service, error) {
	switch provider {
	case "anthropic", "":
		return &Service{generator: newAnthropicGenerator(anthropicAPIKey)}, nil
	case "openai":
		gen, err := newOpenAIGenerator(openaiAPIKey)
		if err != nil {
			return nil, err
		}
		return &Service{generator: gen}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", provider)
	}
}

// NewServiceWithGenerator wires an explicit generator; tests use this to avoid
// real provider calls.
func NewServiceWithGenerator(generator Generator) *Service {
	return &Service{generator: generator}
}

// GenerateQuestions builds the prompt, performs a single provider call, and
// parses the response into validated questions. Safe for concurrent use; the
// pipeline holds no shared state.
func (s *Service) GenerateQuestions(ctx context.Context, content string, questionCount int, difficulty, quizType string, topicFocus *string) ([]QuizQuestion, error) {
	prompt := BuildPrompt(content, questionCount, difficulty, quizType, topicFocus)
	log.Printf("[INFO] Calling LLM for quiz generation (%d %s questions, prompt length: %d chars)",
		questionCount, quizType, len(prompt))

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[ERROR] LLM call failed: %v", err)
		return nil, err
	}

	log.Printf("[INFO] LLM response received (first 500 chars): %.500s", raw)

	questions, err := ParseQuestions(raw, quizType)
	if err != nil {
		log.Printf("[ERROR] Failed to parse questions from response: %v", err)
		return nil, err
	}

	log.Printf("[INFO] Successfully generated %d questions", len(questions))
	return questions, nil
}
