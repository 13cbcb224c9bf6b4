package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

type openaiGenerator struct {
	llm llms.Model
}

func newOpenAIGenerator(apiKey string) (*openaiGenerator, error) {
	model, err := openai.New(
		openai.WithModel("gpt-4o-mini"),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return &openaiGenerator{llm: model}, nil
}

func (g *openaiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	completion, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(0.7))
	if err != nil {
		return "", mapOpenAIError(err)
	}
	return completion, nil
}

// langchaingo surfaces provider failures as opaque errors, so classification
// falls back to message matching.
func mapOpenAIError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "incorrect api key") || strings.Contains(msg, "invalid api key"):
		return wrapError(KindAuthFailure,
			"invalid or missing OpenAI API key; configure OPENAI_API_KEY", err)
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return wrapError(KindRateLimited, "API rate limit exceeded, please try again later", err)
	}
	return wrapError(KindProviderError, fmt.Sprintf("failed to generate questions: %v", err), err)
}
