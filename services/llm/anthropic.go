package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicGenerator struct {
	client *anthropic.Client
}

func newAnthropicGenerator(apiKey string) *anthropicGenerator {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &anthropicGenerator{client: &client}
}

func (g *anthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.ModelClaude4Sonnet20250514,
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", mapAnthropicError(err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(text.Text)
		}
	}
	return b.String(), nil
}

func mapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return wrapError(KindAuthFailure,
				"invalid or missing Anthropic API key; configure ANTHROPIC_API_KEY", err)
		case http.StatusTooManyRequests:
			return wrapError(KindRateLimited, "API rate limit exceeded, please try again later", err)
		}
	}
	return wrapError(KindProviderError, fmt.Sprintf("failed to generate questions: %v", err), err)
}
