// Package integration holds the adapters that talk to external
// services: the OpenAI completion backend and the Gmail poller.
package integration

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/valter-silva-au/mailtask/internal/core"
)

const (
	extractionSystemMessage = "You are a helpful assistant that extracts actionable tasks from emails. Always respond with valid JSON."
	extractionTemperature   = 0.7
	extractionMaxTokens     = 1000
)

// openAIBackend implements core.CompletionBackend against the OpenAI
// chat completions API.
type openAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend creates a completion backend for the given API key
// and model. Callers should not construct one when no key is
// configured; absence of a backend selects fallback extraction.
func NewOpenAIBackend(apiKey, model string) core.CompletionBackend {
	return &openAIBackend{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (b *openAIBackend) Name() string { return "openai/" + b.model }

func (b *openAIBackend) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.model,
		Temperature: extractionTemperature,
		MaxTokens:   extractionMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionSystemMessage},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("creating chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
