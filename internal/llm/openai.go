package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/brandpulse/citation-service/internal/model"
)

// OpenAIClient implements Client using the go-openai SDK.
type OpenAIClient struct {
	client *openai.Client
	apiKey string
}

// NewOpenAIClient creates a GPT-backed client.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		apiKey: apiKey,
	}
}

func (o *OpenAIClient) Platform() model.Platform { return model.PlatformOpenAI }

// Complete sends a single-turn chat completion and returns the first choice.
func (o *OpenAIClient) Complete(ctx context.Context, mdl string, prompt string) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("openai: %w (missing API key)", ErrNotConfigured)
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: mdl,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w: %v", ErrUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: %w: no choices in reply", ErrMalformedResponse)
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("openai: %w: empty message content", ErrMalformedResponse)
	}
	return content, nil
}
