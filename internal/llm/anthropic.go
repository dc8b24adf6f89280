package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/brandpulse/citation-service/internal/model"
)

// AnthropicClient implements Client using the official Anthropic SDK.
type AnthropicClient struct {
	client *anthropic.Client
	apiKey string
}

// NewAnthropicClient creates a Claude-backed client. An empty apiKey is
// allowed at construction — the credential check happens per call, so an
// unconfigured platform degrades to a per-invocation error instead of a
// startup crash.
func NewAnthropicClient(apiKey string) *AnthropicClient {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &AnthropicClient{
		client: &client,
		apiKey: apiKey,
	}
}

func (a *AnthropicClient) Platform() model.Platform { return model.PlatformAnthropic }

// Complete sends a single-turn message and concatenates the text blocks of
// the reply. Unlike chat use cases there's no conversation to carry — one
// prompt in, one analytical answer out.
func (a *AnthropicClient) Complete(ctx context.Context, mdl string, prompt string) (string, error) {
	if a.apiKey == "" {
		return "", fmt.Errorf("anthropic: %w (missing API key)", ErrNotConfigured)
	}

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(mdl),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: %w: %v", ErrUnavailable, err)
	}

	// The reply is a list of content blocks; only text blocks matter here.
	var sb strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}

	out := sb.String()
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("anthropic: %w: reply contained no text blocks", ErrMalformedResponse)
	}
	return out, nil
}
