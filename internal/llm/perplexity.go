package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/brandpulse/citation-service/internal/model"
)

const defaultPerplexityBaseURL = "https://api.perplexity.ai"

// PerplexityClient implements Client against Perplexity's OpenAI-compatible
// chat/completions endpoint. Same hand-rolled HTTP approach as GeminiClient —
// the wire format is simple enough that an SDK would be more code, not less.
type PerplexityClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewPerplexityClient creates a Perplexity-backed client.
func NewPerplexityClient(apiKey string) *PerplexityClient {
	return &PerplexityClient{
		apiKey:     apiKey,
		baseURL:    defaultPerplexityBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *PerplexityClient) Platform() model.Platform { return model.PlatformPerplexity }

type perplexityMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type perplexityRequest struct {
	Model    string              `json:"model"`
	Messages []perplexityMessage `json:"messages"`
}

type perplexityResponse struct {
	Choices []struct {
		Message perplexityMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends a single-turn chat completion with bearer auth.
func (p *PerplexityClient) Complete(ctx context.Context, mdl string, prompt string) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("perplexity: %w (missing API key)", ErrNotConfigured)
	}

	body, err := json.Marshal(perplexityRequest{
		Model: mdl,
		Messages: []perplexityMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("perplexity: marshaling request: %w", err)
	}

	url := p.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("perplexity: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("perplexity: %w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("perplexity: %w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed perplexityResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("perplexity: %w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("perplexity: %w: no choices in reply", ErrMalformedResponse)
	}

	content := parsed.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("perplexity: %w: empty message content", ErrMalformedResponse)
	}
	return content, nil
}
