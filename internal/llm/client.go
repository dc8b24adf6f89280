// Package llm provides a provider-agnostic interface for querying large
// language models. Each supported platform (Anthropic, OpenAI, Gemini,
// Perplexity) implements the same one-method Client interface, so the rest of
// the service never sees provider-specific wire formats.
package llm

import (
	"context"
	"errors"

	"github.com/brandpulse/citation-service/internal/model"
)

// Sentinel errors classifying provider failures. Clients wrap these with %w
// so callers can classify with errors.Is while logs keep the full detail.
var (
	// ErrNotConfigured means the provider credential is absent. It is
	// detected before any network call is attempted.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrUnavailable means the provider endpoint could not be reached,
	// timed out, or returned a non-success status.
	ErrUnavailable = errors.New("provider unavailable")

	// ErrMalformedResponse means the provider returned a success status but
	// the body could not be parsed into plain text.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// Client is the interface every platform implements.
//
// Go interface design tip: keep interfaces small. One method that does the
// work is ideal — the bigger the interface, the harder it is to implement
// and mock. Go proverb: "The bigger the interface, the weaker the abstraction."
type Client interface {
	// Complete sends prompt to the platform's generation endpoint using the
	// given model and returns the generated text.
	Complete(ctx context.Context, model string, prompt string) (string, error)

	// Platform identifies which provider this client talks to.
	Platform() model.Platform
}
