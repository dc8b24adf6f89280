// Package provider turns one platform invocation into one canonical
// CitationResult: resolve the model, call the platform client, run the text
// analyzer over whatever came back. One Adapter instance exists per registered
// platform; the per-platform differences all live behind llm.Client.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brandpulse/citation-service/internal/analyzer"
	"github.com/brandpulse/citation-service/internal/catalog"
	"github.com/brandpulse/citation-service/internal/llm"
	"github.com/brandpulse/citation-service/internal/model"
)

// Adapter executes queries against a single platform.
type Adapter struct {
	client   llm.Client
	registry *catalog.Registry
}

// New creates an adapter for the given client. The registry supplies the
// platform's default model when a call doesn't override it.
func New(client llm.Client, registry *catalog.Registry) *Adapter {
	return &Adapter{
		client:   client,
		registry: registry,
	}
}

// Platform returns the platform this adapter executes against.
func (a *Adapter) Platform() model.Platform {
	return a.client.Platform()
}

// Execute runs one query against the platform and returns the analyzed
// result. modelOverride selects a specific model; empty means the catalog
// default. Failures are terminal for this invocation — retry policy, if any,
// belongs to the caller.
func (a *Adapter) Execute(ctx context.Context, query model.Query, modelOverride string) (*model.CitationResult, error) {
	mdl := modelOverride
	if mdl == "" {
		var err error
		mdl, err = a.registry.DefaultModel(a.client.Platform())
		if err != nil {
			return nil, err
		}
	}

	text, err := a.client.Complete(ctx, mdl, query.Text)
	if err != nil {
		// A deadline expiry is just another flavor of "couldn't reach the
		// provider in time" — fold it into the unavailable classification
		// in case a client surfaced the raw context error.
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, llm.ErrUnavailable) {
			return nil, fmt.Errorf("%s: %w: %v", a.client.Platform(), llm.ErrUnavailable, err)
		}
		return nil, err
	}

	// Timestamp is assigned at response receipt, before analysis.
	received := time.Now()

	return &model.CitationResult{
		Platform:   a.client.Platform(),
		Model:      mdl,
		Query:      query.Text,
		Response:   text,
		Mentions:   analyzer.ExtractMentions(text, query.Keywords),
		Sentiment:  analyzer.ScoreSentiment(text),
		Confidence: analyzer.ScoreConfidence(text, query.Keywords),
		Timestamp:  received,
	}, nil
}
