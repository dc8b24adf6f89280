// Package service contains the core business logic: fanning one query out to
// every registered platform, collecting whatever survives, and filtering it.
//
// The fan-out is the only concurrency-sensitive part of the whole service.
// Every invocation is independent: adapters share nothing but the read-only
// catalog, one provider's failure never cancels its siblings, and the caller
// gets results back in catalog order regardless of completion order.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/brandpulse/citation-service/internal/catalog"
	"github.com/brandpulse/citation-service/internal/model"
	"github.com/brandpulse/citation-service/internal/provider"
	"github.com/brandpulse/citation-service/internal/storage"
)

// ErrEmptyQuery is returned when a caller submits a query with no text.
var ErrEmptyQuery = errors.New("query text is empty")

// DefaultTimeout bounds each provider invocation. The upstream behavior left
// this unspecified; 30 seconds is deliberate — long enough for a slow
// generation, short enough that one dead provider doesn't stall a batch.
const DefaultTimeout = 30 * time.Second

// CitationService executes queries against every platform in the catalog.
type CitationService struct {
	registry   *catalog.Registry
	adapters   []*provider.Adapter // catalog order
	byPlatform map[model.Platform]*provider.Adapter
	limiters   map[model.Platform]*rate.Limiter
	calls      storage.CallRepository   // nil disables auditing
	archive    *storage.ResponseArchive // nil disables raw-response archiving
	timeout    time.Duration
	logger     *zap.Logger
}

// NewCitationService wires the aggregator up from the catalog. calls and
// archive may be nil — the core works without persistence; auditing is a
// collaborator, not a requirement. ratePerMinute <= 0 disables outbound
// rate limiting (useful in tests).
func NewCitationService(
	registry *catalog.Registry,
	calls storage.CallRepository,
	archive *storage.ResponseArchive,
	timeout time.Duration,
	ratePerMinute int,
	logger *zap.Logger,
) *CitationService {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	s := &CitationService{
		registry:   registry,
		byPlatform: make(map[model.Platform]*provider.Adapter),
		limiters:   make(map[model.Platform]*rate.Limiter),
		calls:      calls,
		archive:    archive,
		timeout:    timeout,
		logger:     logger,
	}

	for _, p := range registry.Platforms() {
		// The registry guarantees a client per registered platform.
		client, err := registry.Client(p)
		if err != nil {
			continue
		}
		ad := provider.New(client, registry)
		s.adapters = append(s.adapters, ad)
		s.byPlatform[p] = ad

		if ratePerMinute > 0 {
			// Each platform gets its own token bucket so one chatty tenant
			// can't starve a platform through a sibling's budget.
			rps := rate.Every(time.Minute / time.Duration(ratePerMinute))
			s.limiters[p] = rate.NewLimiter(rps, 1)
		}
	}

	return s
}

// QueryAllPlatforms is the sole entry point the rest of the application calls
// into this core. It dispatches query to every platform in parallel, waits
// for all of them to reach a terminal state, and returns only the results
// whose mentions are non-empty, in catalog order.
//
// Per-provider failures are logged and dropped here — the caller never sees
// them. An empty Results slice is a valid outcome; logs distinguish "all
// providers failed" from "genuinely no mentions".
func (s *CitationService) QueryAllPlatforms(ctx context.Context, query model.Query) (*model.AggregatedResult, error) {
	if query.Text == "" {
		return nil, ErrEmptyQuery
	}

	runID := uuid.NewString()

	// One slot per adapter, written only by that adapter's goroutine —
	// no mutex needed because no two goroutines touch the same index.
	outcomes := make([]*model.CitationResult, len(s.adapters))

	var wg sync.WaitGroup
	for i, ad := range s.adapters {
		wg.Add(1)
		go func(i int, ad *provider.Adapter) {
			defer wg.Done()
			outcomes[i] = s.invoke(ctx, runID, ad, query)
		}(i, ad)
	}

	// Join barrier: wait for every invocation, not a race to first.
	wg.Wait()

	agg := &model.AggregatedResult{RunID: runID, Results: []model.CitationResult{}}
	var failed, unmatched int
	for _, res := range outcomes {
		switch {
		case res == nil:
			failed++
		case len(res.Mentions) == 0:
			unmatched++
		default:
			agg.Results = append(agg.Results, *res)
		}
	}

	// This log line is what makes an empty result set diagnosable: total
	// failure and "no citations found" look identical to the caller.
	s.logger.Info("citation run complete",
		zap.String("run_id", runID),
		zap.Int("platforms", len(s.adapters)),
		zap.Int("cited", len(agg.Results)),
		zap.Int("unmatched", unmatched),
		zap.Int("failed", failed),
	)

	return agg, nil
}

// QueryPlatform executes the query against a single platform, optionally
// overriding the catalog's default model. Unlike QueryAllPlatforms, errors
// are surfaced — a single-platform caller asked for that platform explicitly.
func (s *CitationService) QueryPlatform(ctx context.Context, p model.Platform, query model.Query, modelOverride string) (*model.CitationResult, error) {
	if query.Text == "" {
		return nil, ErrEmptyQuery
	}

	// Adapters are built once in the constructor; a miss here means the
	// platform was never registered.
	ad, ok := s.byPlatform[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownPlatform, p)
	}

	runID := uuid.NewString()
	if lim := s.limiters[p]; lim != nil {
		if err := lim.Wait(ctx); err != nil {
			return nil, err
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	res, err := ad.Execute(callCtx, query, modelOverride)
	s.record(runID, query, p, res, err, time.Since(start).Milliseconds())
	if err != nil {
		return nil, err
	}

	s.archiveResponse(runID, res)
	return res, nil
}

// invoke runs one adapter to a terminal state and returns nil on failure.
// This is where the typed per-invocation error is converted into "omit from
// output" — the error itself still reaches logs and the audit trail.
func (s *CitationService) invoke(ctx context.Context, runID string, ad *provider.Adapter, query model.Query) *model.CitationResult {
	p := ad.Platform()

	if lim := s.limiters[p]; lim != nil {
		// Blocks until a token is available or the request context dies.
		if err := lim.Wait(ctx); err != nil {
			s.logger.Warn("rate limit wait aborted",
				zap.String("run_id", runID),
				zap.String("platform", string(p)),
				zap.Error(err),
			)
			s.record(runID, query, p, nil, err, 0)
			return nil
		}
	}

	// Independent per-invocation deadline: expiry fails this platform only.
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	res, err := ad.Execute(callCtx, query, "")
	duration := time.Since(start).Milliseconds()

	s.record(runID, query, p, res, err, duration)

	if err != nil {
		s.logger.Warn("provider invocation failed",
			zap.String("run_id", runID),
			zap.String("platform", string(p)),
			zap.Int64("duration_ms", duration),
			zap.Error(err),
		)
		return nil
	}

	s.archiveResponse(runID, res)

	if len(res.Mentions) == 0 {
		s.logger.Debug("provider returned no mentions",
			zap.String("run_id", runID),
			zap.String("platform", string(p)),
		)
	}

	return res
}

// record writes the audit row for one invocation. Auditing must never fail
// a run — repo errors are logged and swallowed.
func (s *CitationService) record(runID string, query model.Query, p model.Platform, res *model.CitationResult, callErr error, durationMs int64) {
	if s.calls == nil {
		return
	}

	call := &model.ProviderCall{
		RunID:    runID,
		Query:    query.Text,
		Platform: p,
		Success:  callErr == nil,
	}
	call.DurationMs = &durationMs

	if res != nil {
		call.Model = res.Model
		call.MentionCount = len(res.Mentions)
		sentiment, confidence := res.Sentiment, res.Confidence
		call.Sentiment = &sentiment
		call.Confidence = &confidence
	} else if mdl, err := s.registry.DefaultModel(p); err == nil {
		call.Model = mdl
	}
	if callErr != nil {
		msg := callErr.Error()
		call.ErrorMessage = &msg
	}

	// Audit writes use a background context: the run's context may already
	// be cancelled by the time a failed invocation is recorded.
	if err := s.calls.Create(context.Background(), call); err != nil {
		s.logger.Error("recording provider call", zap.Error(err))
	}
}

func (s *CitationService) archiveResponse(runID string, res *model.CitationResult) {
	if s.archive == nil || res == nil {
		return
	}
	if err := s.archive.Write(runID, res.Platform, res.Response); err != nil {
		s.logger.Error("archiving raw response",
			zap.String("run_id", runID),
			zap.String("platform", string(res.Platform)),
			zap.Error(err),
		)
	}
}
