package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/brandpulse/citation-service/internal/model"
)

// setupTestDB creates a temporary SQLite database for testing.
// t.TempDir() is cleaned up automatically after the test — no manual teardown.
func setupTestDB(t *testing.T) CallRepository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDatabase(dbPath)
	if err != nil {
		t.Fatalf("creating test database: %v", err)
	}

	// t.Cleanup registers a function to run when the test finishes.
	t.Cleanup(func() {
		db.Close()
	})

	return NewCallRepository(db)
}

func sampleCall(runID string, platform model.Platform, success bool) *model.ProviderCall {
	sentiment := 0.42
	confidence := 0.9
	duration := int64(1500)

	call := &model.ProviderCall{
		RunID:        runID,
		Query:        "Is Acme Corp a market leader?",
		Platform:     platform,
		Model:        "test-model",
		Success:      success,
		MentionCount: 2,
		DurationMs:   &duration,
	}
	if success {
		call.Sentiment = &sentiment
		call.Confidence = &confidence
	} else {
		msg := "provider unavailable: HTTP 503"
		call.ErrorMessage = &msg
	}
	return call
}

func TestCallRepository_CreateAndListByRun(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	call := sampleCall("run-1", model.PlatformAnthropic, true)
	if err := repo.Create(ctx, call); err != nil {
		t.Fatalf("creating call: %v", err)
	}
	if call.ID == 0 {
		t.Error("expected call ID to be set after create")
	}

	if err := repo.Create(ctx, sampleCall("run-1", model.PlatformOpenAI, false)); err != nil {
		t.Fatalf("creating second call: %v", err)
	}
	if err := repo.Create(ctx, sampleCall("run-2", model.PlatformOpenAI, true)); err != nil {
		t.Fatalf("creating call in other run: %v", err)
	}

	calls, err := repo.ListByRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("listing calls: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls for run-1, got %d", len(calls))
	}

	got := calls[0]
	if got.Platform != model.PlatformAnthropic {
		t.Errorf("expected anthropic first, got %s", got.Platform)
	}
	if got.MentionCount != 2 {
		t.Errorf("expected mention count 2, got %d", got.MentionCount)
	}
	if got.Sentiment == nil || *got.Sentiment != 0.42 {
		t.Errorf("sentiment not round-tripped: %v", got.Sentiment)
	}
	if got.DurationMs == nil || *got.DurationMs != 1500 {
		t.Errorf("duration not round-tripped: %v", got.DurationMs)
	}

	failed := calls[1]
	if failed.Success {
		t.Error("expected second call to be a failure")
	}
	if failed.ErrorMessage == nil || *failed.ErrorMessage == "" {
		t.Error("expected error message on failed call")
	}
}

func TestCallRepository_ListRecent(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := repo.Create(ctx, sampleCall("run-x", model.PlatformGemini, true)); err != nil {
			t.Fatalf("creating call %d: %v", i, err)
		}
	}

	calls, err := repo.ListRecent(ctx, 3)
	if err != nil {
		t.Fatalf("listing recent: %v", err)
	}
	if len(calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(calls))
	}
	// Newest first
	if calls[0].ID < calls[1].ID || calls[1].ID < calls[2].ID {
		t.Errorf("expected descending IDs, got %d, %d, %d", calls[0].ID, calls[1].ID, calls[2].ID)
	}
}

func TestCallRepository_CountsAndStats(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	fixtures := []struct {
		platform model.Platform
		success  bool
	}{
		{model.PlatformAnthropic, true},
		{model.PlatformAnthropic, true},
		{model.PlatformAnthropic, false},
		{model.PlatformOpenAI, true},
	}
	for _, f := range fixtures {
		if err := repo.Create(ctx, sampleCall("run-s", f.platform, f.success)); err != nil {
			t.Fatalf("creating fixture: %v", err)
		}
	}

	total, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 4 {
		t.Errorf("expected 4 calls, got %d", total)
	}

	successful, err := repo.CountSuccessful(ctx)
	if err != nil {
		t.Fatalf("count successful: %v", err)
	}
	if successful != 3 {
		t.Errorf("expected 3 successful calls, got %d", successful)
	}

	stats, err := repo.StatsByPlatform(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected stats for 2 platforms, got %d", len(stats))
	}
	// ORDER BY platform: anthropic before openai
	if stats[0].Platform != model.PlatformAnthropic || stats[0].Calls != 3 || stats[0].Successful != 2 {
		t.Errorf("unexpected anthropic stats: %+v", stats[0])
	}
	if stats[1].Platform != model.PlatformOpenAI || stats[1].Calls != 1 || stats[1].Successful != 1 {
		t.Errorf("unexpected openai stats: %+v", stats[1])
	}
}
