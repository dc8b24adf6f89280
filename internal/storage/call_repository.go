package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/brandpulse/citation-service/internal/model"
)

// ErrNotFound is returned when a requested record doesn't exist.
// Go uses sentinel errors (predefined error values) instead of exception types.
// Callers check with errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("record not found")

// PlatformStats summarizes reliability for one platform.
type PlatformStats struct {
	Platform   model.Platform `db:"platform" json:"platform"`
	Calls      int64          `db:"calls" json:"calls"`
	Successful int64          `db:"successful" json:"successful"`
}

// CallRepository defines the interface for provider-call audit persistence.
// Go interfaces are implicit — any struct that has these methods satisfies it,
// which is what makes the aggregator testable without a real database.
type CallRepository interface {
	Create(ctx context.Context, call *model.ProviderCall) error
	ListByRun(ctx context.Context, runID string) ([]model.ProviderCall, error)
	ListRecent(ctx context.Context, limit int) ([]model.ProviderCall, error)
	Count(ctx context.Context) (int64, error)
	CountSuccessful(ctx context.Context) (int64, error)
	StatsByPlatform(ctx context.Context) ([]PlatformStats, error)
}

// sqliteCallRepository is the SQLite implementation of CallRepository.
// The struct is unexported — only the interface is public. This is a common
// Go pattern: export the interface, hide the implementation.
type sqliteCallRepository struct {
	db *sqlx.DB
}

// NewCallRepository creates a new SQLite-backed CallRepository.
func NewCallRepository(db *sqlx.DB) CallRepository {
	return &sqliteCallRepository{db: db}
}

func (r *sqliteCallRepository) Create(ctx context.Context, call *model.ProviderCall) error {
	// NamedExecContext uses the struct's `db:` tags to map fields to :named placeholders.
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO provider_calls (run_id, query, platform, model, success, error_message, mention_count, sentiment, confidence, duration_ms)
		VALUES (:run_id, :query, :platform, :model, :success, :error_message, :mention_count, :sentiment, :confidence, :duration_ms)
	`, call)
	if err != nil {
		return fmt.Errorf("creating provider call record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	call.ID = id
	return nil
}

func (r *sqliteCallRepository) ListByRun(ctx context.Context, runID string) ([]model.ProviderCall, error) {
	var calls []model.ProviderCall
	err := r.db.SelectContext(ctx, &calls,
		"SELECT * FROM provider_calls WHERE run_id = ? ORDER BY id ASC", runID)
	if err != nil {
		return nil, fmt.Errorf("listing calls for run %s: %w", runID, err)
	}
	return calls, nil
}

func (r *sqliteCallRepository) ListRecent(ctx context.Context, limit int) ([]model.ProviderCall, error) {
	var calls []model.ProviderCall
	err := r.db.SelectContext(ctx, &calls,
		"SELECT * FROM provider_calls ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent calls: %w", err)
	}
	return calls, nil
}

func (r *sqliteCallRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM provider_calls")
	return count, err
}

func (r *sqliteCallRepository) CountSuccessful(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM provider_calls WHERE success = 1")
	return count, err
}

func (r *sqliteCallRepository) StatsByPlatform(ctx context.Context) ([]PlatformStats, error) {
	var stats []PlatformStats
	err := r.db.SelectContext(ctx, &stats, `
		SELECT platform,
		       COUNT(*) AS calls,
		       SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END) AS successful
		FROM provider_calls
		GROUP BY platform
		ORDER BY platform
	`)
	if err != nil {
		return nil, fmt.Errorf("aggregating platform stats: %w", err)
	}
	return stats, nil
}
