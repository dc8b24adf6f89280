// Package model defines the core data types for the citation service.
// In Go, we use structs instead of classes. Struct tags (the `json:"..."` and
// `db:"..."` annotations) tell serialization libraries how to map fields.
package model

import "time"

// Platform identifies an AI provider we query for citations.
// Go doesn't have enums — we use typed string constants instead. Using a
// distinct type (not plain string) means the compiler catches accidental
// mix-ups between platform names and other strings.
type Platform string

const (
	PlatformAnthropic  Platform = "anthropic"
	PlatformOpenAI     Platform = "openai"
	PlatformGemini     Platform = "gemini"
	PlatformPerplexity Platform = "perplexity"
)

// AllPlatforms is the canonical platform ordering. The catalog registers
// platforms in this order, and aggregated results come back in this order.
var AllPlatforms = []Platform{
	PlatformAnthropic,
	PlatformOpenAI,
	PlatformGemini,
	PlatformPerplexity,
}

// ValidPlatform checks whether a string names a known platform.
func ValidPlatform(s string) bool {
	for _, p := range AllPlatforms {
		if p == Platform(s) {
			return true
		}
	}
	return false
}

// Query is one logical citation question: free text plus the brand keywords
// the tenant is tracking. Keywords may be empty and may contain duplicates —
// duplicates are ignored at match time, not rejected at input time.
// A Query is never mutated after submission.
type Query struct {
	Text     string   `json:"text"`
	Keywords []string `json:"keywords"`
}

// Sentiment labels derived from the continuous score at presentation time.
// Internally sentiment is always a float in [-1, 1]; the label is a view.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Sentiment thresholds for deriving a categorical label from the score.
const (
	positiveThreshold = 0.15
	negativeThreshold = -0.15
)

// SentimentLabel converts a continuous sentiment score into a category.
func SentimentLabel(score float64) string {
	switch {
	case score > positiveThreshold:
		return SentimentPositive
	case score < negativeThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// CitationResult is the canonical output of one provider invocation.
// It is immutable once constructed: created by an adapter, consumed by the
// aggregator, then returned or discarded. There is no update path.
type CitationResult struct {
	Platform   Platform  `json:"platform"`
	Model      string    `json:"model"`
	Query      string    `json:"query"`
	Response   string    `json:"response"`
	Mentions   []string  `json:"mentions"`
	Sentiment  float64   `json:"sentiment"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// AggregatedResult is the filtered output of one fan-out run: only results
// with at least one mention survive, ordered by catalog registration order.
// Failed providers are simply absent — an empty Results slice is a valid
// outcome, not an error.
type AggregatedResult struct {
	RunID   string           `json:"run_id"`
	Results []CitationResult `json:"results"`
}

// ProviderCall is the audit record for a single provider invocation,
// persisted for cost and reliability monitoring. Each field has two tags:
//   - `db:"column_name"` — used by sqlx to scan database rows
//   - `json:"field_name"` — used for JSON serialization (API responses)
type ProviderCall struct {
	ID           int64     `db:"id" json:"id"`
	RunID        string    `db:"run_id" json:"run_id"`
	Query        string    `db:"query" json:"query"`
	Platform     Platform  `db:"platform" json:"platform"`
	Model        string    `db:"model" json:"model"`
	Success      bool      `db:"success" json:"success"`
	ErrorMessage *string   `db:"error_message" json:"error_message,omitempty"`
	MentionCount int       `db:"mention_count" json:"mention_count"`
	Sentiment    *float64  `db:"sentiment" json:"sentiment,omitempty"`
	Confidence   *float64  `db:"confidence" json:"confidence,omitempty"`
	DurationMs   *int64    `db:"duration_ms" json:"duration_ms,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
