package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brandpulse/citation-service/internal/catalog"
	"github.com/brandpulse/citation-service/internal/model"
	"github.com/brandpulse/citation-service/internal/service"
)

// fakeClient returns a canned response (or error) without any network I/O.
type fakeClient struct {
	platform model.Platform
	response string
	err      error
}

func (f *fakeClient) Complete(_ context.Context, _, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeClient) Platform() model.Platform { return f.platform }

func setupTestRouter(t *testing.T, clients ...*fakeClient) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	entries := make([]catalog.Entry, 0, len(clients))
	for _, c := range clients {
		entries = append(entries, catalog.Entry{
			Platform: c.platform,
			Models:   []string{"test-model"},
			Client:   c,
		})
	}
	registry, err := catalog.New(entries...)
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}

	citations := service.NewCitationService(registry, nil, nil, 5*time.Second, 0, zap.NewNop())
	h := NewCitationHandler(citations, registry, zap.NewNop())

	router := gin.New()
	router.POST("/api/v1/citations", h.Query)
	router.GET("/api/v1/platforms", h.Platforms)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCitationHandler_Query(t *testing.T) {
	router := setupTestRouter(t,
		&fakeClient{platform: model.PlatformAnthropic, response: "Acme Corp is an excellent host. Many agree."},
		&fakeClient{platform: model.PlatformOpenAI, response: "There are many hosting providers to consider."},
	)

	w := postJSON(t, router, "/api/v1/citations", map[string]any{
		"query":    "Who is the best cloud host?",
		"keywords": []string{"acme"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		RunID   string `json:"run_id"`
		Results []struct {
			Platform       string   `json:"platform"`
			Mentions       []string `json:"mentions"`
			SentimentLabel string   `json:"sentiment_label"`
		} `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if resp.RunID == "" {
		t.Error("expected a run_id in the response")
	}
	// The openai response never mentions "acme", so only anthropic survives.
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	got := resp.Results[0]
	if got.Platform != string(model.PlatformAnthropic) {
		t.Errorf("expected anthropic result, got %s", got.Platform)
	}
	if len(got.Mentions) != 1 {
		t.Errorf("expected 1 mention, got %v", got.Mentions)
	}
	if got.SentimentLabel != model.SentimentPositive {
		t.Errorf("expected positive sentiment label, got %s", got.SentimentLabel)
	}
}

func TestCitationHandler_Query_ProviderFailureIsInvisible(t *testing.T) {
	router := setupTestRouter(t,
		&fakeClient{platform: model.PlatformAnthropic, err: errors.New("boom")},
		&fakeClient{platform: model.PlatformGemini, response: "Acme Corp leads the market."},
	)

	w := postJSON(t, router, "/api/v1/citations", map[string]any{
		"query":    "Who leads the market?",
		"keywords": []string{"acme"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 despite provider failure, got %d", w.Code)
	}

	var resp struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Errorf("expected 1 result, got %d", len(resp.Results))
	}
}

func TestCitationHandler_Query_MissingQuery(t *testing.T) {
	router := setupTestRouter(t,
		&fakeClient{platform: model.PlatformAnthropic, response: "irrelevant"},
	)

	w := postJSON(t, router, "/api/v1/citations", map[string]any{
		"keywords": []string{"acme"},
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestCitationHandler_Query_EmptyResultsIsOK(t *testing.T) {
	router := setupTestRouter(t,
		&fakeClient{platform: model.PlatformAnthropic, response: "No brands mentioned here."},
	)

	w := postJSON(t, router, "/api/v1/citations", map[string]any{
		"query":    "Anything good out there?",
		"keywords": []string{"acme"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected empty results, got %d", len(resp.Results))
	}
}

func TestCitationHandler_Platforms(t *testing.T) {
	router := setupTestRouter(t,
		&fakeClient{platform: model.PlatformAnthropic, response: ""},
		&fakeClient{platform: model.PlatformOpenAI, response: ""},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/platforms", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Platforms []struct {
			Platform     string   `json:"platform"`
			Models       []string `json:"models"`
			DefaultModel string   `json:"default_model"`
		} `json:"platforms"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Platforms) != 2 {
		t.Fatalf("expected 2 platforms, got %d", len(resp.Platforms))
	}
	if resp.Platforms[0].Platform != string(model.PlatformAnthropic) {
		t.Errorf("expected anthropic first, got %s", resp.Platforms[0].Platform)
	}
	if resp.Platforms[0].DefaultModel != "test-model" {
		t.Errorf("expected default model test-model, got %s", resp.Platforms[0].DefaultModel)
	}
}
