package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Credential checks must fire before any network I/O — these clients have no
// server to talk to, so reaching the network would fail the test differently.

func TestClients_MissingCredentialIsConfigurationError(t *testing.T) {
	ctx := context.Background()

	clients := []Client{
		NewAnthropicClient(""),
		NewOpenAIClient(""),
		NewGeminiClient(""),
		NewPerplexityClient(""),
	}

	for _, client := range clients {
		_, err := client.Complete(ctx, "some-model", "some prompt")
		if !errors.Is(err, ErrNotConfigured) {
			t.Errorf("%s: expected ErrNotConfigured, got %v", client.Platform(), err)
		}
	}
}

func TestGeminiClient_Complete(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Acme Corp "},{"text":"is popular."}]}}]}`))
	}))
	defer srv.Close()

	client := NewGeminiClient("test-key")
	client.baseURL = srv.URL

	text, err := client.Complete(context.Background(), "gemini-1.5-pro", "Tell me about Acme Corp")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "Acme Corp is popular." {
		t.Errorf("unexpected text: %q", text)
	}
	if gotPath != "/models/gemini-1.5-pro:generateContent" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("expected API key header, got %q", gotKey)
	}
}

func TestGeminiClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewGeminiClient("test-key")
	client.baseURL = srv.URL

	_, err := client.Complete(context.Background(), "gemini-1.5-pro", "prompt")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestGeminiClient_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	client := NewGeminiClient("test-key")
	client.baseURL = srv.URL

	_, err := client.Complete(context.Background(), "gemini-1.5-pro", "prompt")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestPerplexityClient_Complete(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Acme Corp leads."}}]}`))
	}))
	defer srv.Close()

	client := NewPerplexityClient("test-key")
	client.baseURL = srv.URL

	text, err := client.Complete(context.Background(), "sonar-pro", "Tell me about Acme Corp")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "Acme Corp leads." {
		t.Errorf("unexpected text: %q", text)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
}

func TestPerplexityClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewPerplexityClient("test-key")
	client.baseURL = srv.URL

	_, err := client.Complete(context.Background(), "sonar-pro", "prompt")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestPerplexityClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":""}}]}`))
	}))
	defer srv.Close()

	client := NewPerplexityClient("test-key")
	client.baseURL = srv.URL

	_, err := client.Complete(context.Background(), "sonar-pro", "prompt")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}
