package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizgenie/quizgenie-backend/internal/config"
)

func testAIService(upstream string) *AIService {
	cfg := &config.Config{
		AIBaseURL: upstream,
		AIAPIKey:  "test-key",
		AIModel:   "test-model",
		AITimeout: 5 * time.Second,
	}
	return NewAIService(cfg, zerolog.Nop())
}

func TestCompleteReturnsContent(t *testing.T) {
	var gotAuth, gotModel string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		gotModel = req.Model

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "hello there"}},
			},
		})
	}))
	defer srv.Close()

	out, err := testAIService(srv.URL).Complete(context.Background(), "say hello")
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello there" {
		t.Errorf("out = %q", out)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotModel != "test-model" {
		t.Errorf("model = %q", gotModel)
	}
}

func TestCompleteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limited", "type": "rate_limit"},
		})
	}))
	defer srv.Close()

	if _, err := testAIService(srv.URL).Complete(context.Background(), "p"); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	if _, err := testAIService(srv.URL).Complete(context.Background(), "p"); err != ErrAIEmptyResponse {
		t.Errorf("err = %v, want ErrAIEmptyResponse", err)
	}
}
