package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}

		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("Expected one system and one user message, got %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"role": "assistant", "content": content}},
			},
		})
	}))
}

func TestLLMAdapter_Complete(t *testing.T) {
	srv := newCompletionServer(t, "  FACTUAL \n")
	defer srv.Close()

	llm := NewLLMAdapter(srv.URL, "test-key", "test-model")

	got, err := llm.Complete(context.Background(), "classify this", "What's my name?")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "FACTUAL" {
		t.Errorf("Expected trimmed 'FACTUAL', got %q", got)
	}
}

func TestLLMAdapter_Complete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	llm := NewLLMAdapter(srv.URL, "test-key", "test-model")

	if _, err := llm.Complete(context.Background(), "system", "user"); err == nil {
		t.Fatal("Expected error for empty choices")
	}
}

func TestLLMAdapter_Complete_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	llm := NewLLMAdapter(srv.URL, "test-key", "test-model")

	// Fail-fast: no retry, the error surfaces immediately
	if _, err := llm.Complete(context.Background(), "system", "user"); err == nil {
		t.Fatal("Expected error from failing upstream")
	}
}

func TestEmbedder_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float32{0.1, 0.2, 0.3}, "index": 0, "object": "embedding"},
			},
			"model":  "test-embedding",
			"object": "list",
		})
	}))
	defer srv.Close()

	emb := NewEmbedder(srv.URL, "test-key", "test-embedding")

	vec, err := emb.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("Expected 3-dimensional vector, got %d", len(vec))
	}
}
