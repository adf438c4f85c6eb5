package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaAdapter_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": []float32{0.5, 0.5},
		})
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "test-model")
	vec, err := adapter.Embed(context.Background(), "some text")

	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if len(vec) != 2 {
		t.Errorf("expected 2 dims, got %d", len(vec))
	}
}

func TestOllamaAdapter_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "test")
	_, err := adapter.Embed(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error on 502")
	}
}
