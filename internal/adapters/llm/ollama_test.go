package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coderngaonger/rorishop.io/internal/domain/entities"
)

func TestOllamaAdapter_Chat(t *testing.T) {
	var gotBody ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": map[string]string{"role": "assistant", "content": "Hello there!"},
			"done":    true,
		})
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "test-model")
	answer, err := adapter.Chat(context.Background(), "persona", []entities.Message{
		{Role: entities.RoleUser, Content: "Hi"},
	})

	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if answer != "Hello there!" {
		t.Errorf("unexpected answer: %s", answer)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Errorf("system instruction should lead the message list: %+v", gotBody.Messages)
	}
	if gotBody.Stream {
		t.Error("stream should be disabled")
	}
}

func TestOllamaAdapter_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "test")
	_, err := adapter.Chat(context.Background(), "", []entities.Message{
		{Role: entities.RoleUser, Content: "q"},
	})

	if err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestOllamaAdapter_Defaults(t *testing.T) {
	adapter := NewOllamaAdapter("", "")
	if adapter.baseURL != "http://localhost:11434" {
		t.Errorf("unexpected default base URL: %s", adapter.baseURL)
	}
	if adapter.model != "llama3.2" {
		t.Errorf("unexpected default model: %s", adapter.model)
	}
}
