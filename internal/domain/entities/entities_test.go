package entities

import "testing"

func TestMessage_Roles(t *testing.T) {
	user := Message{Role: RoleUser, Content: "hello"}
	assistant := Message{Role: RoleAssistant, Content: "hi there"}

	if user.Role != "user" || assistant.Role != "assistant" {
		t.Error("roles not set correctly")
	}
}

func TestChunk_WithEmbedding(t *testing.T) {
	chunk := Chunk{
		ID:         "chunk-1",
		DocumentID: "sizing.md",
		Content:    "some text",
		Index:      0,
		Embedding:  []float32{0.1, 0.2, 0.3},
	}

	if len(chunk.Embedding) != 3 {
		t.Errorf("expected 3 embedding dims, got %d", len(chunk.Embedding))
	}
}

func TestQueryResult_Score(t *testing.T) {
	result := QueryResult{
		Chunk:     Chunk{ID: "c1", Content: "test"},
		Score:     0.95,
		SourceDoc: "policy.md",
	}

	if result.Score < 0.9 {
		t.Error("expected high score")
	}
}

func TestChatResult_Shape(t *testing.T) {
	res := ChatResult{
		Answer:  "We stock S through L.",
		History: []string{"what sizes?", "We stock S through L."},
	}

	if res.Answer == "" {
		t.Error("answer should not be empty")
	}
	if len(res.History) != 2 {
		t.Errorf("expected 2 history entries, got %d", len(res.History))
	}
}
