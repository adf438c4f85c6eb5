// Package usecases - engine.go composes retrieval and generation into the
// single capability the chat session depends on.
package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/coderngaonger/rorishop.io/internal/domain/entities"
	"github.com/coderngaonger/rorishop.io/internal/domain/ports"
)

// ContextEngine implements ports.AnswerEngine by embedding the query,
// searching the persisted index, and handing persona, retrieved context,
// and conversation history to the LLM in one chat call.
type ContextEngine struct {
	embedder    ports.EmbeddingService
	vectorStore ports.VectorStore
	llm         ports.LLMService
}

// NewContextEngine creates a ContextEngine with injected dependencies.
func NewContextEngine(
	embedder ports.EmbeddingService,
	vectorStore ports.VectorStore,
	llm ports.LLMService,
) *ContextEngine {
	return &ContextEngine{
		embedder:    embedder,
		vectorStore: vectorStore,
		llm:         llm,
	}
}

// RetrieveAndGenerate answers query with topK retrieved chunks as grounding.
// The retrieved context rides in the system instruction alongside the
// persona, never in the conversation history, so it can neither be evicted
// by the buffer policy nor echoed back as a past turn.
func (e *ContextEngine) RetrieveAndGenerate(ctx context.Context, persona string, history []entities.Message, query string, topK int) (string, error) {
	// 1. Embed the query
	queryEmbedding, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embedding query: %w", err)
	}

	// 2. Search the persisted index
	results, err := e.vectorStore.Search(ctx, queryEmbedding, topK)
	if err != nil {
		return "", fmt.Errorf("searching vectors: %w", err)
	}

	// 3. Fold retrieved context into the system instruction
	system := buildSystemInstruction(persona, results)

	// 4. Generate via LLM with the full conversation
	messages := append(append([]entities.Message{}, history...), entities.Message{
		Role:    entities.RoleUser,
		Content: query,
	})

	answer, err := e.llm.Chat(ctx, system, messages)
	if err != nil {
		return "", fmt.Errorf("generating response: %w", err)
	}

	return answer, nil
}

// buildSystemInstruction appends the retrieved shop documents to the persona
// text. With no hits the persona goes through unchanged and the model is
// expected to say it is unsure rather than invent shop facts.
func buildSystemInstruction(persona string, results []entities.QueryResult) string {
	if len(results) == 0 {
		return persona
	}

	var sb strings.Builder
	sb.WriteString(persona)
	sb.WriteString("\n\nContext information from shop documents:\n")
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("[Source: %s]\n%s\n\n", r.SourceDoc, r.Chunk.Content))
	}
	return sb.String()
}
