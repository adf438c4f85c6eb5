// Package ports defines interfaces for external dependencies.
// Clean Architecture: These are the boundaries - usecases depend on these abstractions,
// not concrete implementations. Adapters implement these interfaces.
// This follows Dependency Inversion Principle (DIP) strictly.
package ports

import (
	"context"

	"github.com/coderngaonger/rorishop.io/internal/domain/entities"
)

// EmbeddingService generates vector embeddings for text.
// Interface Segregation: Only embedding responsibility, nothing else.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// LLMService produces a chat completion from a hosted generative model.
// The system instruction carries the persona and any retrieved context;
// messages carry the conversation history, ending with the user's turn.
type LLMService interface {
	Chat(ctx context.Context, system string, messages []entities.Message) (string, error)
}

// VectorStore is the read side of a persisted vector index. The index is
// built and rewritten by external tooling; this process only loads and
// queries it.
type VectorStore interface {
	// Search finds the most similar chunks to a query embedding.
	Search(ctx context.Context, embedding []float32, topK int) ([]entities.QueryResult, error)

	// Reload re-reads the persisted index after the external builder
	// rewrites it.
	Reload(ctx context.Context) error

	// Close releases the underlying index handle.
	Close() error
}

// AnswerEngine is the single retrieval-augmented generation capability the
// chat session depends on. The concrete backend is injected, so tests can
// substitute a double.
type AnswerEngine interface {
	// RetrieveAndGenerate answers query using persona instructions, the
	// prior conversation, and topK retrieved document chunks.
	RetrieveAndGenerate(ctx context.Context, persona string, history []entities.Message, query string, topK int) (string, error)
}

// IndexWatcher monitors the persisted index location for rewrites.
type IndexWatcher interface {
	// Watch starts monitoring the directory and emits an event per rewrite.
	Watch(ctx context.Context, dir string) (<-chan IndexEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// IndexEvent represents a change to the persisted index.
type IndexEvent struct {
	Path string
}
