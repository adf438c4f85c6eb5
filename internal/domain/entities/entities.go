// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

// Message roles. Persona instructions use RoleSystem but are supplied
// out-of-band on every backend call; the conversation buffer only ever
// holds user and assistant messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message represents one conversation turn. Immutable once created;
// insertion order is conversation order.
type Message struct {
	Role    string
	Content string
}

// Chunk represents an indexed piece of a shop document.
// Clean Architecture: Entity knows nothing about how it's stored or embedded.
type Chunk struct {
	ID         string
	DocumentID string
	Content    string
	Index      int       // Position in document
	Embedding  []float32 // Vector representation (populated by the index builder)
}

// QueryResult represents a retrieval hit with relevance.
type QueryResult struct {
	Chunk     Chunk
	Score     float64 // Similarity score
	SourceDoc string  // Document name for citation
}

// ChatResult is what one completed exchange returns to the caller:
// the assistant's answer plus a content-only view of the recent
// conversation. Transient; never persisted.
type ChatResult struct {
	Answer  string
	History []string
}
