package vectordb

import (
	"context"
	"sort"
	"sync"

	"github.com/coderngaonger/rorishop.io/internal/domain/entities"
)

// InMemoryStore is a seedable in-memory vector store used by tests and as a
// dev backend when no persisted index exists yet.
type InMemoryStore struct {
	mu     sync.RWMutex
	chunks map[string]entities.Chunk // chunkID -> chunk
}

// NewInMemoryStore creates a new in-memory vector store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		chunks: make(map[string]entities.Chunk),
	}
}

// Seed loads chunks into the store.
func (s *InMemoryStore) Seed(chunks []entities.Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, chunk := range chunks {
		s.chunks[chunk.ID] = chunk
	}
}

// Search finds the most similar chunks to a query embedding.
func (s *InMemoryStore) Search(ctx context.Context, embedding []float32, topK int) ([]entities.QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		chunk entities.Chunk
		score float64
	}

	var results []scored
	for _, chunk := range s.chunks {
		score := cosineSimilarity(embedding, chunk.Embedding)
		results = append(results, scored{chunk: chunk, score: score})
	}

	// Sort by score descending
	sort.Slice(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	// Take top K
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	queryResults := make([]entities.QueryResult, len(results))
	for i, r := range results {
		queryResults[i] = entities.QueryResult{
			Chunk:     r.chunk,
			Score:     r.score,
			SourceDoc: r.chunk.DocumentID,
		}
	}

	return queryResults, nil
}

// Reload is a no-op; the in-memory store has no persisted backing.
func (s *InMemoryStore) Reload(ctx context.Context) error { return nil }

// Close clears the store.
func (s *InMemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = make(map[string]entities.Chunk)
	return nil
}
