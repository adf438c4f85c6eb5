// Package vectordb provides vector store adapters.
// Clean Architecture: Adapters implementing ports.VectorStore.
// The persisted index is built and rewritten by external tooling; this
// process only ever reads it.
package vectordb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/coderngaonger/rorishop.io/internal/domain/entities"
)

// IndexFileName is the database file the external index builder writes
// inside the persist directory.
const IndexFileName = "vectors.db"

// SQLiteIndex implements ports.VectorStore over a persisted SQLite index.
// All chunks are loaded into memory at open time and searched brute-force;
// shop document sets are small enough that ANN indexing would be overkill.
type SQLiteIndex struct {
	mu         sync.RWMutex
	persistDir string
	chunks     []indexedChunk
}

type indexedChunk struct {
	chunk     entities.Chunk
	sourceDoc string
}

// OpenSQLiteIndex loads the persisted index from the given directory.
// A missing or unreadable index is a hard error; the caller decides whether
// that means "not ready" or "fatal".
func OpenSQLiteIndex(persistDir string) (*SQLiteIndex, error) {
	if persistDir == "" {
		persistDir = "./db"
	}

	idx := &SQLiteIndex{persistDir: persistDir}
	if err := idx.Reload(context.Background()); err != nil {
		return nil, err
	}
	return idx, nil
}

// Reload re-reads the persisted index from disk, replacing the in-memory
// snapshot atomically. Called at open time and whenever the index watcher
// reports a rewrite.
func (s *SQLiteIndex) Reload(ctx context.Context) error {
	dbPath := filepath.Join(s.persistDir, IndexFileName)
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("persisted index not found at %s: %w", dbPath, err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("opening index database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT id, document_id, content, chunk_index, embedding, source_doc
		FROM chunks
	`)
	if err != nil {
		return fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var loaded []indexedChunk
	for rows.Next() {
		var chunk entities.Chunk
		var embeddingJSON []byte
		var sourceDoc string

		err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content, &chunk.Index, &embeddingJSON, &sourceDoc)
		if err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}

		if err := json.Unmarshal(embeddingJSON, &chunk.Embedding); err != nil {
			continue // Skip corrupted embeddings
		}

		loaded = append(loaded, indexedChunk{chunk: chunk, sourceDoc: sourceDoc})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading chunks: %w", err)
	}

	s.mu.Lock()
	s.chunks = loaded
	s.mu.Unlock()
	return nil
}

// Search finds the most similar chunks to a query embedding.
func (s *SQLiteIndex) Search(ctx context.Context, embedding []float32, topK int) ([]entities.QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		chunk entities.Chunk
		score float64
		doc   string
	}

	var results []scored
	for _, ic := range s.chunks {
		score := cosineSimilarity(embedding, ic.chunk.Embedding)
		results = append(results, scored{chunk: ic.chunk, score: score, doc: ic.sourceDoc})
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
			SourceDoc: r.doc,
		}
	}

	return queryResults, nil
}

// Close releases the index snapshot. The database handle itself is only
// held during Reload.
func (s *SQLiteIndex) Close() error {
	s.mu.Lock()
	s.chunks = nil
	s.mu.Unlock()
	return nil
}

// ChunkCount returns the number of loaded chunks.
func (s *SQLiteIndex) ChunkCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// cosineSimilarity calculates cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
