package vectordb

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/coderngaonger/rorishop.io/internal/domain/entities"
)

// writeTestIndex builds a vectors.db the way the external index tooling
// does, so the reader is exercised against the real on-disk shape.
func writeTestIndex(t *testing.T, dir string, chunks []entities.Chunk) {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(dir, IndexFileName))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			content TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			embedding BLOB NOT NULL,
			source_doc TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		t.Fatalf("creating schema: %v", err)
	}

	for _, c := range chunks {
		emb, _ := json.Marshal(c.Embedding)
		_, err := db.Exec(
			`INSERT OR REPLACE INTO chunks (id, document_id, content, chunk_index, embedding, source_doc) VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID, c.DocumentID, c.Content, c.Index, emb, c.DocumentID,
		)
		if err != nil {
			t.Fatalf("inserting chunk: %v", err)
		}
	}
}

func TestSQLiteIndex_OpenAndSearch(t *testing.T) {
	dir := t.TempDir()
	writeTestIndex(t, dir, []entities.Chunk{
		{ID: "c1", DocumentID: "sizing.md", Content: "t-shirts in S M L", Embedding: []float32{1, 0, 0}},
		{ID: "c2", DocumentID: "policy.md", Content: "30 day returns", Embedding: []float32{0, 1, 0}},
	})

	idx, err := OpenSQLiteIndex(dir)
	if err != nil {
		t.Fatalf("failed to open index: %v", err)
	}
	defer idx.Close()

	if idx.ChunkCount() != 2 {
		t.Errorf("expected 2 chunks loaded, got %d", idx.ChunkCount())
	}

	results, err := idx.Search(context.Background(), []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Chunk.ID != "c1" {
		t.Error("c1 should be top result")
	}
	if results[0].SourceDoc != "sizing.md" {
		t.Errorf("unexpected source doc: %s", results[0].SourceDoc)
	}
}

func TestSQLiteIndex_TopKLimit(t *testing.T) {
	dir := t.TempDir()
	writeTestIndex(t, dir, []entities.Chunk{
		{ID: "c1", DocumentID: "d", Content: "a", Embedding: []float32{1, 0}},
		{ID: "c2", DocumentID: "d", Content: "b", Embedding: []float32{0.9, 0.1}},
		{ID: "c3", DocumentID: "d", Content: "c", Embedding: []float32{0, 1}},
	})

	idx, err := OpenSQLiteIndex(dir)
	if err != nil {
		t.Fatalf("failed to open index: %v", err)
	}
	defer idx.Close()

	results, err := idx.Search(context.Background(), []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected topK to cap results at 2, got %d", len(results))
	}
}

func TestSQLiteIndex_MissingIndex(t *testing.T) {
	_, err := OpenSQLiteIndex(t.TempDir())
	if err == nil {
		t.Fatal("expected error when no index exists")
	}
}

func TestSQLiteIndex_ReloadPicksUpRewrite(t *testing.T) {
	dir := t.TempDir()
	writeTestIndex(t, dir, []entities.Chunk{
		{ID: "c1", DocumentID: "d", Content: "old", Embedding: []float32{1, 0}},
	})

	idx, err := OpenSQLiteIndex(dir)
	if err != nil {
		t.Fatalf("failed to open index: %v", err)
	}
	defer idx.Close()

	// External tooling rewrites the index with more chunks.
	os.Remove(filepath.Join(dir, IndexFileName))
	writeTestIndex(t, dir, []entities.Chunk{
		{ID: "c1", DocumentID: "d", Content: "new", Embedding: []float32{1, 0}},
		{ID: "c2", DocumentID: "d", Content: "extra", Embedding: []float32{0, 1}},
	})

	if err := idx.Reload(context.Background()); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if idx.ChunkCount() != 2 {
		t.Errorf("expected 2 chunks after reload, got %d", idx.ChunkCount())
	}
}

func TestInMemoryStore_SeedAndSearch(t *testing.T) {
	store := NewInMemoryStore()
	store.Seed([]entities.Chunk{
		{ID: "c1", DocumentID: "doc1", Content: "hello", Embedding: []float32{1, 0, 0}},
		{ID: "c2", DocumentID: "doc2", Content: "world", Embedding: []float32{0, 1, 0}},
	})

	results, err := store.Search(context.Background(), []float32{0, 1, 0}, 1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 || results[0].Chunk.ID != "c2" {
		t.Errorf("expected c2 as sole result, got %+v", results)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"mismatched length", []float32{1}, []float32{1, 0}, 0.0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if got < tt.want-1e-9 || got > tt.want+1e-9 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
