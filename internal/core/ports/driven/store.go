package driven

import (
	"context"

	"github.com/custodia-labs/ragserve/internal/core/domain"
)

// ChunkStore persists document chunks and performs similarity search.
//
// InsertChunk appends a single row with no deduplication and no
// transaction spanning a batch: if chunk N of an upload fails, the
// N-1 chunks already written stay committed. Callers must tolerate
// partial ingestion (operators re-upload the file).
type ChunkStore interface {
	// InsertChunk appends one chunk row.
	InsertChunk(ctx context.Context, chunk *domain.Chunk) error

	// Search returns the k chunks nearest to the query embedding by
	// cosine distance, best first, each annotated with
	// similarity = 1 - distance. Returns domain.ErrNotFound when the
	// store holds no chunks at all.
	Search(ctx context.Context, embedding []float32, k int) ([]domain.ScoredChunk, error)

	// ListDocuments returns per-file chunk counts and latest upload
	// times, newest first.
	ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error)
}

// HistoryStore persists the append-only question/answer log.
type HistoryStore interface {
	// InsertHistory appends one immutable record.
	InsertHistory(ctx context.Context, rec *domain.HistoryRecord) error

	// ListHistory returns up to limit records, newest first.
	ListHistory(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
}

// Store bundles the persistence interfaces behind one backend.
// Backends also provision their own schema and own their connections.
type Store interface {
	ChunkStore
	HistoryStore

	// EnsureSchema creates tables and indexes if absent. Safe to re-run.
	EnsureSchema(ctx context.Context) error

	// Close releases the underlying pool or file handle.
	Close() error
}
