// Package sqlite provides an embedded store backend. It keeps the same
// contracts as the PostgreSQL backend but runs from a single local file,
// which suits development machines without a database server. Similarity
// search is brute-force cosine computed in Go, so it is only sensible
// for small corpora.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ragserve/internal/core/domain"
	"github.com/custodia-labs/ragserve/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.Store = (*Store)(nil)

// Store is a SQLite-backed implementation of the store ports.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database file at the given path.
// If path is empty, defaults to ~/.ragserve/data/ragserve.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".ragserve", "data", "ragserve.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// EnsureSchema creates the tables if absent. Safe to re-run.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding BLOB,
			uploaded_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS chat_history (
			id TEXT PRIMARY KEY,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			sources TEXT,
			created_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating chat_history table: %w", err)
	}

	return nil
}

// InsertChunk appends one chunk row.
func (s *Store) InsertChunk(ctx context.Context, chunk *domain.Chunk) error {
	uploadedAt := chunk.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, content, embedding, uploaded_at)
		VALUES (?, ?, ?, ?, ?)
	`, chunk.ID, chunk.Filename, chunk.Content, float32SliceToBytes(chunk.Embedding), uploadedAt)
	if err != nil {
		return fmt.Errorf("saving chunk for %s: %v: %w", chunk.Filename, err, domain.ErrStorage)
	}
	return nil
}

// Search loads every chunk and ranks by cosine similarity in Go.
func (s *Store) Search(ctx context.Context, embedding []float32, k int) ([]domain.ScoredChunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, content, embedding, uploaded_at
		FROM documents
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %v: %w", err, domain.ErrStorage)
	}
	defer rows.Close()

	var results []domain.ScoredChunk
	for rows.Next() {
		var sc domain.ScoredChunk
		var blob []byte
		if err := rows.Scan(&sc.ID, &sc.Filename, &sc.Content, &blob, &sc.UploadedAt); err != nil {
			return nil, fmt.Errorf("scanning chunk: %v: %w", err, domain.ErrStorage)
		}
		sc.Embedding = bytesToFloat32Slice(blob)
		sc.Similarity = cosineSimilarity(embedding, sc.Embedding)
		results = append(results, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %v: %w", err, domain.ErrStorage)
	}

	if len(results) == 0 {
		return nil, domain.ErrNotFound
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// ListDocuments groups chunks by filename, newest upload first.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT filename, COUNT(*) AS chunks, MAX(uploaded_at) AS uploaded_at
		FROM documents
		GROUP BY filename
		ORDER BY uploaded_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %v: %w", err, domain.ErrStorage)
	}
	defer rows.Close()

	var docs []domain.DocumentInfo
	for rows.Next() {
		var info domain.DocumentInfo
		// MAX() strips the column's declared DATETIME type, so the driver
		// returns the stored text instead of a time.Time; parse it back.
		var uploadedAt string
		if err := rows.Scan(&info.Filename, &info.Chunks, &uploadedAt); err != nil {
			return nil, fmt.Errorf("scanning document row: %v: %w", err, domain.ErrStorage)
		}
		info.UploadedAt, err = time.Parse("2006-01-02 15:04:05.999999999 -0700 MST", uploadedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing uploaded_at: %v: %w", err, domain.ErrStorage)
		}
		docs = append(docs, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %v: %w", err, domain.ErrStorage)
	}
	return docs, nil
}

// InsertHistory appends one immutable record. Sources are stored as a
// JSON array in a TEXT column.
func (s *Store) InsertHistory(ctx context.Context, rec *domain.HistoryRecord) error {
	sourcesJSON, err := json.Marshal(rec.Sources)
	if err != nil {
		return fmt.Errorf("marshalling sources: %w", err)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chat_history (id, question, answer, sources, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, rec.Question, rec.Answer, string(sourcesJSON), createdAt)
	if err != nil {
		return fmt.Errorf("saving history: %v: %w", err, domain.ErrStorage)
	}
	return nil
}

// ListHistory returns up to limit records, newest first.
func (s *Store) ListHistory(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, answer, sources, created_at
		FROM chat_history
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %v: %w", err, domain.ErrStorage)
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var sourcesJSON string
		if err := rows.Scan(&rec.ID, &rec.Question, &rec.Answer, &sourcesJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %v: %w", err, domain.ErrStorage)
		}
		if err := json.Unmarshal([]byte(sourcesJSON), &rec.Sources); err != nil {
			return nil, fmt.Errorf("unmarshalling sources: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %v: %w", err, domain.ErrStorage)
	}
	return records, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity computes the cosine of the angle between a and b.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
