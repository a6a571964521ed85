// Package postgres provides the primary store backend: PostgreSQL with
// the pgvector extension. Nearest-neighbour search is delegated to the
// extension's cosine distance operator and ivfflat index.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"github.com/custodia-labs/ragserve/internal/core/domain"
	"github.com/custodia-labs/ragserve/internal/core/ports/driven"
	"github.com/custodia-labs/ragserve/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.Store = (*Store)(nil)

// Default configuration values.
const (
	DefaultMinConns   = 1
	DefaultMaxConns   = 10
	DefaultDimensions = 384
)

// Config holds configuration for the PostgreSQL store.
type Config struct {
	// ConnString is the PostgreSQL connection string.
	ConnString string

	// MinConns is the minimum pool size (default: 1).
	MinConns int32

	// MaxConns is the maximum pool size (default: 10). The diagnostic
	// path uses 1.
	MaxConns int32

	// Dimensions is the width of the vector column (default: 384).
	// Must match the embedder's reported dimensions.
	Dimensions int
}

// Store persists chunks and history in PostgreSQL. Every logical
// operation acquires one pooled connection for its duration; the pool
// bounds concurrent database work.
type Store struct {
	pool       *pgxpool.Pool
	dimensions int
}

// NewStore opens a connection pool against the configured database.
// The pgvector types are registered on every new connection.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.MinConns == 0 {
		cfg.MinConns = DefaultMinConns
	}
	if cfg.MaxConns == 0 {
		cfg.MaxConns = DefaultMaxConns
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.ConnString)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{pool: pool, dimensions: cfg.Dimensions}, nil
}

// EnsureSchema provisions the extension, tables and vector index.
// Safe to re-run; index creation failure is logged and swallowed
// because ivfflat needs data to build against.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}

	documentsDDL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d),
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.dimensions)
	if _, err := s.pool.Exec(ctx, documentsDDL); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}

	historyDDL := `
		CREATE TABLE IF NOT EXISTS chat_history (
			id TEXT PRIMARY KEY,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			sources TEXT[],
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := s.pool.Exec(ctx, historyDDL); err != nil {
		return fmt.Errorf("create chat_history table: %w", err)
	}

	indexDDL := `
		CREATE INDEX IF NOT EXISTS documents_embedding_idx
		ON documents USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`
	if _, err := s.pool.Exec(ctx, indexDDL); err != nil {
		logger.Warn("vector index creation skipped: %v", err)
	}

	return nil
}

// InsertChunk appends one chunk row.
func (s *Store) InsertChunk(ctx context.Context, chunk *domain.Chunk) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO documents (id, filename, content, embedding)
		VALUES ($1, $2, $3, $4)`,
		chunk.ID, chunk.Filename, chunk.Content, pgvector.NewVector(chunk.Embedding))
	if err != nil {
		return fmt.Errorf("insert chunk for %s: %v: %w", chunk.Filename, err, domain.ErrStorage)
	}
	return nil
}

// Search returns the k nearest chunks by cosine distance, best first.
func (s *Store) Search(ctx context.Context, embedding []float32, k int) ([]domain.ScoredChunk, error) {
	query := pgvector.NewVector(embedding)
	rows, err := s.pool.Query(ctx, `
		SELECT id, filename, content, uploaded_at,
		       1 - (embedding <=> $1) AS similarity
		FROM documents
		ORDER BY embedding <=> $1
		LIMIT $2`,
		query, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %v: %w", err, domain.ErrStorage)
	}
	defer rows.Close()

	var results []domain.ScoredChunk
	for rows.Next() {
		var sc domain.ScoredChunk
		if err := rows.Scan(&sc.ID, &sc.Filename, &sc.Content, &sc.UploadedAt, &sc.Similarity); err != nil {
			return nil, fmt.Errorf("scan search row: %v: %w", err, domain.ErrStorage)
		}
		results = append(results, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read search rows: %v: %w", err, domain.ErrStorage)
	}

	if len(results) == 0 {
		return nil, domain.ErrNotFound
	}
	return results, nil
}

// ListDocuments groups chunks by filename, newest upload first.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT filename, COUNT(*) AS chunks, MAX(uploaded_at) AS uploaded_at
		FROM documents
		GROUP BY filename
		ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %v: %w", err, domain.ErrStorage)
	}
	defer rows.Close()

	var docs []domain.DocumentInfo
	for rows.Next() {
		var info domain.DocumentInfo
		var count int64
		if err := rows.Scan(&info.Filename, &count, &info.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan document row: %v: %w", err, domain.ErrStorage)
		}
		info.Chunks = int(count)
		docs = append(docs, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read document rows: %v: %w", err, domain.ErrStorage)
	}
	return docs, nil
}

// InsertHistory appends one immutable record.
func (s *Store) InsertHistory(ctx context.Context, rec *domain.HistoryRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat_history (id, question, answer, sources)
		VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.Question, rec.Answer, rec.Sources)
	if err != nil {
		return fmt.Errorf("insert history: %v: %w", err, domain.ErrStorage)
	}
	return nil
}

// ListHistory returns up to limit records, newest first.
func (s *Store) ListHistory(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, question, answer, sources, created_at
		FROM chat_history
		ORDER BY created_at DESC
		LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %v: %w", err, domain.ErrStorage)
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		if err := rows.Scan(&rec.ID, &rec.Question, &rec.Answer, &rec.Sources, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %v: %w", err, domain.ErrStorage)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read history rows: %v: %w", err, domain.ErrStorage)
	}
	return records, nil
}

// Ping verifies connectivity with a trivial round-trip query.
func (s *Store) Ping(ctx context.Context) error {
	var result int
	if err := s.pool.QueryRow(ctx, `SELECT 1 + 1`).Scan(&result); err != nil {
		return fmt.Errorf("ping query: %w", err)
	}
	if result != 2 {
		return errors.New("ping query returned unexpected result")
	}
	return nil
}

// HasVectorExtension reports whether pgvector is installed.
func (s *Store) HasVectorExtension(ctx context.Context) (bool, error) {
	var name string
	err := s.pool.QueryRow(ctx,
		`SELECT extname FROM pg_extension WHERE extname = 'vector'`).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query pg_extension: %w", err)
	}
	return true, nil
}

// Stat exposes pool usage for the diagnostic command.
func (s *Store) Stat() (acquired, total int32) {
	st := s.pool.Stat()
	return st.AcquiredConns(), st.TotalConns()
}

// Close closes the pool. In-flight acquires are given a grace period by
// pgxpool itself; callers should stop accepting requests first.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// WaitReady blocks until the database answers a ping or the timeout
// elapses. Used by the diagnostic command to fail fast.
func (s *Store) WaitReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Ping(ctx)
}
