// Package memory provides an in-memory implementation of the store
// ports. It is used by tests and by ephemeral development runs; nothing
// survives a restart.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/ragserve/internal/core/domain"
	"github.com/custodia-labs/ragserve/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.Store = (*Store)(nil)

// Store keeps chunks and history in slices guarded by a RWMutex.
// Similarity search is brute-force cosine over every stored chunk.
type Store struct {
	mu      sync.RWMutex
	chunks  []domain.Chunk
	history []domain.HistoryRecord
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// EnsureSchema is a no-op for the in-memory backend.
func (s *Store) EnsureSchema(_ context.Context) error {
	return nil
}

// InsertChunk appends one chunk.
func (s *Store) InsertChunk(_ context.Context, chunk *domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *chunk
	if c.UploadedAt.IsZero() {
		c.UploadedAt = time.Now()
	}
	s.chunks = append(s.chunks, c)
	return nil
}

// Search returns the k nearest chunks by cosine distance.
func (s *Store) Search(_ context.Context, embedding []float32, k int) ([]domain.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.chunks) == 0 {
		return nil, domain.ErrNotFound
	}

	scored := make([]domain.ScoredChunk, 0, len(s.chunks))
	for i := range s.chunks {
		scored = append(scored, domain.ScoredChunk{
			Chunk:      s.chunks[i],
			Similarity: cosineSimilarity(embedding, s.chunks[i].Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// ListDocuments groups chunks by filename, newest upload first.
func (s *Store) ListDocuments(_ context.Context) ([]domain.DocumentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byFile := make(map[string]*domain.DocumentInfo)
	for i := range s.chunks {
		c := &s.chunks[i]
		info, ok := byFile[c.Filename]
		if !ok {
			info = &domain.DocumentInfo{Filename: c.Filename}
			byFile[c.Filename] = info
		}
		info.Chunks++
		if c.UploadedAt.After(info.UploadedAt) {
			info.UploadedAt = c.UploadedAt
		}
	}

	docs := make([]domain.DocumentInfo, 0, len(byFile))
	for _, info := range byFile {
		docs = append(docs, *info)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

// InsertHistory appends one record.
func (s *Store) InsertHistory(_ context.Context, rec *domain.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := *rec
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.Sources = append([]string(nil), rec.Sources...)
	s.history = append(s.history, r)
	return nil
}

// ListHistory returns up to limit records, newest first. Records
// sharing a timestamp are ordered by insertion, latest insert first,
// so the ordering is total.
func (s *Store) ListHistory(_ context.Context, limit int) ([]domain.HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := make([]int, len(s.history))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		ra, rb := s.history[idx[a]], s.history[idx[b]]
		if !ra.CreatedAt.Equal(rb.CreatedAt) {
			return ra.CreatedAt.After(rb.CreatedAt)
		}
		return idx[a] > idx[b]
	})

	if limit > 0 && limit < len(idx) {
		idx = idx[:limit]
	}
	records := make([]domain.HistoryRecord, len(idx))
	for i, j := range idx {
		records[i] = s.history[j]
	}
	return records, nil
}

// Close is a no-op for the in-memory backend.
func (s *Store) Close() error {
	return nil
}

// cosineSimilarity computes the cosine of the angle between a and b.
// Neither vector is assumed to be normalised.
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
