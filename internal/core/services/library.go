package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragserve/internal/core/domain"
	"github.com/custodia-labs/ragserve/internal/core/ports/driven"
	"github.com/custodia-labs/ragserve/internal/core/ports/driving"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// DefaultHistoryLimit is used when the caller supplies no limit.
const DefaultHistoryLimit = 10

// LibraryService exposes the read-only listing operations.
type LibraryService struct {
	chunks  driven.ChunkStore
	history driven.HistoryStore
}

// NewLibraryService creates a new library service.
func NewLibraryService(chunks driven.ChunkStore, history driven.HistoryStore) *LibraryService {
	return &LibraryService{
		chunks:  chunks,
		history: history,
	}
}

// History returns up to limit answered questions, newest first.
func (s *LibraryService) History(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	records, err := s.history.ListHistory(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

// Documents lists ingested files with chunk counts, newest first.
func (s *LibraryService) Documents(ctx context.Context) ([]domain.DocumentInfo, error) {
	docs, err := s.chunks.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}
