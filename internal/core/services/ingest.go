package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragserve/internal/core/domain"
	"github.com/custodia-labs/ragserve/internal/core/ports/driven"
	"github.com/custodia-labs/ragserve/internal/core/ports/driving"
	"github.com/custodia-labs/ragserve/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the upload pipeline:
// extraction, chunking, then per-chunk embedding and storage.
type IngestService struct {
	extractors driven.ExtractorRegistry
	chunker    driven.Chunker
	embedder   driven.EmbeddingService
	chunks     driven.ChunkStore
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	extractors driven.ExtractorRegistry,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	chunks driven.ChunkStore,
) *IngestService {
	return &IngestService{
		extractors: extractors,
		chunker:    chunker,
		embedder:   embedder,
		chunks:     chunks,
	}
}

// Ingest extracts, chunks, embeds and stores one uploaded file.
//
// Chunks are inserted one row at a time with no surrounding
// transaction. A failure at chunk N leaves chunks 1..N-1 committed;
// re-uploading after a partial failure duplicates those rows, which is
// accepted behaviour rather than a bug.
func (s *IngestService) Ingest(ctx context.Context, filename string, data []byte) (*domain.IngestResult, error) {
	logger.Section("Ingest")
	logger.Debug("Processing %s (%d bytes)", filename, len(data))

	extractor, err := s.extractors.ForFilename(filename)
	if err != nil {
		return nil, err
	}

	text, err := extractor.Extract(ctx, filename, data)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filename, err)
	}
	logger.Debug("Extracted %d characters", len(text))

	chunks := s.chunker.Split(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("chunk %s: %w", filename, domain.ErrNoChunks)
	}
	logger.Debug("Split into %d chunks", len(chunks))

	uploadedAt := time.Now()
	for i, content := range chunks {
		embedding, err := s.embedder.Embed(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d of %s: %w", i+1, filename, err)
		}

		chunk := domain.Chunk{
			ID:         uuid.New().String(),
			Filename:   filename,
			Content:    content,
			Embedding:  embedding,
			UploadedAt: uploadedAt,
		}
		if err := s.chunks.InsertChunk(ctx, &chunk); err != nil {
			return nil, fmt.Errorf("store chunk %d of %s: %w", i+1, filename, err)
		}

		if (i+1)%10 == 0 || i+1 == len(chunks) {
			logger.Debug("Stored %d/%d chunks", i+1, len(chunks))
		}
	}

	logger.Info("Ingested %s: %d chunks", filename, len(chunks))
	return &domain.IngestResult{
		Filename: filename,
		Chunks:   len(chunks),
	}, nil
}
