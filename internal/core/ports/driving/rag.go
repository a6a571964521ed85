package driving

import (
	"context"

	"github.com/custodia-labs/ragserve/internal/core/domain"
)

// IngestService ingests uploaded files into the chunk store.
type IngestService interface {
	// Ingest extracts, chunks, embeds and stores the payload.
	// Fails with domain.ErrUnsupportedFormat, domain.ErrEmptyDocument,
	// domain.ErrNoChunks or domain.ErrStorage as appropriate.
	Ingest(ctx context.Context, filename string, data []byte) (*domain.IngestResult, error)
}

// AnswerService answers questions against the ingested corpus.
type AnswerService interface {
	// Answer embeds the question, retrieves the topK most similar
	// chunks, composes a prompt and calls the generator. The answered
	// question is appended to the history log. Fails with
	// domain.ErrNotFound when no chunks are stored.
	Answer(ctx context.Context, question string, topK int) (*domain.Answer, error)
}

// LibraryService exposes read-only listings of stored data.
type LibraryService interface {
	// History returns up to limit answered questions, newest first.
	History(ctx context.Context, limit int) ([]domain.HistoryRecord, error)

	// Documents lists ingested files with chunk counts, newest first.
	Documents(ctx context.Context) ([]domain.DocumentInfo, error)
}
