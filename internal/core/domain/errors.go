package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// For retrieval it means the chunk store is empty, which is a
	// definite condition rather than a transient one.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates the uploaded file extension has no
	// registered extractor.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyDocument indicates extraction produced no readable text.
	ErrEmptyDocument = errors.New("document is empty or contains no readable text")

	// ErrNoChunks indicates chunking produced no chunks.
	ErrNoChunks = errors.New("no chunks created from document")

	// ErrStorage indicates a store connection or query failure.
	ErrStorage = errors.New("storage failure")

	// ErrServiceUnavailable indicates a required dependency (database,
	// embedding model) is not ready.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrGenerationFailed indicates the generation endpoint returned a
	// transport or protocol error other than being unreachable.
	ErrGenerationFailed = errors.New("generation failed")
)
