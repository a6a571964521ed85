package domain

import "time"

// Chunk represents one embedded window of a document's words.
// Chunks are the unit of storage and retrieval: a file is split into
// overlapping word windows, each embedded and persisted as its own row.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Filename is the name of the uploaded file this chunk came from.
	Filename string

	// Content is the text content of this chunk.
	Content string

	// Embedding is the vector representation used for similarity search.
	// Its length must match the embedder's reported dimensions.
	Embedding []float32

	// UploadedAt is when the chunk was persisted.
	UploadedAt time.Time
}

// ScoredChunk is a chunk annotated with its similarity to a query.
type ScoredChunk struct {
	Chunk

	// Similarity is 1 - cosine distance to the query embedding.
	// Higher is more relevant.
	Similarity float64
}

// DocumentInfo summarises one ingested file for listing.
type DocumentInfo struct {
	// Filename is the uploaded file name.
	Filename string

	// Chunks is the number of stored chunks for this file.
	Chunks int

	// UploadedAt is the most recent upload time for this file.
	UploadedAt time.Time
}

// IngestResult reports the outcome of ingesting one file.
type IngestResult struct {
	// Filename is the uploaded file name.
	Filename string

	// Chunks is the number of chunks stored.
	Chunks int
}
