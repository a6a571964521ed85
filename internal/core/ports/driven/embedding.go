package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The service is initialised once at process start and must be safe to
// call concurrently from multiple in-flight requests. Failure to reach
// the model at startup is fatal: the embedder is a hard dependency,
// unlike the database.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - Local models via inference servers
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384, 768).
	// This must match the dimension of the store's vector column.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup as the model-load check.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
