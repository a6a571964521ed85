package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/ragserve/internal/core/domain"
	"github.com/custodia-labs/ragserve/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService for testing.
// It maps text length onto a small deterministic vector.
type mockEmbedder struct {
	dims     int
	embedErr error
	calls    int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	dims := m.dims
	if dims == 0 {
		dims = 4
	}
	v := make([]float32, dims)
	v[0] = float32(len(text))
	v[1] = 1
	return v, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims == 0 {
		return 4
	}
	return m.dims
}

func (m *mockEmbedder) ModelName() string { return "mock-embed" }

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }

func (m *mockEmbedder) Close() error { return nil }

// mockGenerator implements driven.Generator for testing.
type mockGenerator struct {
	generation domain.Generation
	genErr     error
	prompts    []string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (domain.Generation, error) {
	m.prompts = append(m.prompts, prompt)
	if m.genErr != nil {
		return domain.Generation{}, m.genErr
	}
	return m.generation, nil
}

func (m *mockGenerator) ModelName() string { return "mock-llm" }

func (m *mockGenerator) Ping(_ context.Context) error { return nil }

func (m *mockGenerator) Close() error { return nil }

// failingChunkStore wraps a delegate and fails InsertChunk after a
// configured number of successes.
type failingChunkStore struct {
	driven.ChunkStore
	failAfter int
	inserted  int
	failErr   error
}

func (f *failingChunkStore) InsertChunk(ctx context.Context, chunk *domain.Chunk) error {
	if f.inserted >= f.failAfter {
		return f.failErr
	}
	f.inserted++
	return f.ChunkStore.InsertChunk(ctx, chunk)
}

// wordChunker splits on whitespace into windows of n words, a small
// stand-in for the real chunker in pipeline tests.
type wordChunker struct {
	n int
}

func (c *wordChunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	n := c.n
	if n <= 0 {
		n = 500
	}
	var chunks []string
	for start := 0; start < len(words); start += n {
		end := start + n
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
