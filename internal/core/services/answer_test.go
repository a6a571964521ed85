package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragserve/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragserve/internal/core/domain"
)

func seedChunks(t *testing.T, store *memory.Store, chunks ...domain.Chunk) {
	t.Helper()
	for i := range chunks {
		require.NoError(t, store.InsertChunk(context.Background(), &chunks[i]))
	}
}

func TestAnswer_HappyPath(t *testing.T) {
	store := memory.NewStore()
	seedChunks(t, store,
		domain.Chunk{ID: "1", Filename: "go.txt", Content: "Go is a language", Embedding: []float32{1, 1, 0, 0}},
		domain.Chunk{ID: "2", Filename: "go.txt", Content: "Go has goroutines", Embedding: []float32{1, 0.9, 0, 0}},
		domain.Chunk{ID: "3", Filename: "other.txt", Content: "Cats sleep a lot", Embedding: []float32{0, 0, 1, 0}},
	)

	gen := &mockGenerator{generation: domain.Generation{Status: domain.GenerationOK, Text: "Go is a programming language."}}
	svc := NewAnswerService(&mockEmbedder{}, store, store, gen)

	answer, err := svc.Answer(context.Background(), "what is go", 2)
	require.NoError(t, err)
	assert.Equal(t, "Go is a programming language.", answer.Text)
	assert.False(t, answer.Degraded)
	assert.False(t, answer.CreatedAt.IsZero())

	// Both retrieved chunks come from the same file: sources deduplicated.
	assert.Equal(t, []string{"go.txt"}, answer.Sources)

	// The prompt embeds the retrieved chunk text verbatim.
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Go is a language")
	assert.Contains(t, gen.prompts[0], "what is go")

	// The exchange was recorded.
	records, err := store.ListHistory(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "what is go", records[0].Question)
	assert.Equal(t, answer.Text, records[0].Answer)
	assert.Equal(t, answer.Sources, records[0].Sources)
}

func TestAnswer_EmptyStore(t *testing.T) {
	store := memory.NewStore()
	svc := NewAnswerService(&mockEmbedder{}, store, store, &mockGenerator{})

	_, err := svc.Answer(context.Background(), "anything", 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	records, listErr := store.ListHistory(context.Background(), 10)
	require.NoError(t, listErr)
	assert.Empty(t, records, "no history written when retrieval finds nothing")
}

func TestAnswer_DegradedGeneration(t *testing.T) {
	store := memory.NewStore()
	content := strings.Repeat("word ", 100) // 500 chars of context
	seedChunks(t, store,
		domain.Chunk{ID: "1", Filename: "notes.txt", Content: strings.TrimSpace(content), Embedding: []float32{1, 1, 0, 0}},
	)

	gen := &mockGenerator{generation: domain.Generation{Status: domain.GenerationDegraded}}
	svc := NewAnswerService(&mockEmbedder{}, store, store, gen)

	answer, err := svc.Answer(context.Background(), "what now", 3)
	require.NoError(t, err, "unreachable generator degrades instead of failing")
	assert.True(t, answer.Degraded)
	assert.Contains(t, answer.Text, "word word", "degraded answer quotes the retrieved context")
	assert.True(t, strings.HasSuffix(answer.Text, "..."))
	assert.Less(t, len(answer.Text), 300, "excerpt is truncated")

	// History is written even for degraded answers.
	records, err := store.ListHistory(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, answer.Text, records[0].Answer)
}

func TestAnswer_GenerationFailed(t *testing.T) {
	store := memory.NewStore()
	seedChunks(t, store,
		domain.Chunk{ID: "1", Filename: "a.txt", Content: "x", Embedding: []float32{1, 0, 0, 0}},
	)

	gen := &mockGenerator{genErr: domain.ErrGenerationFailed}
	svc := NewAnswerService(&mockEmbedder{}, store, store, gen)

	_, err := svc.Answer(context.Background(), "q", 3)
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)

	records, listErr := store.ListHistory(context.Background(), 10)
	require.NoError(t, listErr)
	assert.Empty(t, records)
}

func TestAnswer_EmptyQuestion(t *testing.T) {
	store := memory.NewStore()
	svc := NewAnswerService(&mockEmbedder{}, store, store, &mockGenerator{})

	_, err := svc.Answer(context.Background(), "   ", 3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnswer_DefaultTopK(t *testing.T) {
	store := memory.NewStore()
	// The mock embeds "q" as [1,1,0,0]; chunk i sits at [1,i,0,0], so
	// similarity ranks chunk1 first, then chunk2, chunk3, chunk4, chunk0.
	for i := 0; i < 5; i++ {
		seedChunks(t, store, domain.Chunk{
			ID: string(rune('a' + i)), Filename: "f.txt",
			Content:   "chunk" + string(rune('0'+i)),
			Embedding: []float32{1, float32(i), 0, 0},
		})
	}

	gen := &mockGenerator{generation: domain.Generation{Status: domain.GenerationOK, Text: "ok"}}
	svc := NewAnswerService(&mockEmbedder{}, store, store, gen)

	answer, err := svc.Answer(context.Background(), "q", 0)
	require.NoError(t, err)
	assert.NotNil(t, answer)

	// Default topK of 3: the three nearest chunks and nothing else.
	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "chunk1")
	assert.Contains(t, prompt, "chunk2")
	assert.Contains(t, prompt, "chunk3")
	assert.NotContains(t, prompt, "chunk0")
	assert.NotContains(t, prompt, "chunk4")
}

func TestAnswer_ConfiguredTopK(t *testing.T) {
	store := memory.NewStore()
	for i := 0; i < 5; i++ {
		seedChunks(t, store, domain.Chunk{
			ID: string(rune('a' + i)), Filename: "f.txt",
			Content:   "chunk" + string(rune('0'+i)),
			Embedding: []float32{1, float32(i), 0, 0},
		})
	}

	gen := &mockGenerator{generation: domain.Generation{Status: domain.GenerationOK, Text: "ok"}}
	svc := NewAnswerService(&mockEmbedder{}, store, store, gen, WithDefaultTopK(1))

	_, err := svc.Answer(context.Background(), "q", 0)
	require.NoError(t, err)

	// Configured default of 1: only the single nearest chunk.
	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "chunk1")
	assert.NotContains(t, prompt, "chunk2")

	// An explicit request value still wins over the configured default.
	gen.prompts = nil
	_, err = svc.Answer(context.Background(), "q", 2)
	require.NoError(t, err)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "chunk2")
}
