package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragserve/internal/core/domain"
)

func TestSearch_EmptyStore(t *testing.T) {
	s := NewStore()

	_, err := s.Search(context.Background(), []float32{1, 0}, 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearch_OrderedBySimilarity(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	// Orthogonal, aligned and opposite vectors relative to the query.
	chunks := []domain.Chunk{
		{ID: "orthogonal", Filename: "a.txt", Content: "a", Embedding: []float32{0, 1}},
		{ID: "aligned", Filename: "b.txt", Content: "b", Embedding: []float32{2, 0}},
		{ID: "diagonal", Filename: "c.txt", Content: "c", Embedding: []float32{1, 1}},
	}
	for i := range chunks {
		require.NoError(t, s.InsertChunk(ctx, &chunks[i]))
	}

	results, err := s.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "aligned", results[0].ID)
	assert.Equal(t, "diagonal", results[1].ID)
	assert.Equal(t, "orthogonal", results[2].ID)

	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Similarity, results[i-1].Similarity)
	}
}

func TestSearch_KBound(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.InsertChunk(ctx, &domain.Chunk{
			ID: string(rune('a' + i)), Filename: "f.txt", Embedding: []float32{1, float32(i)},
		}))
	}

	results, err := s.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// k larger than the store is capped, not an error.
	results, err = s.Search(ctx, []float32{1, 0}, 50)
	require.NoError(t, err)
	assert.Len(t, results, 5)
}

func TestInsertChunk_NoDeduplication(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	chunk := domain.Chunk{ID: "c1", Filename: "notes.txt", Content: "hello world", Embedding: []float32{1}}
	require.NoError(t, s.InsertChunk(ctx, &chunk))
	require.NoError(t, s.InsertChunk(ctx, &chunk))

	docs, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 2, docs[0].Chunks, "re-uploading duplicates chunks")
}

func TestListDocuments_NewestFirst(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, s.InsertChunk(ctx, &domain.Chunk{
		ID: "1", Filename: "old.txt", Embedding: []float32{1}, UploadedAt: base.Add(-time.Hour),
	}))
	require.NoError(t, s.InsertChunk(ctx, &domain.Chunk{
		ID: "2", Filename: "new.txt", Embedding: []float32{1}, UploadedAt: base,
	}))

	docs, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "new.txt", docs[0].Filename)
	assert.Equal(t, "old.txt", docs[1].Filename)
}

func TestListHistory_LimitNewestFirst(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.InsertHistory(ctx, &domain.HistoryRecord{
			ID:        string(rune('a' + i)),
			Question:  "q",
			Answer:    "a",
			Sources:   []string{"f.txt"},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := s.ListHistory(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
}

func TestListHistory_TimestampTies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	// All records share one timestamp; insertion order must decide.
	at := time.Now()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.InsertHistory(ctx, &domain.HistoryRecord{
			ID: id, Question: "q", Answer: "a", CreatedAt: at,
		}))
	}

	records, err := s.ListHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "c", records[0].ID, "latest insert wins the tie")

	records, err = s.ListHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"c", "b", "a"},
		[]string{records[0].ID, records[1].ID, records[2].ID})
}

func TestListHistory_Empty(t *testing.T) {
	s := NewStore()

	records, err := s.ListHistory(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
