package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragserve/internal/core/domain"
	"github.com/custodia-labs/ragserve/internal/core/ports/driven"
	"github.com/custodia-labs/ragserve/internal/core/ports/driving"
	"github.com/custodia-labs/ragserve/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// DefaultTopK is the number of chunks retrieved when the caller does
// not specify one.
const DefaultTopK = 3

// degradedExcerptLen bounds the fallback answer when the generation
// endpoint is unreachable.
const degradedExcerptLen = 200

// answerPrompt is the template the retrieved context and question are
// composed into. The context is embedded verbatim.
const answerPrompt = `Answer the following question using only the information provided below. If the information does not contain the answer, reply "No information found".

Information:
%s

Question: %s

Answer:`

// AnswerService answers questions against the ingested corpus.
type AnswerService struct {
	embedder    driven.EmbeddingService
	chunks      driven.ChunkStore
	history     driven.HistoryStore
	generator   driven.Generator
	defaultTopK int
}

// AnswerOption configures the answer service.
type AnswerOption func(*AnswerService)

// WithDefaultTopK sets the retrieval depth used when a request does
// not specify one. Non-positive values are ignored.
func WithDefaultTopK(k int) AnswerOption {
	return func(s *AnswerService) {
		if k > 0 {
			s.defaultTopK = k
		}
	}
}

// NewAnswerService creates a new answer service.
func NewAnswerService(
	embedder driven.EmbeddingService,
	chunks driven.ChunkStore,
	history driven.HistoryStore,
	generator driven.Generator,
	opts ...AnswerOption,
) *AnswerService {
	s := &AnswerService{
		embedder:    embedder,
		chunks:      chunks,
		history:     history,
		generator:   generator,
		defaultTopK: DefaultTopK,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer embeds the question, retrieves the topK nearest chunks,
// composes a prompt and asks the generator. The exchange is appended
// to the history log, including degraded answers.
func (s *AnswerService) Answer(ctx context.Context, question string, topK int) (*domain.Answer, error) {
	logger.Section("Answer")
	logger.Debug("Question: %q", question)

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question: %w", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}

	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	retrieved, err := s.chunks.Search(ctx, embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	logger.Debug("Retrieved %d chunks (best similarity %.3f)", len(retrieved), retrieved[0].Similarity)

	contents := make([]string, len(retrieved))
	for i := range retrieved {
		contents[i] = retrieved[i].Content
	}
	contextText := strings.Join(contents, "\n\n")
	sources := dedupeSources(retrieved)

	prompt := fmt.Sprintf(answerPrompt, contextText, question)

	gen, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	answer := domain.Answer{
		Sources:   sources,
		CreatedAt: time.Now(),
	}
	switch gen.Status {
	case domain.GenerationDegraded:
		logger.Warn("generation endpoint unreachable, using context excerpt")
		answer.Text = degradedAnswer(contextText)
		answer.Degraded = true
	default:
		answer.Text = gen.Text
	}

	record := domain.HistoryRecord{
		ID:        uuid.New().String(),
		Question:  question,
		Answer:    answer.Text,
		Sources:   sources,
		CreatedAt: answer.CreatedAt,
	}
	if err := s.history.InsertHistory(ctx, &record); err != nil {
		return nil, fmt.Errorf("record history: %w", err)
	}

	logger.Info("Answered from sources: %s", strings.Join(sources, ", "))
	return &answer, nil
}

// dedupeSources returns the distinct filenames in retrieval order.
func dedupeSources(chunks []domain.ScoredChunk) []string {
	seen := make(map[string]bool, len(chunks))
	sources := make([]string, 0, len(chunks))
	for i := range chunks {
		if name := chunks[i].Filename; !seen[name] {
			seen[name] = true
			sources = append(sources, name)
		}
	}
	return sources
}

// degradedAnswer builds the fallback answer from the retrieved context.
func degradedAnswer(contextText string) string {
	excerpt := []rune(contextText)
	if len(excerpt) > degradedExcerptLen {
		excerpt = excerpt[:degradedExcerptLen]
	}
	return fmt.Sprintf("Based on the stored documents: %s...", string(excerpt))
}
