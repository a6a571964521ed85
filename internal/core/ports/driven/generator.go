package driven

import (
	"context"

	"github.com/custodia-labs/ragserve/internal/core/domain"
)

// Generator produces an answer from a composed prompt.
//
// The call is bounded by the adapter's configured timeout. Outcomes are
// typed rather than inferred from error values:
//
//   - endpoint reachable, text generated: GenerationOK, nil error
//   - endpoint unreachable (connection refused, no such host):
//     GenerationDegraded, nil error - the caller substitutes a fallback
//   - any other transport or protocol failure: zero Generation and an
//     error wrapping domain.ErrGenerationFailed
//
// No retries are performed at any layer.
type Generator interface {
	// Generate sends the prompt to the generation endpoint.
	Generate(ctx context.Context, prompt string) (domain.Generation, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the endpoint is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
