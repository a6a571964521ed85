// Package domain defines the core business entities for ragserve.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: An embedded window of a document's words, the unit of retrieval
//   - ScoredChunk: A chunk annotated with a similarity score
//   - HistoryRecord: One answered question with its sources
//   - DocumentInfo: Per-file ingestion summary
//   - Generation: The typed outcome of a generation call
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
