// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Extractor: Converts uploaded bytes into plain text
//   - EmbeddingService: Generates vector embeddings
//   - Generator: Produces answers from composed prompts
//   - ChunkStore: Chunk persistence and similarity search
//   - HistoryStore: Question/answer history persistence
//
// The store interfaces are deliberately backend-agnostic: the primary
// backend is PostgreSQL with the pgvector extension, but an embedded
// SQLite backend and an in-memory backend implement the same contracts.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
