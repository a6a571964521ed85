package driven

// Chunker splits extracted text into the overlapping windows that get
// embedded and stored. Implementations must be deterministic: the same
// text always yields the same chunks.
type Chunker interface {
	// Split returns the ordered chunks of text. Blank chunks are
	// dropped; empty text yields no chunks.
	Split(text string) []string
}
