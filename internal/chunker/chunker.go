// Package chunker provides a fixed-size word-window text chunker.
package chunker

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/ragserve/internal/core/domain"
)

// DefaultChunkSize is the default number of words per chunk.
const DefaultChunkSize = 500

// DefaultOverlap is the default number of overlapping words.
const DefaultOverlap = 50

// Chunker splits text into overlapping fixed-size word windows.
// It is a pure function of its inputs: the same text, chunk size and
// overlap always produce the same chunks.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in words.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in words.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options. An overlap greater than
// or equal to the chunk size would stall the window, so it is rejected
// here rather than detected mid-split.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.overlap >= c.chunkSize {
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d: %w",
			c.overlap, c.chunkSize, domain.ErrInvalidInput)
	}

	return c, nil
}

// ChunkSize returns the configured chunk size in words.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap in words.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split divides text into space-joined windows of chunkSize words,
// each window starting chunkSize-overlap words after the previous one.
// The final chunk may be shorter; blank chunks are dropped. A text with
// fewer words than the chunk size produces exactly one chunk.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.chunkSize - c.overlap
	chunks := make([]string, 0, len(words)/step+1)

	for start := 0; start < len(words); start += step {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}

		chunk := strings.Join(words[start:end], " ")
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}

	return chunks
}
