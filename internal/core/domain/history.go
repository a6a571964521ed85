package domain

import "time"

// HistoryRecord is one answered question. Records are immutable once
// written; the history is an append-only log.
type HistoryRecord struct {
	// ID is the unique identifier for the record.
	ID string

	// Question is the question text as asked.
	Question string

	// Answer is the generated (or degraded fallback) answer.
	Answer string

	// Sources are the distinct filenames the answer was drawn from,
	// in retrieval order.
	Sources []string

	// CreatedAt is when the question was answered.
	CreatedAt time.Time
}

// Answer is the response to an asked question.
type Answer struct {
	// Text is the answer text.
	Text string

	// Sources are the distinct filenames of the retrieved chunks,
	// in retrieval order.
	Sources []string

	// Degraded is true when the generation endpoint was unreachable
	// and Text is a truncated excerpt of the retrieved context.
	Degraded bool

	// CreatedAt is when the answer was produced.
	CreatedAt time.Time
}
