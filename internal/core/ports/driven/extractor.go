package driven

import "context"

// Extractor converts an uploaded payload into plain UTF-8 text.
// Each extractor handles specific file extensions (e.g. .pdf, .txt).
type Extractor interface {
	// SupportedExtensions returns the lower-case file extensions this
	// extractor handles, including the leading dot.
	SupportedExtensions() []string

	// Extract converts raw bytes into text. It returns
	// domain.ErrEmptyDocument when the result is empty or
	// all-whitespace.
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}

// ExtractorRegistry selects an extractor by file extension.
type ExtractorRegistry interface {
	// ForFilename returns the extractor for the file's extension, or
	// domain.ErrUnsupportedFormat when none is registered.
	ForFilename(filename string) (Extractor, error)
}
