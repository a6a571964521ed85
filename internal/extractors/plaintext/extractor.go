// Package plaintext extracts text from plain .txt uploads.
package plaintext

import (
	"context"
	"strings"

	"github.com/custodia-labs/ragserve/internal/core/domain"
	"github.com/custodia-labs/ragserve/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text documents. Bytes are taken as UTF-8
// verbatim; no encoding detection is attempted.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".txt"}
}

// Extract decodes the payload as UTF-8 text.
func (e *Extractor) Extract(_ context.Context, filename string, data []byte) (string, error) {
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyDocument
	}
	return text, nil
}
