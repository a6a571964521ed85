package extractors

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ragserve/internal/core/domain"
	"github.com/custodia-labs/ragserve/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry selects an extractor by file extension.
type Registry struct {
	byExtension map[string]driven.Extractor
}

// NewRegistry creates a registry holding the given extractors.
// Later registrations win when extensions collide.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{
		byExtension: make(map[string]driven.Extractor),
	}
	for _, e := range extractors {
		for _, ext := range e.SupportedExtensions() {
			r.byExtension[strings.ToLower(ext)] = e
		}
	}
	return r
}

// ForFilename returns the extractor registered for the file's extension.
func (r *Registry) ForFilename(filename string) (driven.Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	e, ok := r.byExtension[ext]
	if !ok {
		return nil, fmt.Errorf("no extractor for %q: %w", ext, domain.ErrUnsupportedFormat)
	}
	return e, nil
}
