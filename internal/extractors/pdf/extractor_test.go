package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportedExtensions(t *testing.T) {
	assert.Equal(t, []string{".pdf"}, New().SupportedExtensions())
}

func TestExtract_Malformed(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), "broken.pdf", []byte("not a pdf at all"))
	assert.Error(t, err)
}
