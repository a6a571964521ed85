package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragserve/internal/core/domain"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Contains(t, req.Prompt, "question")

		_ = json.NewEncoder(w).Encode(generateResponse{Response: "the answer", Done: true})
	}))
	defer srv.Close()

	g := NewGenerator(Config{BaseURL: srv.URL})

	gen, err := g.Generate(context.Background(), "some question")
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationOK, gen.Status)
	assert.Equal(t, "the answer", gen.Text)
}

func TestGenerate_EndpointUnreachable(t *testing.T) {
	// Grab a port that nothing is listening on.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g := NewGenerator(Config{BaseURL: url})

	gen, err := g.Generate(context.Background(), "some question")
	require.NoError(t, err, "unreachable endpoint must degrade, not error")
	assert.Equal(t, domain.GenerationDegraded, gen.Status)
	assert.Empty(t, gen.Text)
}

func TestGenerate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewGenerator(Config{BaseURL: srv.URL})

	_, err := g.Generate(context.Background(), "question")
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestGenerate_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	g := NewGenerator(Config{BaseURL: srv.URL})

	_, err := g.Generate(context.Background(), "question")
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestDefaults(t *testing.T) {
	g := NewGenerator(Config{})
	assert.Equal(t, DefaultModel, g.ModelName())
}
