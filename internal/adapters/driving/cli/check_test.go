package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckCmd_Use(t *testing.T) {
	assert.Equal(t, "check", checkCmd.Use)
}

func TestCheckCmd_SQLiteAndOllamaUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	t.Setenv("RAGSERVE_STORE", "sqlite")
	t.Setenv("RAGSERVE_SQLITE_PATH", filepath.Join(t.TempDir(), "check.db"))
	t.Setenv("OLLAMA_URL", srv.URL)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"check"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "All checks passed")
}

func TestCheckCmd_PostgresDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	t.Setenv("RAGSERVE_STORE", "postgres")
	t.Setenv("DATABASE_URL", "postgresql://u:p@127.0.0.1:1/db?connect_timeout=1&sslmode=disable")
	t.Setenv("OLLAMA_URL", srv.URL)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"check"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, buf.String(), "FAIL  connect")
}

func TestCheckCmd_OllamaDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv.Close() // connection refused from here on

	t.Setenv("RAGSERVE_STORE", "memory")
	t.Setenv("OLLAMA_URL", srv.URL)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"check"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, buf.String(), "FAIL")
}
