package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/custodia-labs/ragserve/internal/core/domain"
	"github.com/custodia-labs/ragserve/internal/core/ports/driving"
	"github.com/custodia-labs/ragserve/internal/logger"
)

// maxUploadBytes bounds the in-memory portion of a multipart upload.
const maxUploadBytes = 32 << 20

// Status describes the dependency state reported by GET /health.
type Status struct {
	// DatabaseConnected is whether the store was reachable at startup.
	DatabaseConnected bool

	// ModelLoaded is whether the embedding endpoint answered at startup.
	ModelLoaded bool
}

// Handler serves the HTTP API. Services left nil respond with 503,
// which is how a degraded startup (no database) surfaces to callers.
type Handler struct {
	ingest  driving.IngestService
	answer  driving.AnswerService
	library driving.LibraryService
	status  func() Status
}

// NewHandler creates a handler over the given services. status reports
// dependency state for /health; a nil status reads as all-down.
func NewHandler(
	ingest driving.IngestService,
	answer driving.AnswerService,
	library driving.LibraryService,
	status func() Status,
) *Handler {
	if status == nil {
		status = func() Status { return Status{} }
	}
	return &Handler{
		ingest:  ingest,
		answer:  answer,
		library: library,
		status:  status,
	}
}

// Routes returns the API routes as an http.Handler.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", h.handleUpload)
	mux.HandleFunc("POST /ask", h.handleAsk)
	mux.HandleFunc("GET /history", h.handleHistory)
	mux.HandleFunc("GET /documents", h.handleDocuments)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /{$}", h.handleRoot)
	return mux
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if h.ingest == nil {
		writeError(w, domain.ErrServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, fmt.Errorf("parse multipart form: %w", domain.ErrInvalidInput))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, fmt.Errorf("missing file field: %w", domain.ErrInvalidInput))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, fmt.Errorf("read upload: %w", err))
		return
	}

	result, err := h.ingest.Ingest(r.Context(), header.Filename, data)
	if err != nil {
		logger.Error("upload %s: %v", header.Filename, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Status:   "success",
		Filename: result.Filename,
		Chunks:   result.Chunks,
		Message:  "Document uploaded and processed",
	})
}

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	if h.answer == nil {
		writeError(w, domain.ErrServiceUnavailable)
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("decode request: %w", domain.ErrInvalidInput))
		return
	}

	answer, err := h.answer.Answer(r.Context(), req.Question, req.TopK)
	if err != nil {
		logger.Error("ask %q: %v", req.Question, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, askResponse{
		Answer:    answer.Text,
		Sources:   answer.Sources,
		Timestamp: answer.CreatedAt.Format(time.RFC3339),
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if h.library == nil {
		writeError(w, domain.ErrServiceUnavailable)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, fmt.Errorf("limit %q: %w", raw, domain.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	records, err := h.library.History(r.Context(), limit)
	if err != nil {
		logger.Error("history: %v", err)
		writeError(w, err)
		return
	}

	entries := make([]historyEntry, len(records))
	for i, rec := range records {
		entries[i] = historyEntry{
			ID:        rec.ID,
			Question:  rec.Question,
			Answer:    rec.Answer,
			Sources:   rec.Sources,
			CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if h.library == nil {
		writeError(w, domain.ErrServiceUnavailable)
		return
	}

	docs, err := h.library.Documents(r.Context())
	if err != nil {
		logger.Error("documents: %v", err)
		writeError(w, err)
		return
	}

	entries := make([]documentEntry, len(docs))
	for i, doc := range docs {
		entries[i] = documentEntry{
			Filename:   doc.Filename,
			Chunks:     doc.Chunks,
			UploadedAt: doc.UploadedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Message: "RAG AI System API",
		Health:  "/health",
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := h.status()

	resp := healthResponse{
		Status:         "healthy",
		Database:       "disconnected",
		EmbeddingModel: "not loaded",
		Ollama:         "not checked",
		Timestamp:      time.Now().Format(time.RFC3339),
	}
	if status.DatabaseConnected {
		resp.Database = "connected"
	}
	if status.ModelLoaded {
		resp.EmbeddingModel = "loaded"
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeJSON serialises v with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response: %v", err)
	}
}

// writeError maps a service error onto an HTTP status code.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusCode(err), errorResponse{Error: err.Error()})
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrEmptyDocument),
		errors.Is(err, domain.ErrNoChunks),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
