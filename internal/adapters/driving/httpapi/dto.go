package httpapi

// askRequest is the body of POST /ask.
type askRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

// askResponse is the body returned by POST /ask.
type askResponse struct {
	Answer    string   `json:"answer"`
	Sources   []string `json:"sources"`
	Timestamp string   `json:"timestamp"`
}

// uploadResponse is the body returned by POST /upload.
type uploadResponse struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks"`
	Message  string `json:"message"`
}

// historyEntry is one record in the GET /history response.
type historyEntry struct {
	ID        string   `json:"id"`
	Question  string   `json:"question"`
	Answer    string   `json:"answer"`
	Sources   []string `json:"sources"`
	CreatedAt string   `json:"created_at"`
}

// documentEntry is one record in the GET /documents response.
type documentEntry struct {
	Filename   string `json:"filename"`
	Chunks     int    `json:"chunks"`
	UploadedAt string `json:"uploaded_at"`
}

// rootResponse is the service descriptor returned by GET /.
type rootResponse struct {
	Message string `json:"message"`
	Health  string `json:"health"`
}

// healthResponse is the body returned by GET /health. It reports the
// state observed at startup and performs no new I/O.
type healthResponse struct {
	Status         string `json:"status"`
	Database       string `json:"database"`
	EmbeddingModel string `json:"embedding_model"`
	Ollama         string `json:"ollama"`
	Timestamp      string `json:"timestamp"`
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}
