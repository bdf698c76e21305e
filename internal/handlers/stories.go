package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/rok/pkg/storage"
)

type StoryHandler struct {
	log     *slog.Logger
	storage storage.Storage
}

func NewStoryHandler(log *slog.Logger, storage storage.Storage) *StoryHandler {
	return &StoryHandler{
		log:     log,
		storage: storage,
	}
}

// ServeHTTP lists available stories.
// GET /v1/stories -> {"Story Name": "file.json"}
func (h *StoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET")
		return
	}

	stories, err := h.storage.ListStories(r.Context())
	if err != nil {
		h.log.Error("Failed to list stories", "error", err)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to list stories")
		return
	}

	writeJSON(w, h.log, http.StatusOK, stories)
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string   `json:"error"`
	Verbs []string `json:"verbs,omitempty"`
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, status int, msg string) {
	writeJSON(w, log, status, ErrorResponse{Error: msg})
}
