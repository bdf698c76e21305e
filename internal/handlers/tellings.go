package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/rok/internal/logger"
	"github.com/jwebster45206/rok/internal/session"
	"github.com/jwebster45206/rok/pkg/storage"
	"github.com/jwebster45206/rok/pkg/telling"
	"github.com/jwebster45206/rok/pkg/textfilter"
)

// CreateTellingRequest defines the request body for starting a telling
type CreateTellingRequest struct {
	Story string `json:"story"` // Required: story filename
}

// ChoiceRequest defines the request body for applying a choice
type ChoiceRequest struct {
	Verb string `json:"verb"`
}

// TellingResponse describes a telling after a request
type TellingResponse struct {
	ID      uuid.UUID `json:"id"`
	Story   string    `json:"story"`
	Scene   string    `json:"scene"`
	Message string    `json:"message"`
	Running bool      `json:"running"`
	Verbs   []string  `json:"verbs"`
}

type TellingHandler struct {
	storage  storage.Storage
	sessions *session.Registry
	filter   *textfilter.Filter
	logger   *slog.Logger
}

func NewTellingHandler(logger *slog.Logger, storage storage.Storage, sessions *session.Registry, filter *textfilter.Filter) *TellingHandler {
	return &TellingHandler{
		storage:  storage,
		sessions: sessions,
		filter:   filter,
		logger:   logger,
	}
}

// ServeHTTP handles HTTP requests for tellings
// Routes:
// GET /v1/tellings                 - List telling IDs
// POST /v1/tellings                - Start a telling
// GET /v1/tellings/{id}            - Read a telling
// DELETE /v1/tellings/{id}         - End and forget a telling
// POST /v1/tellings/{id}/choices   - Apply a verb
func (h *TellingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/tellings"), "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, h.logger, http.StatusOK, h.sessions.IDs())
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, POST")
		}
		return
	}

	parts := strings.Split(path, "/")
	id, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid telling ID", "id", parts[0], "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid telling ID format")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleRead(w, id)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.handleDelete(w, id)
	case len(parts) == 2 && parts[1] == "choices" && r.Method == http.MethodPost:
		h.handleChoice(w, r, id)
	case len(parts) == 1, len(parts) == 2 && parts[1] == "choices":
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
	default:
		writeError(w, h.logger, http.StatusNotFound, "Not found")
	}
}

func (h *TellingHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateTellingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.Story == "" {
		writeError(w, h.logger, http.StatusBadRequest, "story is required")
		return
	}

	s, err := h.storage.GetStory(r.Context(), req.Story)
	if err != nil {
		if errors.Is(err, storage.ErrStoryNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Story not found")
			return
		}
		h.logger.Error("Failed to load story", "story", req.Story, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load story")
		return
	}

	id, snap, err := h.sessions.Create(req.Story, s)
	if err != nil {
		h.logger.Warn("Story cannot be told", "story", req.Story, "error", err)
		writeError(w, h.logger, http.StatusUnprocessableEntity, err.Error())
		return
	}

	logger.WithTellingID(h.logger, id).Info("Telling started", "story", req.Story)
	writeJSON(w, h.logger, http.StatusCreated, h.response(id, req.Story, snap))
}

func (h *TellingHandler) handleRead(w http.ResponseWriter, id uuid.UUID) {
	sess, snap, err := h.sessions.Get(id)
	if err != nil {
		writeError(w, h.logger, http.StatusNotFound, "Telling not found")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.response(id, sess.StoryFile, snap))
}

func (h *TellingHandler) handleDelete(w http.ResponseWriter, id uuid.UUID) {
	if err := h.sessions.Delete(id); err != nil {
		writeError(w, h.logger, http.StatusNotFound, "Telling not found")
		return
	}
	logger.WithTellingID(h.logger, id).Info("Telling deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *TellingHandler) handleChoice(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req ChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	sess, _, err := h.sessions.Get(id)
	if err != nil {
		writeError(w, h.logger, http.StatusNotFound, "Telling not found")
		return
	}

	log := logger.WithTellingID(h.logger, id)
	snap, err := h.sessions.Apply(id, req.Verb)
	switch {
	case err == nil:
		log.Debug("Choice applied", "verb", req.Verb, "scene", snap.Scene, "running", snap.Running)
		writeJSON(w, h.logger, http.StatusOK, h.response(id, sess.StoryFile, snap))
	case errors.Is(err, telling.ErrChoiceNotFound):
		writeJSON(w, h.logger, http.StatusNotFound, ErrorResponse{Error: err.Error(), Verbs: snap.Verbs})
	case errors.Is(err, telling.ErrSceneNotFound):
		logger.WithError(log, err).Warn("Story has a dangling destination", "verb", req.Verb)
		writeError(w, h.logger, http.StatusConflict, err.Error())
	case errors.Is(err, telling.ErrStopped):
		writeError(w, h.logger, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrSessionNotFound):
		writeError(w, h.logger, http.StatusNotFound, "Telling not found")
	default:
		logger.WithError(log, err).Error("Failed to apply choice")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to apply choice")
	}
}

func (h *TellingHandler) response(id uuid.UUID, storyFile string, snap telling.Snapshot) TellingResponse {
	return TellingResponse{
		ID:      id,
		Story:   storyFile,
		Scene:   snap.Scene,
		Message: h.filter.Apply(snap.Message),
		Running: snap.Running,
		Verbs:   snap.Verbs,
	}
}
