package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vozlab/asistente-backend/internal/voicesession"
)

// sessionStore defines the minimal interface needed by SessionHandler.
type sessionStore interface {
	Get(id uuid.UUID) (voicesession.Session, error)
	Apply(id uuid.UUID, event voicesession.Event) (voicesession.Session, error)
}

// SessionHandler serves voice-session state machine REST endpoints.
type SessionHandler struct {
	store sessionStore
	log   *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(store sessionStore, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{store: store, log: logger.With("handler", "session")}
}

type sessionEventRequest struct {
	Event string `json:"event"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Event handles POST /session/{id}/event.
func (h *SessionHandler) Event(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req sessionEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.store.Apply(id, voicesession.Event(req.Event))
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

// Get handles GET /session/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	sess, err := h.store.Get(id)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

func toSessionResponse(sess voicesession.Session) sessionResponse {
	return sessionResponse{
		ID:        sess.ID.String(),
		State:     string(sess.State),
		UpdatedAt: sess.UpdatedAt,
	}
}
