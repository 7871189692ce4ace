package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vozlab/asistente-backend/internal/domain"
	"github.com/vozlab/asistente-backend/internal/service/history"
)

// historyService defines the minimal interface needed by HistoryHandler.
type historyService interface {
	List(ctx context.Context, search string) ([]*domain.Interaction, error)
	Update(ctx context.Context, id uuid.UUID, input history.UpdateInput) (*domain.Interaction, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	Purge(ctx context.Context, id uuid.UUID) error
	ReportRows(ctx context.Context) ([]domain.ReportRow, error)
}

// HistoryHandler serves interaction-history REST endpoints.
type HistoryHandler struct {
	svc historyService
	log *slog.Logger
}

// NewHistoryHandler creates a HistoryHandler.
func NewHistoryHandler(svc historyService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{svc: svc, log: logger.With("handler", "history")}
}

type interactionResponse struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"userId,omitempty"`
	Utterance string    `json:"utterance"`
	Intent    string    `json:"intent"`
	Response  string    `json:"response"`
	Success   bool      `json:"success"`
	CreatedAt time.Time `json:"createdAt"`
}

type historyUpdateRequest struct {
	Utterance *string `json:"utterance"`
	Response  *string `json:"response"`
}

type reportRowResponse struct {
	CreatedAt time.Time `json:"createdAt"`
	UserName  string    `json:"userName"`
	Utterance string    `json:"utterance"`
	Response  string    `json:"response"`
}

// List handles GET /history?search=.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	out := make([]interactionResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toInteractionResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

// Update handles PUT /history/{id}.
func (h *HistoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req historyUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.svc.Update(r.Context(), id, history.UpdateInput{
		Utterance: req.Utterance,
		Response:  req.Response,
	})
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toInteractionResponse(rec))
}

// SoftDelete handles DELETE /history/{id}.
func (h *HistoryHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.SoftDelete(r.Context(), id); err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Restore handles POST /history/{id}/restore.
func (h *HistoryHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Restore(r.Context(), id); err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

// Purge handles DELETE /history/{id}/purge.
func (h *HistoryHandler) Purge(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Purge(r.Context(), id); err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "purged"})
}

// Report handles GET /history/report.
func (h *HistoryHandler) Report(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ReportRows(r.Context())
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	out := make([]reportRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, reportRowResponse{
			CreatedAt: row.CreatedAt,
			UserName:  row.UserName,
			Utterance: row.Utterance,
			Response:  row.Response,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func toInteractionResponse(rec *domain.Interaction) interactionResponse {
	resp := interactionResponse{
		ID:        rec.ID.String(),
		Utterance: rec.Utterance,
		Intent:    rec.Intent.String(),
		Response:  rec.Response,
		Success:   rec.Success,
		CreatedAt: rec.CreatedAt,
	}
	if rec.UserID != nil {
		s := rec.UserID.String()
		resp.UserID = &s
	}
	return resp
}
