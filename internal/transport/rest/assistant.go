package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/vozlab/asistente-backend/internal/service/assistant"
)

// maxAudioBytes caps the audio upload size.
const maxAudioBytes = 10 << 20 // 10 MiB

// assistantService defines the minimal interface needed by AssistantHandler.
type assistantService interface {
	SubmitCommand(ctx context.Context, text string) (*assistant.CommandResult, error)
	SubmitAudio(ctx context.Context, audio []byte, contentType string) (*assistant.AudioResult, error)
}

// AssistantHandler serves the command pipeline REST endpoints.
type AssistantHandler struct {
	svc assistantService
	log *slog.Logger
}

// NewAssistantHandler creates an AssistantHandler.
func NewAssistantHandler(svc assistantService, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{svc: svc, log: logger.With("handler", "assistant")}
}

type commandRequest struct {
	Text string `json:"text"`
}

type commandResponse struct {
	Utterance string  `json:"utterance"`
	Intent    string  `json:"intent"`
	Response  string  `json:"response"`
	URL       *string `json:"url,omitempty"`
	Success   bool    `json:"success"`
}

type audioResponse struct {
	Text     string `json:"text"`
	Response string `json:"response,omitempty"`
	Executed bool   `json:"executed"`
}

// Command handles POST /assistant/command.
func (h *AssistantHandler) Command(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.SubmitCommand(r.Context(), req.Text)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commandResponse{
		Utterance: result.Utterance,
		Intent:    result.Intent.String(),
		Response:  result.Response,
		URL:       result.URL,
		Success:   result.Success,
	})
}

// Audio handles POST /assistant/audio (multipart field "audio"). The
// transcript comes back right away; the command itself runs detached.
func (h *AssistantHandler) Audio(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing audio file")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable audio file")
		return
	}

	result, err := h.svc.SubmitAudio(r.Context(), audio, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, audioResponse{
		Text:     result.Transcript,
		Response: result.Response,
		Executed: result.Executed,
	})
}
