// Package assistant runs the command pipeline: classify, execute, journal.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/vozlab/asistente-backend/internal/adapter/provider/speech"
	"github.com/vozlab/asistente-backend/internal/assistant"
	"github.com/vozlab/asistente-backend/internal/config"
	"github.com/vozlab/asistente-backend/internal/domain"
	"github.com/vozlab/asistente-backend/internal/journal"
	"github.com/vozlab/asistente-backend/pkg/ctxutil"
)

// unrecognizedResponse is returned when the speech service heard nothing
// intelligible. Such attempts are not journaled.
const unrecognizedResponse = "No te he entendido"

// executor runs a classified intent.
type executor interface {
	Execute(ctx context.Context, intent domain.Intent, utterance string) assistant.Result
}

// journaler records interactions off the request path.
type journaler interface {
	Enqueue(e journal.Entry)
}

// transcriber converts audio to text.
type transcriber interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
}

// CommandResult is the outcome of one submitted command.
type CommandResult struct {
	Utterance string
	Intent    domain.Intent
	Response  string
	URL       *string
	Success   bool
}

// AudioResult is the outcome of one audio submission. Executed reports
// whether a command was dispatched; the command itself runs detached and its
// result lands in the journal only.
type AudioResult struct {
	Transcript string
	Response   string
	Executed   bool
}

// Service implements the assistant command pipeline.
type Service struct {
	log     *slog.Logger
	exec    executor
	journal journaler
	speech  transcriber
	cfg     config.AssistantConfig

	// spawn runs fn detached from the request; replaced in tests.
	spawn func(fn func())
}

// NewService creates a new assistant service instance.
func NewService(
	logger *slog.Logger,
	exec executor,
	jrnl journaler,
	speech transcriber,
	cfg config.AssistantConfig,
) *Service {
	return &Service{
		log:     logger.With("service", "assistant"),
		exec:    exec,
		journal: jrnl,
		speech:  speech,
		cfg:     cfg,
		spawn:   func(fn func()) { go fn() },
	}
}

// SubmitCommand classifies and executes one text command, journaling the
// outcome. The identity in ctx, when present, scopes the history record;
// anonymous commands are journaled without a user.
func (s *Service) SubmitCommand(ctx context.Context, text string) (*CommandResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("text", "required")
	}

	intent := assistant.Classify(text)
	res := s.exec.Execute(ctx, intent, text)

	result := &CommandResult{
		Utterance: text,
		Intent:    intent,
		Response:  res.Response,
		URL:       res.URL,
		Success:   res.Success,
	}

	s.journalResult(ctx, result)

	s.log.InfoContext(ctx, "command executed",
		slog.String("intent", intent.String()),
		slog.Bool("success", res.Success))

	return result, nil
}

// SubmitAudio transcribes the audio, returns the transcript right away and
// executes the command in the background. Unrecognized speech returns a
// canned response without touching the journal; it never counts as an
// interaction.
func (s *Service) SubmitAudio(ctx context.Context, audio []byte, contentType string) (*AudioResult, error) {
	if len(audio) == 0 {
		return nil, domain.NewValidationError("audio", "required")
	}

	text, err := s.speech.Transcribe(ctx, audio, contentType)
	if err != nil {
		if errors.Is(err, speech.ErrUnrecognized) {
			return &AudioResult{Response: unrecognizedResponse}, nil
		}
		return nil, fmt.Errorf("assistant.SubmitAudio transcribe: %w", err)
	}

	// Detach from the request context but keep the resolved identity.
	bgCtx := context.Background()
	if userID, ok := ctxutil.UserIDFromCtx(ctx); ok {
		bgCtx = ctxutil.WithUserID(bgCtx, userID)
	}

	s.spawn(func() {
		if _, err := s.SubmitCommand(bgCtx, text); err != nil {
			s.log.ErrorContext(bgCtx, "background command failed",
				slog.String("error", err.Error()))
		}
	})

	return &AudioResult{Transcript: text, Executed: true}, nil
}

// journalResult hands the outcome to the fire-and-forget journal, honoring
// the unknown-command toggle.
func (s *Service) journalResult(ctx context.Context, r *CommandResult) {
	if r.Intent == domain.IntentUnknown && !s.cfg.LogUnknown {
		return
	}

	var userID *uuid.UUID
	if id, ok := ctxutil.UserIDFromCtx(ctx); ok {
		userID = &id
	}

	s.journal.Enqueue(journal.Entry{
		UserID:    userID,
		Utterance: r.Utterance,
		Intent:    r.Intent,
		Response:  r.Response,
		Success:   r.Success,
	})
}
