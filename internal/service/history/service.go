// Package history exposes the interaction history: listing, edits, soft
// deletion and the report rows handed to the export collaborator.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/vozlab/asistente-backend/internal/domain"
	"github.com/vozlab/asistente-backend/pkg/ctxutil"
)

// reportTextCap is the display cap for report row text fields.
const reportTextCap = 80

// anonymousName labels report rows of commands issued without a login.
const anonymousName = "anónimo"

// interactionRepo defines the repository interface needed by the history service.
type interactionRepo interface {
	List(ctx context.Context, userID *uuid.UUID, textFilter string) ([]*domain.Interaction, error)
	Update(ctx context.Context, id uuid.UUID, userID *uuid.UUID, upd domain.InteractionUpdate) (*domain.Interaction, error)
	SetActive(ctx context.Context, id uuid.UUID, userID *uuid.UUID, active bool) (bool, error)
	Purge(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (bool, error)
}

// userRepo resolves display names for report rows.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Service implements history operations.
type Service struct {
	log          *slog.Logger
	interactions interactionRepo
	users        userRepo
}

// NewService creates a new history service instance.
func NewService(logger *slog.Logger, interactions interactionRepo, users userRepo) *Service {
	return &Service{
		log:          logger.With("service", "history"),
		interactions: interactions,
		users:        users,
	}
}

// scope resolves the caller to a repository scope. Regular users see only
// their own records; admins operate unscoped.
func scope(ctx context.Context) (*uuid.UUID, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if domain.UserRole(ctxutil.UserRoleFromCtx(ctx)).IsAdmin() {
		return nil, nil
	}
	return &userID, nil
}

// List returns the caller's active records newest first, optionally filtered
// by a case-insensitive substring of the utterance.
func (s *Service) List(ctx context.Context, search string) ([]*domain.Interaction, error) {
	userID, err := scope(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.interactions.List(ctx, userID, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("history.List: %w", err)
	}
	return records, nil
}

// UpdateInput carries the editable fields of a history record.
type UpdateInput struct {
	Utterance *string
	Response  *string
}

// Validate validates the update input.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.Utterance == nil && i.Response == nil {
		errs = append(errs, domain.FieldError{Field: "body", Message: "no fields to update"})
	}
	if i.Utterance != nil && strings.TrimSpace(*i.Utterance) == "" {
		errs = append(errs, domain.FieldError{Field: "utterance", Message: "must not be blank"})
	}
	if i.Response != nil && strings.TrimSpace(*i.Response) == "" {
		errs = append(errs, domain.FieldError{Field: "response", Message: "must not be blank"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Update edits the mutable fields of one record. The intent tag and
// timestamp are immutable.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.Interaction, error) {
	userID, err := scope(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.interactions.Update(ctx, id, userID, domain.InteractionUpdate{
		Utterance: input.Utterance,
		Response:  input.Response,
	})
	if err != nil {
		return nil, fmt.Errorf("history.Update: %w", err)
	}

	s.log.InfoContext(ctx, "history record updated", slog.String("id", id.String()))
	return rec, nil
}

// SoftDelete hides a record from listings and aggregates. Deleting an
// already-deleted record succeeds; a missing record is ErrNotFound.
func (s *Service) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, false)
}

// Restore brings a soft-deleted record back.
func (s *Service) Restore(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, true)
}

func (s *Service) setActive(ctx context.Context, id uuid.UUID, active bool) error {
	userID, err := scope(ctx)
	if err != nil {
		return err
	}

	found, err := s.interactions.SetActive(ctx, id, userID, active)
	if err != nil {
		return fmt.Errorf("history.setActive: %w", err)
	}
	if !found {
		return fmt.Errorf("interaction %v: %w", id, domain.ErrNotFound)
	}

	s.log.InfoContext(ctx, "history record flag changed",
		slog.String("id", id.String()), slog.Bool("active", active))
	return nil
}

// Purge removes a record permanently, soft-deleted or not.
func (s *Service) Purge(ctx context.Context, id uuid.UUID) error {
	userID, err := scope(ctx)
	if err != nil {
		return err
	}

	found, err := s.interactions.Purge(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("history.Purge: %w", err)
	}
	if !found {
		return fmt.Errorf("interaction %v: %w", id, domain.ErrNotFound)
	}

	s.log.InfoContext(ctx, "history record purged", slog.String("id", id.String()))
	return nil
}

// ReportRows returns the caller's active records as display rows for the
// report collaborator: newest first, text capped at 80 characters, with the
// owner's display name resolved.
func (s *Service) ReportRows(ctx context.Context) ([]domain.ReportRow, error) {
	records, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}

	names := map[uuid.UUID]string{}
	rows := make([]domain.ReportRow, 0, len(records))
	for _, rec := range records {
		name := anonymousName
		if rec.UserID != nil {
			name, err = s.displayName(ctx, names, *rec.UserID)
			if err != nil {
				return nil, fmt.Errorf("history.ReportRows: %w", err)
			}
		}
		rows = append(rows, domain.ReportRow{
			CreatedAt: rec.CreatedAt,
			UserName:  name,
			Utterance: capText(rec.Utterance, reportTextCap),
			Response:  capText(rec.Response, reportTextCap),
		})
	}
	return rows, nil
}

func (s *Service) displayName(ctx context.Context, cache map[uuid.UUID]string, id uuid.UUID) (string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	cache[id] = user.FullName
	return user.FullName, nil
}

// capText truncates to max runes, replacing the tail with an ellipsis.
func capText(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max-1]) + "…"
}
