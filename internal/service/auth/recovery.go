package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vozlab/asistente-backend/internal/auth"
	"github.com/vozlab/asistente-backend/internal/domain"
)

// RequestRecovery issues a fresh 5-digit recovery code, invalidating any
// previous live codes, and mails it to the user. An unknown email returns
// nil so the endpoint does not leak which addresses are registered.
func (s *Service) RequestRecovery(ctx context.Context, input RecoveryRequestInput) error {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := input.Validate(); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.InfoContext(ctx, "recovery requested for unknown email")
			return nil
		}
		return fmt.Errorf("auth.RequestRecovery get user: %w", err)
	}

	if err := s.recovery.Invalidate(ctx, user.ID); err != nil {
		return fmt.Errorf("auth.RequestRecovery invalidate codes: %w", err)
	}

	code, err := auth.GenerateRecoveryCode()
	if err != nil {
		return fmt.Errorf("auth.RequestRecovery: %w", err)
	}

	rec := &domain.RecoveryCode{
		ID:        uuid.New(),
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: s.now().Add(s.cfg.RecoveryCodeTTL),
		CreatedAt: s.now(),
	}
	if err := s.recovery.Create(ctx, rec); err != nil {
		return fmt.Errorf("auth.RequestRecovery store code: %w", err)
	}

	body := fmt.Sprintf("Tu código de recuperación es: %s\n\nCaduca en %s.", code, s.cfg.RecoveryCodeTTL)
	if err := s.mail.Send(ctx, user.Email, "Recuperación de contraseña", body); err != nil {
		return fmt.Errorf("auth.RequestRecovery send mail: %w", err)
	}

	s.log.InfoContext(ctx, "recovery code issued", slog.String("user_id", user.ID.String()))
	return nil
}

// VerifyRecovery checks that a (email, code) pair is live without consuming
// it. Returns ErrUnauthorized for unknown email or dead code.
func (s *Service) VerifyRecovery(ctx context.Context, input RecoveryVerifyInput) error {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := input.Validate(); err != nil {
		return err
	}

	_, _, err := s.liveCode(ctx, input.Email, input.Code)
	return err
}

// ResetPassword consumes a live recovery code, replaces the password hash and
// revokes every refresh token of the user.
func (s *Service) ResetPassword(ctx context.Context, input RecoveryResetInput) error {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := input.Validate(); err != nil {
		return err
	}

	user, code, err := s.liveCode(ctx, input.Email, input.Code)
	if err != nil {
		return err
	}

	if err := s.recovery.MarkUsed(ctx, code.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Lost the race against a concurrent reset with the same code.
			return domain.ErrUnauthorized
		}
		return fmt.Errorf("auth.ResetPassword consume code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth.ResetPassword hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("auth.ResetPassword update password: %w", err)
	}

	if err := s.tokens.RevokeAll(ctx, user.ID, s.now()); err != nil {
		return fmt.Errorf("auth.ResetPassword revoke tokens: %w", err)
	}

	s.log.InfoContext(ctx, "password reset via recovery code", slog.String("user_id", user.ID.String()))
	return nil
}

// liveCode resolves (email, code) to a user and a live recovery code.
// Any miss maps to ErrUnauthorized.
func (s *Service) liveCode(ctx context.Context, email, code string) (*domain.User, *domain.RecoveryCode, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrUnauthorized
		}
		return nil, nil, fmt.Errorf("auth recovery get user: %w", err)
	}

	rec, err := s.recovery.GetLive(ctx, user.ID, code, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrUnauthorized
		}
		return nil, nil, fmt.Errorf("auth recovery get code: %w", err)
	}

	return user, rec, nil
}
