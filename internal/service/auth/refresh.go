package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vozlab/asistente-backend/internal/auth"
	"github.com/vozlab/asistente-backend/internal/domain"
)

// Refresh performs token rotation and returns a new access/refresh pair.
// A missing, revoked or expired token returns ErrUnauthorized; a revoked
// token additionally logs a reuse warning.
func (s *Service) Refresh(ctx context.Context, input RefreshInput) (*AuthResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash := auth.HashToken(input.RefreshToken)

	token, err := s.tokens.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "unknown refresh token presented")
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Refresh get token: %w", err)
	}

	if token.IsRevoked() {
		// Rotation already consumed this token; likely theft or replay.
		s.log.WarnContext(ctx, "refresh token reuse attempted",
			slog.String("user_id", token.UserID.String()))
		return nil, domain.ErrUnauthorized
	}

	if token.IsExpired(s.now()) {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "refresh for deleted user",
				slog.String("user_id", token.UserID.String()))
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Refresh get user: %w", err)
	}

	if err := s.tokens.Revoke(ctx, token.ID, s.now()); err != nil {
		return nil, fmt.Errorf("auth.Refresh revoke token: %w", err)
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("auth.Refresh issue tokens: %w", err)
	}
	return result, nil
}
