// Package auth implements registration, password login, token rotation and
// password recovery.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vozlab/asistente-backend/internal/config"
	"github.com/vozlab/asistente-backend/internal/domain"
)

// userRepo defines the user repository interface needed by the auth service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// tokenRepo defines the refresh token repository interface needed by the auth service.
type tokenRepo interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, id uuid.UUID, at time.Time) error
	RevokeAll(ctx context.Context, userID uuid.UUID, at time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// recoveryRepo defines the recovery code repository interface needed by the auth service.
type recoveryRepo interface {
	Create(ctx context.Context, code *domain.RecoveryCode) error
	GetLive(ctx context.Context, userID uuid.UUID, code string, now time.Time) (*domain.RecoveryCode, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// mailSender delivers recovery codes.
type mailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// jwtManager defines the token management interface needed by the auth service.
type jwtManager interface {
	GenerateAccessToken(userID uuid.UUID, role domain.UserRole) (string, error)
	ValidateAccessToken(token string) (uuid.UUID, domain.UserRole, error)
	GenerateRefreshToken() (raw string, hash string, err error)
}

// Service implements auth operations.
type Service struct {
	log      *slog.Logger
	users    userRepo
	tokens   tokenRepo
	recovery recoveryRepo
	mail     mailSender
	jwt      jwtManager
	cfg      config.AuthConfig

	now func() time.Time
}

// NewService creates a new auth service instance.
func NewService(
	logger *slog.Logger,
	users userRepo,
	tokens tokenRepo,
	recovery recoveryRepo,
	mail mailSender,
	jwt jwtManager,
	cfg config.AuthConfig,
) *Service {
	return &Service{
		log:      logger.With("service", "auth"),
		users:    users,
		tokens:   tokens,
		recovery: recovery,
		mail:     mail,
		jwt:      jwt,
		cfg:      cfg,
		now:      time.Now,
	}
}

// issueTokens generates access and refresh tokens for the given user, stores
// the refresh token hash, and returns an AuthResult.
func (s *Service) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	rawRefresh, hashRefresh, err := s.jwt.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	refreshToken := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashRefresh,
		ExpiresAt: s.now().Add(s.cfg.RefreshTokenTTL),
		CreatedAt: s.now(),
	}
	if err := s.tokens.Create(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		User:         user,
	}, nil
}
