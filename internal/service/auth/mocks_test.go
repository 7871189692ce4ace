package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vozlab/asistente-backend/internal/domain"
)

var (
	_ userRepo     = &userRepoMock{}
	_ tokenRepo    = &tokenRepoMock{}
	_ recoveryRepo = &recoveryRepoMock{}
	_ mailSender   = &mailSenderMock{}
	_ jwtManager   = &jwtManagerMock{}
)

type userRepoMock struct {
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsernameFunc  func(ctx context.Context, username string) (*domain.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*domain.User, error)
	CreateFunc         func(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdatePasswordFunc func(ctx context.Context, id uuid.UUID, passwordHash string) error
}

func (m *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFunc == nil {
		panic("userRepoMock.GetByIDFunc: method is nil but GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *userRepoMock) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFunc == nil {
		panic("userRepoMock.GetByUsernameFunc: method is nil but GetByUsername was just called")
	}
	return m.GetByUsernameFunc(ctx, username)
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc == nil {
		panic("userRepoMock.GetByEmailFunc: method is nil but GetByEmail was just called")
	}
	return m.GetByEmailFunc(ctx, email)
}

func (m *userRepoMock) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if m.CreateFunc == nil {
		panic("userRepoMock.CreateFunc: method is nil but Create was just called")
	}
	return m.CreateFunc(ctx, user)
}

func (m *userRepoMock) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	if m.UpdatePasswordFunc == nil {
		panic("userRepoMock.UpdatePasswordFunc: method is nil but UpdatePassword was just called")
	}
	return m.UpdatePasswordFunc(ctx, id, passwordHash)
}

type tokenRepoMock struct {
	CreateFunc        func(ctx context.Context, token *domain.RefreshToken) error
	GetByHashFunc     func(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeFunc        func(ctx context.Context, id uuid.UUID, at time.Time) error
	RevokeAllFunc     func(ctx context.Context, userID uuid.UUID, at time.Time) error
	DeleteExpiredFunc func(ctx context.Context, before time.Time) (int64, error)
}

func (m *tokenRepoMock) Create(ctx context.Context, token *domain.RefreshToken) error {
	if m.CreateFunc == nil {
		panic("tokenRepoMock.CreateFunc: method is nil but Create was just called")
	}
	return m.CreateFunc(ctx, token)
}

func (m *tokenRepoMock) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	if m.GetByHashFunc == nil {
		panic("tokenRepoMock.GetByHashFunc: method is nil but GetByHash was just called")
	}
	return m.GetByHashFunc(ctx, tokenHash)
}

func (m *tokenRepoMock) Revoke(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.RevokeFunc == nil {
		panic("tokenRepoMock.RevokeFunc: method is nil but Revoke was just called")
	}
	return m.RevokeFunc(ctx, id, at)
}

func (m *tokenRepoMock) RevokeAll(ctx context.Context, userID uuid.UUID, at time.Time) error {
	if m.RevokeAllFunc == nil {
		panic("tokenRepoMock.RevokeAllFunc: method is nil but RevokeAll was just called")
	}
	return m.RevokeAllFunc(ctx, userID, at)
}

func (m *tokenRepoMock) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	if m.DeleteExpiredFunc == nil {
		panic("tokenRepoMock.DeleteExpiredFunc: method is nil but DeleteExpired was just called")
	}
	return m.DeleteExpiredFunc(ctx, before)
}

type recoveryRepoMock struct {
	CreateFunc     func(ctx context.Context, code *domain.RecoveryCode) error
	GetLiveFunc    func(ctx context.Context, userID uuid.UUID, code string, now time.Time) (*domain.RecoveryCode, error)
	MarkUsedFunc   func(ctx context.Context, id uuid.UUID) error
	InvalidateFunc func(ctx context.Context, userID uuid.UUID) error
}

func (m *recoveryRepoMock) Create(ctx context.Context, code *domain.RecoveryCode) error {
	if m.CreateFunc == nil {
		panic("recoveryRepoMock.CreateFunc: method is nil but Create was just called")
	}
	return m.CreateFunc(ctx, code)
}

func (m *recoveryRepoMock) GetLive(ctx context.Context, userID uuid.UUID, code string, now time.Time) (*domain.RecoveryCode, error) {
	if m.GetLiveFunc == nil {
		panic("recoveryRepoMock.GetLiveFunc: method is nil but GetLive was just called")
	}
	return m.GetLiveFunc(ctx, userID, code, now)
}

func (m *recoveryRepoMock) MarkUsed(ctx context.Context, id uuid.UUID) error {
	if m.MarkUsedFunc == nil {
		panic("recoveryRepoMock.MarkUsedFunc: method is nil but MarkUsed was just called")
	}
	return m.MarkUsedFunc(ctx, id)
}

func (m *recoveryRepoMock) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if m.InvalidateFunc == nil {
		panic("recoveryRepoMock.InvalidateFunc: method is nil but Invalidate was just called")
	}
	return m.InvalidateFunc(ctx, userID)
}

type mailSenderMock struct {
	SendFunc func(ctx context.Context, to, subject, body string) error
}

func (m *mailSenderMock) Send(ctx context.Context, to, subject, body string) error {
	if m.SendFunc == nil {
		panic("mailSenderMock.SendFunc: method is nil but Send was just called")
	}
	return m.SendFunc(ctx, to, subject, body)
}

type jwtManagerMock struct {
	GenerateAccessTokenFunc  func(userID uuid.UUID, role domain.UserRole) (string, error)
	ValidateAccessTokenFunc  func(token string) (uuid.UUID, domain.UserRole, error)
	GenerateRefreshTokenFunc func() (string, string, error)
}

func (m *jwtManagerMock) GenerateAccessToken(userID uuid.UUID, role domain.UserRole) (string, error) {
	if m.GenerateAccessTokenFunc == nil {
		panic("jwtManagerMock.GenerateAccessTokenFunc: method is nil but GenerateAccessToken was just called")
	}
	return m.GenerateAccessTokenFunc(userID, role)
}

func (m *jwtManagerMock) ValidateAccessToken(token string) (uuid.UUID, domain.UserRole, error) {
	if m.ValidateAccessTokenFunc == nil {
		panic("jwtManagerMock.ValidateAccessTokenFunc: method is nil but ValidateAccessToken was just called")
	}
	return m.ValidateAccessTokenFunc(token)
}

func (m *jwtManagerMock) GenerateRefreshToken() (string, string, error) {
	if m.GenerateRefreshTokenFunc == nil {
		panic("jwtManagerMock.GenerateRefreshTokenFunc: method is nil but GenerateRefreshToken was just called")
	}
	return m.GenerateRefreshTokenFunc()
}
