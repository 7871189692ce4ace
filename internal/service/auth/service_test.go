package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	authcore "github.com/vozlab/asistente-backend/internal/auth"
	"github.com/vozlab/asistente-backend/internal/config"
	"github.com/vozlab/asistente-backend/internal/domain"
	"github.com/vozlab/asistente-backend/pkg/ctxutil"
)

// defaultCfg returns a config suitable for most tests.
func defaultCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTIssuer:       "asistente-test",
		RefreshTokenTTL: 30 * 24 * time.Hour,
		RecoveryCodeTTL: time.Hour,
	}
}

func newTestService(users userRepo, tokens tokenRepo, recovery recoveryRepo, mail mailSender, jwt jwtManager) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, users, tokens, recovery, mail, jwt, defaultCfg())
}

// happyJWT is a jwtManager mock that always issues fixed tokens.
func happyJWT() *jwtManagerMock {
	return &jwtManagerMock{
		GenerateAccessTokenFunc: func(userID uuid.UUID, role domain.UserRole) (string, error) {
			return "access-token", nil
		},
		GenerateRefreshTokenFunc: func() (string, string, error) {
			return "raw-refresh", "hash-refresh", nil
		},
	}
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}
	return string(hash)
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestService_Register_Success(t *testing.T) {
	t.Parallel()

	var storedToken *domain.RefreshToken
	users := &userRepoMock{
		CreateFunc: func(ctx context.Context, user *domain.User) (*domain.User, error) {
			if user.Email != "ana@example.com" {
				t.Errorf("email not normalized: %q", user.Email)
			}
			if user.Role != domain.UserRoleUser {
				t.Errorf("new users must get the user role, got %s", user.Role)
			}
			if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secreto123")); err != nil {
				t.Error("stored hash does not match the password")
			}
			return user, nil
		},
	}
	tokens := &tokenRepoMock{
		CreateFunc: func(ctx context.Context, token *domain.RefreshToken) error {
			storedToken = token
			return nil
		},
	}

	svc := newTestService(users, tokens, nil, nil, happyJWT())

	got, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Ana López",
		Username: "ana",
		Email:    " Ana@Example.com ",
		Password: "secreto123",
	})
	if err != nil {
		t.Fatalf("Register: unexpected error: %v", err)
	}

	if got.AccessToken != "access-token" || got.RefreshToken != "raw-refresh" {
		t.Errorf("unexpected tokens: %+v", got)
	}
	if storedToken == nil || storedToken.TokenHash != "hash-refresh" {
		t.Error("refresh token hash was not stored")
	}
}

func TestService_Register_ValidationErrors(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil, nil, nil, nil)

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"empty", RegisterInput{}},
		{"bad email", RegisterInput{FullName: "A", Username: "ana", Email: "not-an-email", Password: "secreto123"}},
		{"short password", RegisterInput{FullName: "A", Username: "ana", Email: "a@b.com", Password: "corto"}},
		{"short username", RegisterInput{FullName: "A", Username: "ab", Email: "a@b.com", Password: "secreto123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Register(context.Background(), tt.input)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestService_Register_DuplicateUsername(t *testing.T) {
	t.Parallel()

	users := &userRepoMock{
		CreateFunc: func(ctx context.Context, user *domain.User) (*domain.User, error) {
			return nil, domain.ErrAlreadyExists
		},
	}
	svc := newTestService(users, nil, nil, nil, nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Ana", Username: "ana", Email: "ana@example.com", Password: "secreto123",
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestService_Login_Success(t *testing.T) {
	t.Parallel()

	user := &domain.User{
		ID:           uuid.New(),
		Username:     "ana",
		PasswordHash: hashPassword(t, "secreto123"),
		Role:         domain.UserRoleUser,
		Active:       true,
	}
	users := &userRepoMock{
		GetByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			if username != "ana" {
				t.Errorf("username: got %q", username)
			}
			return user, nil
		},
	}
	tokens := &tokenRepoMock{
		CreateFunc: func(ctx context.Context, token *domain.RefreshToken) error { return nil },
	}

	svc := newTestService(users, tokens, nil, nil, happyJWT())

	got, err := svc.Login(context.Background(), LoginInput{Username: " ana ", Password: "secreto123"})
	if err != nil {
		t.Fatalf("Login: unexpected error: %v", err)
	}
	if got.User.ID != user.ID {
		t.Error("wrong user in result")
	}
}

func TestService_Login_Unauthorized(t *testing.T) {
	t.Parallel()

	active := &domain.User{
		ID:           uuid.New(),
		PasswordHash: hashPassword(t, "secreto123"),
		Active:       true,
	}
	disabled := &domain.User{
		ID:           uuid.New(),
		PasswordHash: hashPassword(t, "secreto123"),
		Active:       false,
	}

	tests := []struct {
		name  string
		users *userRepoMock
		input LoginInput
	}{
		{
			name: "unknown user",
			users: &userRepoMock{
				GetByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
					return nil, domain.ErrNotFound
				},
			},
			input: LoginInput{Username: "nadie", Password: "secreto123"},
		},
		{
			name: "wrong password",
			users: &userRepoMock{
				GetByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
					return active, nil
				},
			},
			input: LoginInput{Username: "ana", Password: "incorrecta"},
		},
		{
			name: "disabled account",
			users: &userRepoMock{
				GetByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
					return disabled, nil
				},
			},
			input: LoginInput{Username: "ana", Password: "secreto123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(tt.users, nil, nil, nil, nil)
			_, err := svc.Login(context.Background(), tt.input)
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Refresh
// ---------------------------------------------------------------------------

func TestService_Refresh_RotatesToken(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: uuid.New(), Role: domain.UserRoleUser, Active: true}
	stored := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: authcore.HashToken("raw-old"),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	revoked := false
	tokens := &tokenRepoMock{
		GetByHashFunc: func(ctx context.Context, hash string) (*domain.RefreshToken, error) {
			if hash != stored.TokenHash {
				return nil, domain.ErrNotFound
			}
			return stored, nil
		},
		RevokeFunc: func(ctx context.Context, id uuid.UUID, at time.Time) error {
			if id != stored.ID {
				t.Errorf("revoked wrong token %s", id)
			}
			revoked = true
			return nil
		},
		CreateFunc: func(ctx context.Context, token *domain.RefreshToken) error { return nil },
	}
	users := &userRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) { return user, nil },
	}

	svc := newTestService(users, tokens, nil, nil, happyJWT())

	got, err := svc.Refresh(context.Background(), RefreshInput{RefreshToken: "raw-old"})
	if err != nil {
		t.Fatalf("Refresh: unexpected error: %v", err)
	}
	if !revoked {
		t.Error("old token must be revoked on rotation")
	}
	if got.RefreshToken != "raw-refresh" {
		t.Errorf("expected fresh refresh token, got %q", got.RefreshToken)
	}
}

func TestService_Refresh_Unauthorized(t *testing.T) {
	t.Parallel()

	revokedAt := time.Now().Add(-time.Minute)
	tests := []struct {
		name   string
		stored *domain.RefreshToken
		err    error
	}{
		{name: "unknown token", stored: nil, err: domain.ErrNotFound},
		{
			name: "revoked token (reuse)",
			stored: &domain.RefreshToken{
				ID: uuid.New(), UserID: uuid.New(),
				ExpiresAt: time.Now().Add(time.Hour), RevokedAt: &revokedAt,
			},
		},
		{
			name: "expired token",
			stored: &domain.RefreshToken{
				ID: uuid.New(), UserID: uuid.New(),
				ExpiresAt: time.Now().Add(-time.Hour),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tokens := &tokenRepoMock{
				GetByHashFunc: func(ctx context.Context, hash string) (*domain.RefreshToken, error) {
					if tt.stored == nil {
						return nil, tt.err
					}
					return tt.stored, nil
				},
			}
			svc := newTestService(nil, tokens, nil, nil, nil)

			_, err := svc.Refresh(context.Background(), RefreshInput{RefreshToken: "whatever"})
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Logout
// ---------------------------------------------------------------------------

func TestService_Logout(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	called := false
	tokens := &tokenRepoMock{
		RevokeAllFunc: func(ctx context.Context, id uuid.UUID, at time.Time) error {
			if id != userID {
				t.Errorf("RevokeAll for wrong user %s", id)
			}
			called = true
			return nil
		},
	}
	svc := newTestService(nil, tokens, nil, nil, nil)

	ctx := ctxutil.WithUserID(context.Background(), userID)
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if !called {
		t.Error("RevokeAll not called")
	}

	if err := svc.Logout(context.Background()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized without identity, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Recovery
// ---------------------------------------------------------------------------

func TestService_RequestRecovery_IssuesAndMailsCode(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: uuid.New(), Email: "ana@example.com"}
	users := &userRepoMock{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return user, nil
		},
	}

	invalidated := false
	var issued *domain.RecoveryCode
	recovery := &recoveryRepoMock{
		InvalidateFunc: func(ctx context.Context, userID uuid.UUID) error {
			invalidated = true
			return nil
		},
		CreateFunc: func(ctx context.Context, code *domain.RecoveryCode) error {
			issued = code
			return nil
		},
	}

	var mailedTo, mailedBody string
	mail := &mailSenderMock{
		SendFunc: func(ctx context.Context, to, subject, body string) error {
			mailedTo, mailedBody = to, body
			return nil
		},
	}

	svc := newTestService(users, nil, recovery, mail, nil)

	if err := svc.RequestRecovery(context.Background(), RecoveryRequestInput{Email: "ana@example.com"}); err != nil {
		t.Fatalf("RequestRecovery: %v", err)
	}

	if !invalidated {
		t.Error("previous codes must be invalidated first")
	}
	if issued == nil || len(issued.Code) != 5 {
		t.Fatalf("expected a 5-digit code, got %+v", issued)
	}
	if mailedTo != user.Email {
		t.Errorf("mailed to %q", mailedTo)
	}
	if !strings.Contains(mailedBody, issued.Code) {
		t.Error("mail body must contain the code")
	}
}

func TestService_RequestRecovery_UnknownEmailIsSilent(t *testing.T) {
	t.Parallel()

	users := &userRepoMock{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := newTestService(users, nil, nil, nil, nil)

	if err := svc.RequestRecovery(context.Background(), RecoveryRequestInput{Email: "nadie@example.com"}); err != nil {
		t.Errorf("unknown email must not error, got %v", err)
	}
}

func TestService_ResetPassword_ConsumesCodeAndRevokesTokens(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: uuid.New(), Email: "ana@example.com"}
	code := &domain.RecoveryCode{ID: uuid.New(), UserID: user.ID, Code: "12345"}

	users := &userRepoMock{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) { return user, nil },
		UpdatePasswordFunc: func(ctx context.Context, id uuid.UUID, passwordHash string) error {
			if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte("nuevaclave1")); err != nil {
				t.Error("stored hash does not match new password")
			}
			return nil
		},
	}

	consumed := false
	recovery := &recoveryRepoMock{
		GetLiveFunc: func(ctx context.Context, userID uuid.UUID, c string, now time.Time) (*domain.RecoveryCode, error) {
			if c != "12345" {
				return nil, domain.ErrNotFound
			}
			return code, nil
		},
		MarkUsedFunc: func(ctx context.Context, id uuid.UUID) error {
			consumed = true
			return nil
		},
	}

	revokedAll := false
	tokens := &tokenRepoMock{
		RevokeAllFunc: func(ctx context.Context, userID uuid.UUID, at time.Time) error {
			revokedAll = true
			return nil
		},
	}

	svc := newTestService(users, tokens, recovery, nil, nil)

	err := svc.ResetPassword(context.Background(), RecoveryResetInput{
		Email: "ana@example.com", Code: "12345", NewPassword: "nuevaclave1",
	})
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if !consumed {
		t.Error("code must be consumed")
	}
	if !revokedAll {
		t.Error("all sessions must be revoked after reset")
	}
}

func TestService_ResetPassword_DeadCode(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: uuid.New(), Email: "ana@example.com"}
	users := &userRepoMock{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) { return user, nil },
	}
	recovery := &recoveryRepoMock{
		GetLiveFunc: func(ctx context.Context, userID uuid.UUID, c string, now time.Time) (*domain.RecoveryCode, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := newTestService(users, nil, recovery, nil, nil)

	err := svc.ResetPassword(context.Background(), RecoveryResetInput{
		Email: "ana@example.com", Code: "00000", NewPassword: "nuevaclave1",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}
