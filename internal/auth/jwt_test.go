package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vozlab/asistente-backend/internal/domain"
)

const testSecret = "test-secret-at-least-32-chars-long-for-security"

func newTestManager(issuer string, ttl time.Duration) *JWTManager {
	return NewJWTManager(testSecret, issuer, ttl)
}

func TestJWTManager_GenerateAndValidate_Success(t *testing.T) {
	manager := newTestManager("asistente-test", 15*time.Minute)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID, domain.UserRoleUser)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	validatedID, role, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if validatedID != userID {
		t.Errorf("expected userID %s, got %s", userID, validatedID)
	}
	if role != domain.UserRoleUser {
		t.Errorf("expected role 'user', got %q", role)
	}
}

func TestJWTManager_GenerateAndValidate_AdminRole(t *testing.T) {
	manager := newTestManager("asistente-test", 15*time.Minute)

	token, err := manager.GenerateAccessToken(uuid.New(), domain.UserRoleAdmin)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, role, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if role != domain.UserRoleAdmin {
		t.Errorf("expected role 'admin', got %q", role)
	}
}

func TestJWTManager_ValidateAccessToken_Expired(t *testing.T) {
	manager := newTestManager("asistente-test", -1*time.Hour) // already expired

	token, err := manager.GenerateAccessToken(uuid.New(), domain.UserRoleUser)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, _, err = manager.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
	if !strings.Contains(err.Error(), "expired") && !strings.Contains(err.Error(), "parse token") {
		t.Errorf("expected expiry-related error, got: %v", err)
	}
}

func TestJWTManager_ValidateAccessToken_InvalidSignature(t *testing.T) {
	manager1 := newTestManager("asistente-test", 15*time.Minute)
	manager2 := NewJWTManager("different-secret-32-chars-long-for-security!!", "asistente-test", 15*time.Minute)

	token, err := manager1.GenerateAccessToken(uuid.New(), domain.UserRoleUser)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, _, err = manager2.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for invalid signature, got nil")
	}
}

func TestJWTManager_ValidateAccessToken_Malformed(t *testing.T) {
	manager := newTestManager("asistente-test", 15*time.Minute)

	malformedTokens := []string{
		"not.a.jwt",
		"invalid-token",
		"header.payload", // missing signature
	}

	for _, token := range malformedTokens {
		_, _, err := manager.ValidateAccessToken(token)
		if err == nil {
			t.Errorf("expected error for malformed token %q, got nil", token)
		}
	}
}

func TestJWTManager_ValidateAccessToken_WrongIssuer(t *testing.T) {
	manager1 := newTestManager("asistente-test", 15*time.Minute)
	manager2 := newTestManager("wrong-issuer", 15*time.Minute)

	token, err := manager1.GenerateAccessToken(uuid.New(), domain.UserRoleUser)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, _, err = manager2.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for wrong issuer, got nil")
	}
	if !strings.Contains(err.Error(), "invalid issuer") {
		t.Errorf("expected 'invalid issuer' error, got: %v", err)
	}
}

func TestJWTManager_ValidateAccessToken_EmptyString(t *testing.T) {
	manager := newTestManager("asistente-test", 15*time.Minute)

	_, _, err := manager.ValidateAccessToken("")
	if err == nil {
		t.Fatal("expected error for empty token, got nil")
	}
	if !strings.Contains(err.Error(), "empty") {
		t.Errorf("expected 'empty' error, got: %v", err)
	}
}

func TestJWTManager_GenerateRefreshToken_Uniqueness(t *testing.T) {
	manager := newTestManager("asistente-test", 15*time.Minute)

	tokens := make(map[string]bool)
	hashes := make(map[string]bool)

	for range 100 {
		raw, hash, err := manager.GenerateRefreshToken()
		if err != nil {
			t.Fatalf("GenerateRefreshToken failed: %v", err)
		}
		if raw == "" || hash == "" {
			t.Fatal("expected non-empty raw and hash")
		}

		if tokens[raw] {
			t.Errorf("duplicate raw token: %s", raw)
		}
		if hashes[hash] {
			t.Errorf("duplicate hash: %s", hash)
		}

		tokens[raw] = true
		hashes[hash] = true
	}
}

func TestJWTManager_GenerateRefreshToken_HashMatches(t *testing.T) {
	manager := newTestManager("asistente-test", 15*time.Minute)

	raw, hash, err := manager.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	if recomputed := HashToken(raw); recomputed != hash {
		t.Errorf("hash mismatch: expected %s, got %s", hash, recomputed)
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	raw := "test-token-12345"

	if HashToken(raw) != HashToken(raw) {
		t.Error("hash is not deterministic")
	}
	if HashToken(raw) == HashToken("different-token-67890") {
		t.Error("different inputs produced same hash")
	}
}

func TestGenerateRecoveryCode_Format(t *testing.T) {
	for range 100 {
		code, err := GenerateRecoveryCode()
		if err != nil {
			t.Fatalf("GenerateRecoveryCode failed: %v", err)
		}
		if len(code) != 5 {
			t.Fatalf("expected 5 digits, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
	}
}
