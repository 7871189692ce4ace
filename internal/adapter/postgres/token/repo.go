// Package token stores refresh tokens. Only the SHA-256 hash of a token ever
// reaches this repository.
package token

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vozlab/asistente-backend/internal/adapter/postgres"
	"github.com/vozlab/asistente-backend/internal/domain"
)

// Repo provides refresh-token persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new refresh-token repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const createSQL = `
INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5)`

// Create stores a new refresh token hash.
func (r *Repo) Create(ctx context.Context, t *domain.RefreshToken) error {
	_, err := r.pool.Exec(ctx, createSQL, t.ID, t.UserID, t.TokenHash, t.ExpiresAt, t.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "refresh token", t.UserID)
	}
	return nil
}

const getByHashSQL = `
SELECT id, user_id, token_hash, expires_at, created_at, revoked_at
FROM refresh_tokens
WHERE token_hash = $1`

// GetByHash returns the stored token matching a hash, revoked or not.
// Expiry and revocation checks belong to the caller.
func (r *Repo) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	err := r.pool.QueryRow(ctx, getByHashSQL, tokenHash).Scan(
		&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt, &t.RevokedAt)
	if err != nil {
		return nil, postgres.MapError(err, "refresh token", "hash")
	}
	return &t, nil
}

const revokeSQL = `
UPDATE refresh_tokens SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL`

// Revoke marks one token as revoked. Revoking an already-revoked token is a
// no-op.
func (r *Repo) Revoke(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, revokeSQL, id, at)
	if err != nil {
		return postgres.MapError(err, "refresh token", id)
	}
	return nil
}

const revokeAllSQL = `
UPDATE refresh_tokens SET revoked_at = $2 WHERE user_id = $1 AND revoked_at IS NULL`

// RevokeAll revokes every live token of one user (logout everywhere,
// password reset).
func (r *Repo) RevokeAll(ctx context.Context, userID uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, revokeAllSQL, userID, at)
	if err != nil {
		return postgres.MapError(err, "refresh token", userID)
	}
	return nil
}

const deleteExpiredSQL = `
DELETE FROM refresh_tokens WHERE expires_at < $1`

// DeleteExpired removes tokens past their expiry. Returns the number removed.
func (r *Repo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, deleteExpiredSQL, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
