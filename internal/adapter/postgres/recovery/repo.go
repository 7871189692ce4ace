// Package recovery stores single-use password recovery codes.
package recovery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vozlab/asistente-backend/internal/adapter/postgres"
	"github.com/vozlab/asistente-backend/internal/domain"
)

// Repo provides recovery-code persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new recovery-code repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const createSQL = `
INSERT INTO recovery_codes (id, user_id, code, expires_at, used, created_at)
VALUES ($1, $2, $3, $4, false, $5)`

// Create stores a freshly issued recovery code.
func (r *Repo) Create(ctx context.Context, c *domain.RecoveryCode) error {
	_, err := r.pool.Exec(ctx, createSQL, c.ID, c.UserID, c.Code, c.ExpiresAt, c.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "recovery code", c.UserID)
	}
	return nil
}

const getLiveSQL = `
SELECT id, user_id, code, expires_at, used, created_at
FROM recovery_codes
WHERE user_id = $1 AND code = $2 AND used = false AND expires_at > $3
ORDER BY created_at DESC
LIMIT 1`

// GetLive returns the newest unused, unexpired code matching (user, code).
// Returns domain.ErrNotFound when no such code exists.
func (r *Repo) GetLive(ctx context.Context, userID uuid.UUID, code string, now time.Time) (*domain.RecoveryCode, error) {
	var c domain.RecoveryCode
	err := r.pool.QueryRow(ctx, getLiveSQL, userID, code, now).Scan(
		&c.ID, &c.UserID, &c.Code, &c.ExpiresAt, &c.Used, &c.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "recovery code", userID)
	}
	return &c, nil
}

const markUsedSQL = `
UPDATE recovery_codes SET used = true WHERE id = $1 AND used = false`

// MarkUsed consumes a code. Returns domain.ErrNotFound when the code was
// already consumed, which keeps codes strictly single-use under races.
func (r *Repo) MarkUsed(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, markUsedSQL, id)
	if err != nil {
		return postgres.MapError(err, "recovery code", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recovery code %v: %w", id, domain.ErrNotFound)
	}
	return nil
}

const invalidateSQL = `
UPDATE recovery_codes SET used = true WHERE user_id = $1 AND used = false`

// Invalidate consumes every live code of one user. Called before issuing a
// new code so at most one code is live per user.
func (r *Repo) Invalidate(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, invalidateSQL, userID)
	if err != nil {
		return postgres.MapError(err, "recovery code", userID)
	}
	return nil
}
