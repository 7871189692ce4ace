// Package snapshot persists per-(user, day) usage aggregates. Snapshots are
// a recomputable cache over the interactions table, so every write is an
// upsert keyed on (user_id, day).
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vozlab/asistente-backend/internal/adapter/postgres"
	"github.com/vozlab/asistente-backend/internal/domain"
)

// Repo provides usage-snapshot persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new snapshot repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const upsertSQL = `
INSERT INTO usage_snapshots (id, user_id, day, command_count, minutes_used, success_count, failure_count)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id, day) DO UPDATE SET
    command_count = EXCLUDED.command_count,
    minutes_used  = EXCLUDED.minutes_used,
    success_count = EXCLUDED.success_count,
    failure_count = EXCLUDED.failure_count`

// Upsert writes the snapshot for one (user, day), replacing any previous
// values for that day.
func (r *Repo) Upsert(ctx context.Context, s *domain.UsageSnapshot) error {
	_, err := r.pool.Exec(ctx, upsertSQL,
		s.ID, s.UserID, s.Day, s.CommandCount, s.MinutesUsed, s.SuccessCount, s.FailureCount)
	if err != nil {
		return postgres.MapError(err, "usage snapshot", s.UserID)
	}
	return nil
}

const getByDaySQL = `
SELECT id, user_id, day, command_count, minutes_used, success_count, failure_count
FROM usage_snapshots
WHERE user_id = $1 AND day = $2`

// GetByDay returns the snapshot for one (user, day).
func (r *Repo) GetByDay(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.UsageSnapshot, error) {
	var s domain.UsageSnapshot
	err := r.pool.QueryRow(ctx, getByDaySQL, userID, day).Scan(
		&s.ID, &s.UserID, &s.Day, &s.CommandCount, &s.MinutesUsed, &s.SuccessCount, &s.FailureCount)
	if err != nil {
		return nil, postgres.MapError(err, "usage snapshot", userID)
	}
	return &s, nil
}

const listRangeSQL = `
SELECT id, user_id, day, command_count, minutes_used, success_count, failure_count
FROM usage_snapshots
WHERE user_id = $1 AND day >= $2 AND day < $3
ORDER BY day ASC`

// ListRange returns the user's snapshots with day in [from, to), oldest first.
func (r *Repo) ListRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.UsageSnapshot, error) {
	rows, err := r.pool.Query(ctx, listRangeSQL, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []*domain.UsageSnapshot{}
	for rows.Next() {
		var s domain.UsageSnapshot
		if err := rows.Scan(&s.ID, &s.UserID, &s.Day, &s.CommandCount, &s.MinutesUsed, &s.SuccessCount, &s.FailureCount); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	return snapshots, nil
}
