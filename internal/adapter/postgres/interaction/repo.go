// Package interaction implements the interaction-history repository using
// PostgreSQL. CRUD statements are built with squirrel; grouping queries for
// the dashboard use raw SQL.
package interaction

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vozlab/asistente-backend/internal/adapter/postgres"
	"github.com/vozlab/asistente-backend/internal/domain"
)

const table = "interactions"

var columns = []string{"id", "user_id", "utterance", "intent", "response", "success", "created_at", "active"}

// Repo provides interaction persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new interaction repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Raw SQL for dashboard grouping queries
// ---------------------------------------------------------------------------

// Ties resolve deterministically: count DESC, then tag/bucket ASC.
const countByIntentSQL = `
SELECT intent, count(*) AS n
FROM interactions
WHERE user_id = $1 AND active = true
GROUP BY intent
ORDER BY n DESC, intent ASC`

const countByWeekdaySQL = `
SELECT EXTRACT(DOW FROM created_at)::int AS weekday, count(*) AS n
FROM interactions
WHERE user_id = $1 AND active = true
GROUP BY weekday
ORDER BY weekday ASC`

const countByHourSQL = `
SELECT EXTRACT(HOUR FROM created_at)::int AS hour, count(*) AS n
FROM interactions
WHERE user_id = $1 AND active = true
GROUP BY hour
ORDER BY hour ASC`

const dailyCountsSQL = `
SELECT date_trunc('day', created_at)::date AS day, count(*) AS n
FROM interactions
WHERE user_id = $1 AND active = true AND created_at >= $2
GROUP BY day
ORDER BY day ASC`

const lastUsedAtSQL = `
SELECT max(created_at) FROM interactions WHERE user_id = $1 AND active = true`

const activeMinutesSQL = `
SELECT count(DISTINCT date_trunc('minute', created_at))
FROM interactions
WHERE user_id = $1 AND active = true AND created_at >= $2 AND created_at < $3`

const successTotalsSQL = `
SELECT
    count(*) AS total,
    count(*) FILTER (WHERE success) AS ok
FROM interactions
WHERE user_id = $1 AND active = true AND created_at >= $2 AND created_at < $3`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new interaction and returns the persisted record.
// CreatedAt and Active are assigned here and are immutable afterwards.
func (r *Repo) Create(ctx context.Context, in *domain.Interaction) (*domain.Interaction, error) {
	query := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(in.ID, in.UserID, in.Utterance, in.Intent.String(), in.Response, in.Success, in.CreatedAt, true).
		Suffix("RETURNING " + columnList())

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert interaction: %w", err)
	}

	rec, err := scanOne(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "interaction", in.ID)
	}

	return rec, nil
}

// Update modifies the two mutable fields of a record. Intent, timestamp and
// the active flag are never touched here. Returns domain.ErrNotFound when no
// row matches the id (and user scope, when given).
func (r *Repo) Update(ctx context.Context, id uuid.UUID, userID *uuid.UUID, upd domain.InteractionUpdate) (*domain.Interaction, error) {
	query := postgres.Builder().
		Update(table).
		Where(squirrel.Eq{"id": id})
	query = scopeUpdate(query, userID)

	changed := false
	if upd.Utterance != nil {
		query = query.Set("utterance", *upd.Utterance)
		changed = true
	}
	if upd.Response != nil {
		query = query.Set("response", *upd.Response)
		changed = true
	}
	if !changed {
		// Nothing to set; report the current row (or not-found).
		return r.GetByID(ctx, id, userID)
	}

	sql, args, err := query.Suffix("RETURNING " + columnList()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update interaction: %w", err)
	}

	rec, err := scanOne(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "interaction", id)
	}

	return rec, nil
}

// SetActive flips the soft-delete flag. The statement matches the row by id
// regardless of its current flag, so the operation is idempotent: soft
// deleting an already-inactive record still reports true.
func (r *Repo) SetActive(ctx context.Context, id uuid.UUID, userID *uuid.UUID, active bool) (bool, error) {
	query := postgres.Builder().
		Update(table).
		Set("active", active).
		Where(squirrel.Eq{"id": id})
	query = scopeUpdate(query, userID)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("build set active: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return false, postgres.MapError(err, "interaction", id)
	}

	return tag.RowsAffected() > 0, nil
}

// Purge physically deletes a record, bypassing the active flag.
func (r *Repo) Purge(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (bool, error) {
	query := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"id": id})
	if userID != nil {
		query = query.Where(squirrel.Eq{"user_id": *userID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("build purge interaction: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return false, postgres.MapError(err, "interaction", id)
	}

	return tag.RowsAffected() > 0, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns one record, scoped to userID when given.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*domain.Interaction, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})
	if userID != nil {
		query = query.Where(squirrel.Eq{"user_id": *userID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get interaction: %w", err)
	}

	rec, err := scanOne(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "interaction", id)
	}

	return rec, nil
}

// List returns active records newest first. userID nil lists across all
// users (admin mode). textFilter, when non-empty, is a case-insensitive
// substring match against the utterance field only.
func (r *Repo) List(ctx context.Context, userID *uuid.UUID, textFilter string) ([]*domain.Interaction, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"active": true}).
		OrderBy("created_at DESC")
	if userID != nil {
		query = query.Where(squirrel.Eq{"user_id": *userID})
	}
	if textFilter != "" {
		query = query.Where(squirrel.ILike{"utterance": "%" + textFilter + "%"})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list interactions: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	records := []*domain.Interaction{}
	for rows.Next() {
		rec, err := scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}

	return records, nil
}

// ---------------------------------------------------------------------------
// Aggregates (read-only dashboard queries)
// ---------------------------------------------------------------------------

// CountActive returns the number of active records for a user.
func (r *Repo) CountActive(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM interactions WHERE user_id = $1 AND active = true`,
		userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count interactions: %w", err)
	}
	return count, nil
}

// CountByIntent returns active-record counts grouped by intent tag,
// ordered by count DESC then tag ASC.
func (r *Repo) CountByIntent(ctx context.Context, userID uuid.UUID) ([]domain.IntentCount, error) {
	rows, err := r.pool.Query(ctx, countByIntentSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("count by intent: %w", err)
	}
	defer rows.Close()

	counts := []domain.IntentCount{}
	for rows.Next() {
		var (
			tag string
			n   int
		)
		if err := rows.Scan(&tag, &n); err != nil {
			return nil, fmt.Errorf("scan intent count: %w", err)
		}
		counts = append(counts, domain.IntentCount{Intent: domain.Intent(tag), Count: n})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate intent counts: %w", err)
	}

	return counts, nil
}

// CountByWeekday returns active-record counts per day of week (0=Sunday).
func (r *Repo) CountByWeekday(ctx context.Context, userID uuid.UUID) ([]domain.WeekdayCount, error) {
	rows, err := r.pool.Query(ctx, countByWeekdaySQL, userID)
	if err != nil {
		return nil, fmt.Errorf("count by weekday: %w", err)
	}
	defer rows.Close()

	counts := []domain.WeekdayCount{}
	for rows.Next() {
		var wc domain.WeekdayCount
		if err := rows.Scan(&wc.Weekday, &wc.Count); err != nil {
			return nil, fmt.Errorf("scan weekday count: %w", err)
		}
		counts = append(counts, wc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weekday counts: %w", err)
	}

	return counts, nil
}

// CountByHour returns active-record counts per hour of day (0..23).
func (r *Repo) CountByHour(ctx context.Context, userID uuid.UUID) ([]domain.HourCount, error) {
	rows, err := r.pool.Query(ctx, countByHourSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("count by hour: %w", err)
	}
	defer rows.Close()

	counts := []domain.HourCount{}
	for rows.Next() {
		var hc domain.HourCount
		if err := rows.Scan(&hc.Hour, &hc.Count); err != nil {
			return nil, fmt.Errorf("scan hour count: %w", err)
		}
		counts = append(counts, hc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hour counts: %w", err)
	}

	return counts, nil
}

// DailyCounts returns active-record counts per calendar day since `from`.
func (r *Repo) DailyCounts(ctx context.Context, userID uuid.UUID, from time.Time) ([]domain.DayCount, error) {
	rows, err := r.pool.Query(ctx, dailyCountsSQL, userID, from)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	defer rows.Close()

	counts := []domain.DayCount{}
	for rows.Next() {
		var dc domain.DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan daily count: %w", err)
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily counts: %w", err)
	}

	return counts, nil
}

// LastUsedAt returns the timestamp of the newest active record, or nil when
// the user has no history.
func (r *Repo) LastUsedAt(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	var last *time.Time
	if err := r.pool.QueryRow(ctx, lastUsedAtSQL, userID).Scan(&last); err != nil {
		return nil, fmt.Errorf("last used at: %w", err)
	}
	return last, nil
}

// ActiveMinutes returns the number of distinct minutes with at least one
// active record in [from, to). It approximates minutes of use.
func (r *Repo) ActiveMinutes(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error) {
	var minutes int
	if err := r.pool.QueryRow(ctx, activeMinutesSQL, userID, from, to).Scan(&minutes); err != nil {
		return 0, fmt.Errorf("active minutes: %w", err)
	}
	return minutes, nil
}

// SuccessTotals returns (total, successful) active-record counts in [from, to).
func (r *Repo) SuccessTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) (total, ok int, err error) {
	if err := r.pool.QueryRow(ctx, successTotalsSQL, userID, from, to).Scan(&total, &ok); err != nil {
		return 0, 0, fmt.Errorf("success totals: %w", err)
	}
	return total, ok, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOne(row rowScanner) (*domain.Interaction, error) {
	var (
		rec    domain.Interaction
		intent string
	)
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Utterance, &intent, &rec.Response, &rec.Success, &rec.CreatedAt, &rec.Active)
	if err != nil {
		return nil, err
	}
	rec.Intent = domain.Intent(intent)
	return &rec, nil
}

func columnList() string {
	s := columns[0]
	for _, c := range columns[1:] {
		s += ", " + c
	}
	return s
}

// scopeUpdate adds the per-user guard to an update statement when a scope is
// given. This is the repository's only access-control duty.
func scopeUpdate(q squirrel.UpdateBuilder, userID *uuid.UUID) squirrel.UpdateBuilder {
	if userID != nil {
		return q.Where(squirrel.Eq{"user_id": *userID})
	}
	return q
}
