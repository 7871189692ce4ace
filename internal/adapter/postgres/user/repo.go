// Package user implements the user repository using PostgreSQL.
package user

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vozlab/asistente-backend/internal/adapter/postgres"
	"github.com/vozlab/asistente-backend/internal/domain"
)

const table = "users"

var columns = []string{"id", "full_name", "username", "email", "password_hash", "role", "active", "created_at"}

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new user. A duplicate username or email surfaces as
// domain.ErrAlreadyExists via the unique constraints.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(u.ID, u.FullName, u.Username, u.Email, u.PasswordHash, u.Role, u.Active, u.CreatedAt).
		Suffix("RETURNING " + columnList())

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert user: %w", err)
	}

	rec, err := scanOne(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "user", u.Username)
	}

	return rec, nil
}

// GetByID returns one user by id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id}, id)
}

// GetByUsername returns one user by username.
func (r *Repo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"username": username}, username)
}

// GetByEmail returns one user by email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email}, email)
}

// UpdatePassword replaces the stored password hash.
func (r *Repo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := postgres.Builder().
		Update(table).
		Set("password_hash", passwordHash).
		Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update password: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "user", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %v: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *Repo) getBy(ctx context.Context, pred squirrel.Eq, ref any) (*domain.User, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(pred)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user: %w", err)
	}

	rec, err := scanOne(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "user", ref)
	}

	return rec, nil
}

func scanOne(row interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := row.Scan(&u.ID, &u.FullName, &u.Username, &u.Email, &u.PasswordHash, &role, &u.Active, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = domain.UserRole(role)
	return &u, nil
}

func columnList() string {
	s := columns[0]
	for _, c := range columns[1:] {
		s += ", " + c
	}
	return s
}
