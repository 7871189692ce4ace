package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vozlab/asistente-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user with the default role. Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:           uuid.New(),
		FullName:     "Test User " + suffix,
		Username:     "testuser-" + suffix,
		Email:        "testuser-" + suffix + "@example.com",
		PasswordHash: "$2a$10$testhashtesthashtesthashtesthashtesthashtesthashtesth",
		Role:         domain.UserRoleUser,
		Active:       true,
		CreatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, full_name, username, email, password_hash, role, active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.FullName, user.Username, user.Email, user.PasswordHash, string(user.Role), user.Active, user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return user
}

// SeedInteraction creates one active interaction for a user at the given
// timestamp. Returns the filled domain.Interaction.
func SeedInteraction(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, intent domain.Intent, success bool, at time.Time) domain.Interaction {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	rec := domain.Interaction{
		ID:        uuid.New(),
		UserID:    &userID,
		Utterance: "utterance " + suffix,
		Intent:    intent,
		Response:  "response " + suffix,
		Success:   success,
		CreatedAt: at.UTC().Truncate(time.Microsecond),
		Active:    true,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO interactions (id, user_id, utterance, intent, response, success, created_at, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.UserID, rec.Utterance, rec.Intent.String(), rec.Response, rec.Success, rec.CreatedAt, rec.Active,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedInteraction insert: %v", err)
	}

	return rec
}
