package stats

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vozlab/asistente-backend/internal/domain"
)

var (
	_ interactionRepo = &interactionRepoMock{}
	_ snapshotRepo    = &snapshotRepoMock{}
)

type interactionRepoMock struct {
	CountActiveFunc    func(ctx context.Context, userID uuid.UUID) (int, error)
	CountByIntentFunc  func(ctx context.Context, userID uuid.UUID) ([]domain.IntentCount, error)
	CountByWeekdayFunc func(ctx context.Context, userID uuid.UUID) ([]domain.WeekdayCount, error)
	CountByHourFunc    func(ctx context.Context, userID uuid.UUID) ([]domain.HourCount, error)
	DailyCountsFunc    func(ctx context.Context, userID uuid.UUID, from time.Time) ([]domain.DayCount, error)
	LastUsedAtFunc     func(ctx context.Context, userID uuid.UUID) (*time.Time, error)
	SuccessTotalsFunc  func(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, int, error)
	ActiveMinutesFunc  func(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error)
}

func (m *interactionRepoMock) CountActive(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.CountActiveFunc == nil {
		panic("interactionRepoMock.CountActiveFunc: method is nil but CountActive was just called")
	}
	return m.CountActiveFunc(ctx, userID)
}

func (m *interactionRepoMock) CountByIntent(ctx context.Context, userID uuid.UUID) ([]domain.IntentCount, error) {
	if m.CountByIntentFunc == nil {
		panic("interactionRepoMock.CountByIntentFunc: method is nil but CountByIntent was just called")
	}
	return m.CountByIntentFunc(ctx, userID)
}

func (m *interactionRepoMock) CountByWeekday(ctx context.Context, userID uuid.UUID) ([]domain.WeekdayCount, error) {
	if m.CountByWeekdayFunc == nil {
		panic("interactionRepoMock.CountByWeekdayFunc: method is nil but CountByWeekday was just called")
	}
	return m.CountByWeekdayFunc(ctx, userID)
}

func (m *interactionRepoMock) CountByHour(ctx context.Context, userID uuid.UUID) ([]domain.HourCount, error) {
	if m.CountByHourFunc == nil {
		panic("interactionRepoMock.CountByHourFunc: method is nil but CountByHour was just called")
	}
	return m.CountByHourFunc(ctx, userID)
}

func (m *interactionRepoMock) DailyCounts(ctx context.Context, userID uuid.UUID, from time.Time) ([]domain.DayCount, error) {
	if m.DailyCountsFunc == nil {
		panic("interactionRepoMock.DailyCountsFunc: method is nil but DailyCounts was just called")
	}
	return m.DailyCountsFunc(ctx, userID, from)
}

func (m *interactionRepoMock) LastUsedAt(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	if m.LastUsedAtFunc == nil {
		panic("interactionRepoMock.LastUsedAtFunc: method is nil but LastUsedAt was just called")
	}
	return m.LastUsedAtFunc(ctx, userID)
}

func (m *interactionRepoMock) SuccessTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, int, error) {
	if m.SuccessTotalsFunc == nil {
		panic("interactionRepoMock.SuccessTotalsFunc: method is nil but SuccessTotals was just called")
	}
	return m.SuccessTotalsFunc(ctx, userID, from, to)
}

func (m *interactionRepoMock) ActiveMinutes(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error) {
	if m.ActiveMinutesFunc == nil {
		panic("interactionRepoMock.ActiveMinutesFunc: method is nil but ActiveMinutes was just called")
	}
	return m.ActiveMinutesFunc(ctx, userID, from, to)
}

type snapshotRepoMock struct {
	UpsertFunc func(ctx context.Context, s *domain.UsageSnapshot) error
}

func (m *snapshotRepoMock) Upsert(ctx context.Context, s *domain.UsageSnapshot) error {
	if m.UpsertFunc == nil {
		panic("snapshotRepoMock.UpsertFunc: method is nil but Upsert was just called")
	}
	return m.UpsertFunc(ctx, s)
}
