// Package stats aggregates interaction history into dashboard figures. It is
// a read-only consumer of the history; its only write is the per-day usage
// snapshot cache.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vozlab/asistente-backend/internal/domain"
	"github.com/vozlab/asistente-backend/pkg/ctxutil"
)

// defaultWindowDays is the trends window when the caller gives none.
const defaultWindowDays = 30

// maxWindowDays bounds the trends window.
const maxWindowDays = 365

// interactionRepo provides the read-only aggregates over the history.
type interactionRepo interface {
	CountActive(ctx context.Context, userID uuid.UUID) (int, error)
	CountByIntent(ctx context.Context, userID uuid.UUID) ([]domain.IntentCount, error)
	CountByWeekday(ctx context.Context, userID uuid.UUID) ([]domain.WeekdayCount, error)
	CountByHour(ctx context.Context, userID uuid.UUID) ([]domain.HourCount, error)
	DailyCounts(ctx context.Context, userID uuid.UUID, from time.Time) ([]domain.DayCount, error)
	LastUsedAt(ctx context.Context, userID uuid.UUID) (*time.Time, error)
	SuccessTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) (total, ok int, err error)
	ActiveMinutes(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error)
}

// snapshotRepo persists the per-day usage cache.
type snapshotRepo interface {
	Upsert(ctx context.Context, s *domain.UsageSnapshot) error
}

// Service implements usage aggregation.
type Service struct {
	log          *slog.Logger
	interactions interactionRepo
	snapshots    snapshotRepo
	now          func() time.Time
}

// NewService creates a new stats service instance.
func NewService(logger *slog.Logger, interactions interactionRepo, snapshots snapshotRepo) *Service {
	return &Service{
		log:          logger.With("service", "stats"),
		interactions: interactions,
		snapshots:    snapshots,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Summarize returns the caller's all-time usage summary over active records.
// As a side effect it refreshes today's usage snapshot; a failed refresh is
// logged and does not fail the summary.
func (s *Service) Summarize(ctx context.Context) (*domain.UsageSummary, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	total, err := s.interactions.CountActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("stats.Summarize count: %w", err)
	}

	perIntent, err := s.interactions.CountByIntent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("stats.Summarize by intent: %w", err)
	}

	perWeekday, err := s.interactions.CountByWeekday(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("stats.Summarize by weekday: %w", err)
	}

	perHour, err := s.interactions.CountByHour(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("stats.Summarize by hour: %w", err)
	}

	lastUsed, err := s.interactions.LastUsedAt(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("stats.Summarize last used: %w", err)
	}

	summary := &domain.UsageSummary{
		TotalCount: total,
		PerIntent:  perIntent,
		PerWeekday: perWeekday,
		PerHour:    perHour,
		LastUsedAt: lastUsed,
	}
	// Rows arrive count DESC, tag ASC; the first one wins ties.
	if len(perIntent) > 0 {
		summary.BusiestIntent = &perIntent[0]
	}
	// Rows arrive hour ASC; strict comparison keeps the earliest hour on ties.
	for i := range perHour {
		if summary.PeakHour == nil || perHour[i].Count > summary.PeakHour.Count {
			summary.PeakHour = &perHour[i]
		}
	}

	s.refreshSnapshot(ctx, userID)

	return summary, nil
}

// Trends returns usage figures over a rolling window ending today.
// windowDays <= 0 falls back to the default of 30; values beyond a year are
// rejected.
func (s *Service) Trends(ctx context.Context, windowDays int) (*domain.UsageTrends, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	if windowDays > maxWindowDays {
		return nil, domain.NewValidationError("window", fmt.Sprintf("must be at most %d days", maxWindowDays))
	}

	now := s.now()
	today := startOfDay(now)
	from := today.AddDate(0, 0, -(windowDays - 1))

	daily, err := s.interactions.DailyCounts(ctx, userID, from)
	if err != nil {
		return nil, fmt.Errorf("stats.Trends daily: %w", err)
	}

	windowTotal, windowOK, err := s.interactions.SuccessTotals(ctx, userID, from, now)
	if err != nil {
		return nil, fmt.Errorf("stats.Trends window totals: %w", err)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	currentMonth, _, err := s.interactions.SuccessTotals(ctx, userID, monthStart, now)
	if err != nil {
		return nil, fmt.Errorf("stats.Trends current month: %w", err)
	}
	previousMonth, _, err := s.interactions.SuccessTotals(ctx, userID, prevMonthStart, monthStart)
	if err != nil {
		return nil, fmt.Errorf("stats.Trends previous month: %w", err)
	}

	trends := &domain.UsageTrends{
		DailyCounts:   daily,
		CurrentMonth:  currentMonth,
		PreviousMonth: previousMonth,
		DailyAverage:  float64(windowTotal) / float64(windowDays),
	}
	if windowTotal > 0 {
		trends.SuccessRate = float64(windowOK) / float64(windowTotal) * 100
	}
	if previousMonth > 0 {
		trends.MonthOverMonthPct = float64(currentMonth-previousMonth) / float64(previousMonth) * 100
	}

	return trends, nil
}

// refreshSnapshot recomputes and upserts today's snapshot. Errors are logged
// and swallowed; the snapshot is a cache, not the source of truth.
func (s *Service) refreshSnapshot(ctx context.Context, userID uuid.UUID) {
	day := startOfDay(s.now())
	next := day.AddDate(0, 0, 1)

	total, ok, err := s.interactions.SuccessTotals(ctx, userID, day, next)
	if err != nil {
		s.log.WarnContext(ctx, "snapshot refresh failed", slog.String("error", err.Error()))
		return
	}
	minutes, err := s.interactions.ActiveMinutes(ctx, userID, day, next)
	if err != nil {
		s.log.WarnContext(ctx, "snapshot refresh failed", slog.String("error", err.Error()))
		return
	}

	snap := &domain.UsageSnapshot{
		ID:           uuid.New(),
		UserID:       userID,
		Day:          day,
		CommandCount: total,
		MinutesUsed:  minutes,
		SuccessCount: ok,
		FailureCount: total - ok,
	}
	if err := s.snapshots.Upsert(ctx, snap); err != nil {
		s.log.WarnContext(ctx, "snapshot upsert failed", slog.String("error", err.Error()))
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
