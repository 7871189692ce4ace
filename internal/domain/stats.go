package domain

import (
	"time"

	"github.com/google/uuid"
)

// IntentCount is a per-intent usage count.
type IntentCount struct {
	Intent Intent
	Count  int
}

// WeekdayCount is a usage count for one day of the week (0=Sunday..6=Saturday).
type WeekdayCount struct {
	Weekday int
	Count   int
}

// HourCount is a usage count for one hour of the day (0..23).
type HourCount struct {
	Hour  int
	Count int
}

// DayCount is a usage count for one calendar day.
type DayCount struct {
	Day   time.Time
	Count int
}

// UsageSummary aggregates a user's command history for the dashboard.
// Only active records are counted.
type UsageSummary struct {
	TotalCount    int
	PerIntent     []IntentCount
	PerWeekday    []WeekdayCount
	PerHour       []HourCount
	LastUsedAt    *time.Time
	BusiestIntent *IntentCount
	PeakHour      *HourCount
}

// UsageTrends describes usage over a rolling window.
type UsageTrends struct {
	DailyCounts       []DayCount
	SuccessRate       float64 // percentage of success=true records in the window
	CurrentMonth      int
	PreviousMonth     int
	MonthOverMonthPct float64 // 0 when the previous month had no commands
	DailyAverage      float64
}

// UsageSnapshot is the derived per-(user, day) aggregate. It is a recomputable
// cache over interactions and may be rebuilt at any time.
type UsageSnapshot struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Day          time.Time
	CommandCount int
	MinutesUsed  int
	SuccessCount int
	FailureCount int
}
