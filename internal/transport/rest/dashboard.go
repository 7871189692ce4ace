package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/vozlab/asistente-backend/internal/domain"
)

// statsService defines the minimal interface needed by DashboardHandler.
type statsService interface {
	Summarize(ctx context.Context) (*domain.UsageSummary, error)
	Trends(ctx context.Context, windowDays int) (*domain.UsageTrends, error)
}

// DashboardHandler serves usage dashboard REST endpoints.
type DashboardHandler struct {
	svc statsService
	log *slog.Logger
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(svc statsService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, log: logger.With("handler", "dashboard")}
}

type intentCountResponse struct {
	Intent string `json:"intent"`
	Count  int    `json:"count"`
}

type weekdayCountResponse struct {
	Weekday int `json:"weekday"`
	Count   int `json:"count"`
}

type hourCountResponse struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type dayCountResponse struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type summaryResponse struct {
	TotalCount    int                    `json:"totalCount"`
	PerIntent     []intentCountResponse  `json:"perIntent"`
	PerWeekday    []weekdayCountResponse `json:"perWeekday"`
	PerHour       []hourCountResponse    `json:"perHour"`
	LastUsedAt    *time.Time             `json:"lastUsedAt,omitempty"`
	BusiestIntent *intentCountResponse   `json:"busiestIntent,omitempty"`
	PeakHour      *hourCountResponse     `json:"peakHour,omitempty"`
	Trends        trendsResponse         `json:"trends"`
}

type trendsResponse struct {
	DailyCounts       []dayCountResponse `json:"dailyCounts"`
	SuccessRate       float64            `json:"successRate"`
	CurrentMonth      int                `json:"currentMonth"`
	PreviousMonth     int                `json:"previousMonth"`
	MonthOverMonthPct float64            `json:"monthOverMonthPct"`
	DailyAverage      float64            `json:"dailyAverage"`
}

// Summary handles GET /dashboard/summary?window=.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	windowDays := 0
	if v := r.URL.Query().Get("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid window")
			return
		}
		windowDays = n
	}

	summary, err := h.svc.Summarize(r.Context())
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	trends, err := h.svc.Trends(r.Context(), windowDays)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(summary, trends))
}

func toSummaryResponse(s *domain.UsageSummary, t *domain.UsageTrends) summaryResponse {
	resp := summaryResponse{
		TotalCount: s.TotalCount,
		PerIntent:  make([]intentCountResponse, 0, len(s.PerIntent)),
		PerWeekday: make([]weekdayCountResponse, 0, len(s.PerWeekday)),
		PerHour:    make([]hourCountResponse, 0, len(s.PerHour)),
		LastUsedAt: s.LastUsedAt,
		Trends: trendsResponse{
			DailyCounts:       make([]dayCountResponse, 0, len(t.DailyCounts)),
			SuccessRate:       t.SuccessRate,
			CurrentMonth:      t.CurrentMonth,
			PreviousMonth:     t.PreviousMonth,
			MonthOverMonthPct: t.MonthOverMonthPct,
			DailyAverage:      t.DailyAverage,
		},
	}

	for _, c := range s.PerIntent {
		resp.PerIntent = append(resp.PerIntent, intentCountResponse{Intent: c.Intent.String(), Count: c.Count})
	}
	for _, c := range s.PerWeekday {
		resp.PerWeekday = append(resp.PerWeekday, weekdayCountResponse{Weekday: c.Weekday, Count: c.Count})
	}
	for _, c := range s.PerHour {
		resp.PerHour = append(resp.PerHour, hourCountResponse{Hour: c.Hour, Count: c.Count})
	}
	if s.BusiestIntent != nil {
		resp.BusiestIntent = &intentCountResponse{Intent: s.BusiestIntent.Intent.String(), Count: s.BusiestIntent.Count}
	}
	if s.PeakHour != nil {
		resp.PeakHour = &hourCountResponse{Hour: s.PeakHour.Hour, Count: s.PeakHour.Count}
	}
	for _, c := range t.DailyCounts {
		resp.Trends.DailyCounts = append(resp.Trends.DailyCounts, dayCountResponse{
			Day:   c.Day.Format("2006-01-02"),
			Count: c.Count,
		})
	}

	return resp
}
