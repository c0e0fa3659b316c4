package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"qr-menu/analytics-svc/internal/domain"
	"qr-menu/auth"
)

const (
	DefaultSeriesDays = 7
	MaxSeriesDays     = 30
	DefaultTopLimit   = 10
	MaxTopLimit       = 50
)

var ErrUnavailable = errors.New("analytics are unavailable, please try again")

type AnalyticsService struct {
	stats    StatsStore
	counters CounterStore
	log      *slog.Logger
	Now      func() time.Time
}

func NewAnalyticsService(stats StatsStore, counters CounterStore, log *slog.Logger) *AnalyticsService {
	if log == nil {
		log = slog.Default()
	}
	return &AnalyticsService{stats: stats, counters: counters, log: log, Now: time.Now}
}

func (s *AnalyticsService) unavailable(op string, err error) error {
	s.log.Error("analytics store failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

// load fetches the restaurant and checks the caller may see its numbers.
func (s *AnalyticsService) load(ctx context.Context, caller *auth.Identity, restaurantID string) (*domain.RestaurantStats, error) {
	if caller == nil {
		return nil, domain.ErrForbidden
	}
	stats, err := s.stats.Stats(ctx, restaurantID)
	if errors.Is(err, domain.ErrRestaurantNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, s.unavailable("load stats", err)
	}
	if !caller.IsAdmin() && stats.OwnerID != caller.ID {
		return nil, domain.ErrForbidden
	}
	return stats, nil
}

// lastDates returns the n most recent dates ending today, oldest first.
func lastDates(today time.Time, n int) []string {
	dates := make([]string, n)
	for i := 0; i < n; i++ {
		dates[n-1-i] = today.AddDate(0, 0, -i).Format(domain.DateLayout)
	}
	return dates
}

// series merges both sources per date: the Redis counter where one exists,
// otherwise the history stored in the document. Counters expire after a week
// while the document keeps thirty days.
func (s *AnalyticsService) series(ctx context.Context, stats *domain.RestaurantStats, days int) []domain.ScanPoint {
	dates := lastDates(s.Now().UTC(), days)

	counts := make(map[string]int, len(stats.DailyScans))
	for _, p := range stats.DailyScans {
		counts[p.Date] = p.Count
	}

	live, err := s.counters.DailyCounts(ctx, stats.ID, dates)
	if err != nil {
		s.log.Warn("daily counters unavailable, using stored history", "restaurant_id", stats.ID, "error", err)
	}
	for d, n := range live {
		counts[d] = n
	}

	points := make([]domain.ScanPoint, len(dates))
	for i, d := range dates {
		points[i] = domain.ScanPoint{Date: d, Count: counts[d]}
	}
	return points
}

func (s *AnalyticsService) ScanSeries(ctx context.Context, caller *auth.Identity, restaurantID string, days int) ([]domain.ScanPoint, error) {
	if days <= 0 {
		days = DefaultSeriesDays
	}
	if days > MaxSeriesDays {
		days = MaxSeriesDays
	}
	stats, err := s.load(ctx, caller, restaurantID)
	if err != nil {
		return nil, err
	}
	return s.series(ctx, stats, days), nil
}

func (s *AnalyticsService) Summary(ctx context.Context, caller *auth.Identity, restaurantID string) (*domain.Summary, error) {
	stats, err := s.load(ctx, caller, restaurantID)
	if err != nil {
		return nil, err
	}

	week := s.series(ctx, stats, 7)
	summary := &domain.Summary{
		RestaurantID: stats.ID,
		QRScans:      stats.QRScans,
		MenuViews:    stats.MenuViews,
		Today:        week[len(week)-1].Count,
	}
	for _, p := range week {
		summary.Last7Days += p.Count
	}
	return summary, nil
}

func (s *AnalyticsService) TopScanned(ctx context.Context, limit int) ([]domain.TopRestaurant, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	if limit > MaxTopLimit {
		limit = MaxTopLimit
	}
	top, err := s.stats.TopScanned(ctx, limit)
	if err != nil {
		return nil, s.unavailable("top scanned", err)
	}
	return top, nil
}
