package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/store-rating-api/internal/platform/logger"
	"github.com/phrazzld/store-rating-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// DashboardStats are the platform totals shown on the admin dashboard.
type DashboardStats struct {
	TotalUsers   int `json:"totalUsers"`
	TotalStores  int `json:"totalStores"`
	TotalRatings int `json:"totalRatings"`
}

// DashboardService reports platform totals to admins.
type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}

type dashboardServiceImpl struct {
	userStore   store.UserStore
	storeStore  store.StoreStore
	ratingStore store.RatingStore
	logger      *slog.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	userStore store.UserStore,
	storeStore store.StoreStore,
	ratingStore store.RatingStore,
	logger *slog.Logger,
) DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &dashboardServiceImpl{
		userStore:   userStore,
		storeStore:  storeStore,
		ratingStore: ratingStore,
		logger:      logger.With(slog.String("component", "dashboard_service")),
	}
}

// Stats runs the three counts concurrently.
func (s *dashboardServiceImpl) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalUsers, err = s.userStore.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalStores, err = s.storeStore.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalRatings, err = s.ratingStore.Count(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count dashboard totals",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}
	return &stats, nil
}
