package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/platform/logger"
	"github.com/phrazzld/store-rating-api/internal/platform/metrics"
	"github.com/phrazzld/store-rating-api/internal/store"
)

// RatingAggregator keeps a store's average_rating and ratings_count equal to
// the aggregate of its rating rows.
type RatingAggregator struct {
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewRatingAggregator creates a RatingAggregator. A nil metrics value disables
// the recompute histogram.
func NewRatingAggregator(m *metrics.Metrics, logger *slog.Logger) *RatingAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &RatingAggregator{
		metrics: m,
		logger:  logger.With(slog.String("component", "rating_aggregator")),
	}
}

// Recompute reads the mean and count of the store's ratings and writes them onto
// the store row. Pass stores bound to the transaction that wrote the rating so
// both writes commit together.
func (a *RatingAggregator) Recompute(
	ctx context.Context,
	ratings store.RatingStore,
	stores store.StoreStore,
	storeID uuid.UUID,
) (domain.RatingSummary, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)
	start := time.Now()
	defer func() { a.metrics.ObserveRecompute(time.Since(start)) }()

	mean, count, err := ratings.Summarize(ctx, storeID)
	if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("failed to summarize ratings: %w", err)
	}

	summary := domain.NewRatingSummary(mean, count)
	if err := stores.UpdateRatingSummary(ctx, storeID, summary); err != nil {
		return domain.RatingSummary{}, fmt.Errorf("failed to write rating summary: %w", err)
	}

	log.Debug("recomputed store rating",
		slog.String("store_id", storeID.String()),
		slog.Float64("average_rating", summary.Average),
		slog.Int("ratings_count", summary.Count))

	return summary, nil
}
