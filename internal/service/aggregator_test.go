package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/mocks"
	"github.com/phrazzld/store-rating-api/internal/platform/metrics"
	"github.com/phrazzld/store-rating-api/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRatingAggregatorRecompute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		mean  float64
		count int
		want  domain.RatingSummary
	}{
		{name: "single rating", mean: 4, count: 1, want: domain.RatingSummary{Average: 4, Count: 1}},
		{name: "rounds to two decimals", mean: 10.0 / 3.0, count: 3, want: domain.RatingSummary{Average: 3.33, Count: 3}},
		{name: "rounds half up", mean: 3.875, count: 8, want: domain.RatingSummary{Average: 3.88, Count: 8}},
		{name: "no ratings", mean: 0, count: 0, want: domain.RatingSummary{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			storeID := uuid.New()
			ratings := new(mocks.MockRatingStore)
			stores := new(mocks.MockStoreStore)
			ratings.On("Summarize", mock.Anything, storeID).Return(tc.mean, tc.count, nil)
			stores.On("UpdateRatingSummary", mock.Anything, storeID, tc.want).Return(nil)

			agg := service.NewRatingAggregator(nil, testLogger())
			got, err := agg.Recompute(context.Background(), ratings, stores, storeID)

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			ratings.AssertExpectations(t)
			stores.AssertExpectations(t)
		})
	}
}

func TestRatingAggregatorRecomputeErrors(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("connection reset")

	t.Run("summarize fails", func(t *testing.T) {
		t.Parallel()

		storeID := uuid.New()
		ratings := new(mocks.MockRatingStore)
		stores := new(mocks.MockStoreStore)
		ratings.On("Summarize", mock.Anything, storeID).Return(0.0, 0, dbErr)

		_, err := service.NewRatingAggregator(nil, nil).Recompute(context.Background(), ratings, stores, storeID)

		assert.ErrorIs(t, err, dbErr)
		stores.AssertNotCalled(t, "UpdateRatingSummary", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("write fails", func(t *testing.T) {
		t.Parallel()

		storeID := uuid.New()
		ratings := new(mocks.MockRatingStore)
		stores := new(mocks.MockStoreStore)
		ratings.On("Summarize", mock.Anything, storeID).Return(5.0, 2, nil)
		stores.On("UpdateRatingSummary", mock.Anything, storeID, mock.Anything).Return(dbErr)

		_, err := service.NewRatingAggregator(nil, nil).Recompute(context.Background(), ratings, stores, storeID)

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestRatingAggregatorRecordsDuration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	storeID := uuid.New()
	ratings := new(mocks.MockRatingStore)
	stores := new(mocks.MockStoreStore)
	ratings.On("Summarize", mock.Anything, storeID).Return(2.0, 1, nil)
	stores.On("UpdateRatingSummary", mock.Anything, storeID, mock.Anything).Return(nil)

	_, err := service.NewRatingAggregator(m, testLogger()).Recompute(context.Background(), ratings, stores, storeID)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	var samples uint64
	for _, f := range families {
		if f.GetName() == "ratings_rating_recompute_duration_seconds" {
			samples = f.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(1), samples)
}
