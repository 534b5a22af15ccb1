package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/platform/logger"
	"github.com/phrazzld/store-rating-api/internal/platform/metrics"
	"github.com/phrazzld/store-rating-api/internal/store"
)

// UpdateRatingInput is a partial rating update. A nil Value keeps the score and a
// nil Comment keeps the comment; an empty Comment clears it.
type UpdateRatingInput struct {
	Value   *int
	Comment *string
}

// RatingService lets normal users rate stores. Every write recomputes the
// store's aggregate in the same transaction.
type RatingService interface {
	// CreateRating records the caller's first rating of a store.
	// It returns ErrDuplicateRating when the caller already rated it.
	CreateRating(ctx context.Context, userID, storeID uuid.UUID, value int, comment string) (*domain.Rating, error)

	// UpdateRating changes the caller's existing rating of a store.
	UpdateRating(ctx context.Context, userID, storeID uuid.UUID, in UpdateRatingInput) (*domain.Rating, error)

	// GetMyRating returns the caller's rating of a store, or nil when there is none.
	GetMyRating(ctx context.Context, userID, storeID uuid.UUID) (*domain.Rating, error)
}

// ratingServiceImpl implements the RatingService interface
type ratingServiceImpl struct {
	tx          store.Transactor
	ratingStore store.RatingStore
	storeStore  store.StoreStore
	aggregator  *RatingAggregator
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewRatingService creates a new RatingService
// It returns an error if any of the required dependencies are nil.
func NewRatingService(
	tx store.Transactor,
	ratingStore store.RatingStore,
	storeStore store.StoreStore,
	aggregator *RatingAggregator,
	m *metrics.Metrics,
	logger *slog.Logger,
) (RatingService, error) {
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	}
	if ratingStore == nil {
		return nil, domain.NewValidationError("ratingStore", "cannot be nil", domain.ErrValidation)
	}
	if storeStore == nil {
		return nil, domain.NewValidationError("storeStore", "cannot be nil", domain.ErrValidation)
	}
	if aggregator == nil {
		return nil, domain.NewValidationError("aggregator", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ratingServiceImpl{
		tx:          tx,
		ratingStore: ratingStore,
		storeStore:  storeStore,
		aggregator:  aggregator,
		metrics:     m,
		logger:      logger.With(slog.String("component", "rating_service")),
	}, nil
}

// CreateRating implements RatingService.CreateRating
// The store row is locked first so concurrent ratings of one store are serialized.
func (s *ratingServiceImpl) CreateRating(
	ctx context.Context,
	userID, storeID uuid.UUID,
	value int,
	comment string,
) (*domain.Rating, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rating, err := domain.NewRating(storeID, userID, value, comment)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		stores := s.storeStore.WithTx(tx)
		ratings := s.ratingStore.WithTx(tx)

		if _, err := stores.GetByIDForUpdate(ctx, storeID); err != nil {
			return err
		}

		_, err := ratings.GetByUserAndStore(ctx, userID, storeID)
		switch {
		case err == nil:
			return ErrDuplicateRating
		case !errors.Is(err, store.ErrRatingNotFound):
			return fmt.Errorf("failed to check existing rating: %w", err)
		}

		if err := ratings.Create(ctx, rating); err != nil {
			if errors.Is(err, store.ErrRatingExists) {
				return fmt.Errorf("%w: %v", ErrDuplicateRating, err)
			}
			return err
		}

		_, err = s.aggregator.Recompute(ctx, ratings, stores, storeID)
		return err
	})
	if err != nil {
		s.logWriteError(log, "create", userID, storeID, err)
		return nil, NewServiceError("rating", "create", err)
	}

	s.metrics.IncRatingWrite(metrics.OperationCreate)
	log.Info("rating created",
		slog.String("rating_id", rating.ID.String()),
		slog.String("store_id", storeID.String()),
		slog.Int("rating_value", rating.Value))
	return rating, nil
}

// UpdateRating implements RatingService.UpdateRating
func (s *ratingServiceImpl) UpdateRating(
	ctx context.Context,
	userID, storeID uuid.UUID,
	in UpdateRatingInput,
) (*domain.Rating, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if in.Value != nil {
		if err := domain.ValidateRatingValue(*in.Value); err != nil {
			return nil, err
		}
	}

	var updated *domain.Rating
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		stores := s.storeStore.WithTx(tx)
		ratings := s.ratingStore.WithTx(tx)

		if _, err := stores.GetByIDForUpdate(ctx, storeID); err != nil {
			if errors.Is(err, store.ErrStoreNotFound) {
				return store.ErrRatingNotFound
			}
			return err
		}

		rating, err := ratings.GetByUserAndStore(ctx, userID, storeID)
		if err != nil {
			return err
		}

		if in.Value != nil {
			rating.Value = *in.Value
		}
		if in.Comment != nil {
			rating.Comment = domain.NormalizeComment(*in.Comment)
		}
		rating.UpdatedAt = time.Now().UTC()

		if err := ratings.Update(ctx, rating); err != nil {
			return err
		}

		if _, err := s.aggregator.Recompute(ctx, ratings, stores, storeID); err != nil {
			return err
		}
		updated = rating
		return nil
	})
	if err != nil {
		s.logWriteError(log, "update", userID, storeID, err)
		return nil, NewServiceError("rating", "update", err)
	}

	s.metrics.IncRatingWrite(metrics.OperationUpdate)
	log.Info("rating updated",
		slog.String("rating_id", updated.ID.String()),
		slog.String("store_id", storeID.String()),
		slog.Int("rating_value", updated.Value))
	return updated, nil
}

// GetMyRating implements RatingService.GetMyRating
func (s *ratingServiceImpl) GetMyRating(ctx context.Context, userID, storeID uuid.UUID) (*domain.Rating, error) {
	rating, err := s.ratingStore.GetByUserAndStore(ctx, userID, storeID)
	if err != nil {
		if errors.Is(err, store.ErrRatingNotFound) {
			return nil, nil
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve rating",
			slog.String("error", err.Error()),
			slog.String("store_id", storeID.String()))
		return nil, NewServiceError("rating", "get", err)
	}
	return rating, nil
}

func (s *ratingServiceImpl) logWriteError(log *slog.Logger, op string, userID, storeID uuid.UUID, err error) {
	attrs := []any{
		slog.String("operation", op),
		slog.String("error", err.Error()),
		slog.String("user_id", userID.String()),
		slog.String("store_id", storeID.String()),
	}
	switch {
	case errors.Is(err, ErrDuplicateRating),
		errors.Is(err, store.ErrNotFound):
		log.Debug("rating write rejected", attrs...)
	default:
		log.Error("rating write failed", attrs...)
	}
}
