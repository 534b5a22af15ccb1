package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/domain"
)

// RatingStore defines the interface for rating persistence.
type RatingStore interface {
	// Create saves a new rating.
	// Returns ErrRatingExists if the user already rated the store.
	Create(ctx context.Context, r *domain.Rating) error

	// GetByUserAndStore retrieves userID's rating for storeID.
	// Returns ErrRatingNotFound if the user has not rated the store.
	GetByUserAndStore(ctx context.Context, userID, storeID uuid.UUID) (*domain.Rating, error)

	// Update writes the value and comment of an existing rating.
	// Returns ErrRatingNotFound if the rating does not exist.
	Update(ctx context.Context, r *domain.Rating) error

	// ListByStoreWithAuthors returns every rating for storeID, newest first,
	// each carrying the author's identity.
	ListByStoreWithAuthors(ctx context.Context, storeID uuid.UUID) ([]*domain.RatingWithAuthor, error)

	// Summarize returns the raw mean and count of the ratings for storeID.
	// The mean is 0 when there are no ratings.
	Summarize(ctx context.Context, storeID uuid.UUID) (mean float64, count int, err error)

	// Count returns the number of ratings.
	Count(ctx context.Context) (int, error)

	// WithTx returns a new RatingStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) RatingStore
}
