package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockRatingStore is a testify mock of store.RatingStore.
type MockRatingStore struct {
	mock.Mock
}

var _ store.RatingStore = (*MockRatingStore)(nil)

func (m *MockRatingStore) Create(ctx context.Context, r *domain.Rating) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRatingStore) GetByUserAndStore(ctx context.Context, userID, storeID uuid.UUID) (*domain.Rating, error) {
	args := m.Called(ctx, userID, storeID)
	if r, ok := args.Get(0).(*domain.Rating); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRatingStore) Update(ctx context.Context, r *domain.Rating) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRatingStore) ListByStoreWithAuthors(ctx context.Context, storeID uuid.UUID) ([]*domain.RatingWithAuthor, error) {
	args := m.Called(ctx, storeID)
	ratings, _ := args.Get(0).([]*domain.RatingWithAuthor)
	return ratings, args.Error(1)
}

func (m *MockRatingStore) Summarize(ctx context.Context, storeID uuid.UUID) (float64, int, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

func (m *MockRatingStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// WithTx returns the mock itself so expectations carry into transactions.
func (m *MockRatingStore) WithTx(tx *sql.Tx) store.RatingStore {
	return m
}
