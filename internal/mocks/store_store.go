package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockStoreStore is a testify mock of store.StoreStore.
type MockStoreStore struct {
	mock.Mock
}

var _ store.StoreStore = (*MockStoreStore)(nil)

func (m *MockStoreStore) Create(ctx context.Context, s *domain.Store) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStoreStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*domain.Store); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStoreStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*domain.Store); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStoreStore) GetWithOwner(ctx context.Context, id uuid.UUID) (*domain.StoreWithOwner, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*domain.StoreWithOwner); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStoreStore) GetOwnedBy(ctx context.Context, id, ownerID uuid.UUID) (*domain.Store, error) {
	args := m.Called(ctx, id, ownerID)
	if s, ok := args.Get(0).(*domain.Store); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStoreStore) Update(ctx context.Context, s *domain.Store) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStoreStore) UpdateRatingSummary(ctx context.Context, id uuid.UUID, summary domain.RatingSummary) error {
	args := m.Called(ctx, id, summary)
	return args.Error(0)
}

func (m *MockStoreStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStoreStore) List(
	ctx context.Context,
	filter domain.StoreFilter,
	opts domain.ListOptions,
) ([]*domain.StoreWithOwner, int, error) {
	args := m.Called(ctx, filter, opts)
	stores, _ := args.Get(0).([]*domain.StoreWithOwner)
	return stores, args.Int(1), args.Error(2)
}

func (m *MockStoreStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.StoreFilter,
	opts domain.ListOptions,
) ([]*domain.UserStoreView, int, error) {
	args := m.Called(ctx, userID, filter, opts)
	stores, _ := args.Get(0).([]*domain.UserStoreView)
	return stores, args.Int(1), args.Error(2)
}

func (m *MockStoreStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Store, error) {
	args := m.Called(ctx, ownerID)
	stores, _ := args.Get(0).([]*domain.Store)
	return stores, args.Error(1)
}

func (m *MockStoreStore) OwnerAverageRating(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockStoreStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// WithTx returns the mock itself so expectations carry into transactions.
func (m *MockStoreStore) WithTx(tx *sql.Tx) store.StoreStore {
	return m
}
