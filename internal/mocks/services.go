package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockAuthService is a testify mock of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

var _ service.AuthService = (*MockAuthService)(nil)

func (m *MockAuthService) Signup(ctx context.Context, in service.SignupInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*service.AuthResult)
	return res, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*service.AuthResult)
	return res, args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	args := m.Called(ctx, userID, oldPassword, newPassword)
	return args.Error(0)
}

// MockUserService is a testify mock of service.UserService.
type MockUserService struct {
	mock.Mock
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) CreateUser(ctx context.Context, in service.CreateUserInput) (*domain.User, error) {
	args := m.Called(ctx, in)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserService) ListUsers(
	ctx context.Context,
	filter domain.UserFilter,
	opts domain.ListOptions,
) ([]*domain.User, domain.Pagination, error) {
	args := m.Called(ctx, filter, opts)
	users, _ := args.Get(0).([]*domain.User)
	page, _ := args.Get(1).(domain.Pagination)
	return users, page, args.Error(2)
}

func (m *MockUserService) GetUserDetail(ctx context.Context, userID uuid.UUID) (*service.UserDetail, error) {
	args := m.Called(ctx, userID)
	detail, _ := args.Get(0).(*service.UserDetail)
	return detail, args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, userID uuid.UUID, in service.UpdateUserInput) (*domain.User, error) {
	args := m.Called(ctx, userID, in)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	args := m.Called(ctx, actorID, targetID)
	return args.Error(0)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, in service.UpdateProfileInput) (*domain.User, error) {
	args := m.Called(ctx, userID, in)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

// MockStoreService is a testify mock of service.StoreService.
type MockStoreService struct {
	mock.Mock
}

var _ service.StoreService = (*MockStoreService)(nil)

func (m *MockStoreService) CreateStore(ctx context.Context, in service.CreateStoreInput) (*domain.Store, error) {
	args := m.Called(ctx, in)
	st, _ := args.Get(0).(*domain.Store)
	return st, args.Error(1)
}

func (m *MockStoreService) ListStores(
	ctx context.Context,
	filter domain.StoreFilter,
	opts domain.ListOptions,
) ([]*domain.StoreWithOwner, domain.Pagination, error) {
	args := m.Called(ctx, filter, opts)
	stores, _ := args.Get(0).([]*domain.StoreWithOwner)
	page, _ := args.Get(1).(domain.Pagination)
	return stores, page, args.Error(2)
}

func (m *MockStoreService) GetStore(ctx context.Context, storeID uuid.UUID) (*domain.StoreWithOwner, error) {
	args := m.Called(ctx, storeID)
	st, _ := args.Get(0).(*domain.StoreWithOwner)
	return st, args.Error(1)
}

func (m *MockStoreService) UpdateStore(ctx context.Context, storeID uuid.UUID, in service.UpdateStoreInput) (*domain.Store, error) {
	args := m.Called(ctx, storeID, in)
	st, _ := args.Get(0).(*domain.Store)
	return st, args.Error(1)
}

func (m *MockStoreService) DeleteStore(ctx context.Context, storeID uuid.UUID) error {
	args := m.Called(ctx, storeID)
	return args.Error(0)
}

func (m *MockStoreService) ListOwnerStores(ctx context.Context, ownerID uuid.UUID) ([]*domain.Store, error) {
	args := m.Called(ctx, ownerID)
	stores, _ := args.Get(0).([]*domain.Store)
	return stores, args.Error(1)
}

func (m *MockStoreService) GetOwnerStoreRatings(ctx context.Context, ownerID, storeID uuid.UUID) (*service.OwnerStoreRatings, error) {
	args := m.Called(ctx, ownerID, storeID)
	res, _ := args.Get(0).(*service.OwnerStoreRatings)
	return res, args.Error(1)
}

func (m *MockStoreService) ListStoresForUser(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.StoreFilter,
	opts domain.ListOptions,
) ([]*domain.UserStoreView, domain.Pagination, error) {
	args := m.Called(ctx, userID, filter, opts)
	stores, _ := args.Get(0).([]*domain.UserStoreView)
	page, _ := args.Get(1).(domain.Pagination)
	return stores, page, args.Error(2)
}

// MockRatingService is a testify mock of service.RatingService.
type MockRatingService struct {
	mock.Mock
}

var _ service.RatingService = (*MockRatingService)(nil)

func (m *MockRatingService) CreateRating(
	ctx context.Context,
	userID, storeID uuid.UUID,
	value int,
	comment string,
) (*domain.Rating, error) {
	args := m.Called(ctx, userID, storeID, value, comment)
	r, _ := args.Get(0).(*domain.Rating)
	return r, args.Error(1)
}

func (m *MockRatingService) UpdateRating(
	ctx context.Context,
	userID, storeID uuid.UUID,
	in service.UpdateRatingInput,
) (*domain.Rating, error) {
	args := m.Called(ctx, userID, storeID, in)
	r, _ := args.Get(0).(*domain.Rating)
	return r, args.Error(1)
}

func (m *MockRatingService) GetMyRating(ctx context.Context, userID, storeID uuid.UUID) (*domain.Rating, error) {
	args := m.Called(ctx, userID, storeID)
	r, _ := args.Get(0).(*domain.Rating)
	return r, args.Error(1)
}

// MockDashboardService is a testify mock of service.DashboardService.
type MockDashboardService struct {
	mock.Mock
}

var _ service.DashboardService = (*MockDashboardService)(nil)

func (m *MockDashboardService) Stats(ctx context.Context) (*service.DashboardStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*service.DashboardStats)
	return stats, args.Error(1)
}
