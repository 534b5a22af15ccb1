package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/platform/logger"
	"github.com/phrazzld/store-rating-api/internal/store"
)

// CreateStoreInput is an admin request to register a store.
type CreateStoreInput struct {
	Name    string
	Email   string
	Address string
	OwnerID uuid.UUID
}

// UpdateStoreInput is a partial admin update. Nil fields are left unchanged.
type UpdateStoreInput struct {
	Name    *string
	Email   *string
	Address *string
	OwnerID *uuid.UUID
}

// OwnerStoreRatings is a store as seen by its owner, with every rating and its author.
type OwnerStoreRatings struct {
	Store   *domain.Store              `json:"store"`
	Ratings []*domain.RatingWithAuthor `json:"ratings"`
}

// StoreService provides store management for admins, the owner views, and the
// store listing shown to normal users.
type StoreService interface {
	CreateStore(ctx context.Context, in CreateStoreInput) (*domain.Store, error)
	ListStores(ctx context.Context, filter domain.StoreFilter, opts domain.ListOptions) ([]*domain.StoreWithOwner, domain.Pagination, error)
	GetStore(ctx context.Context, storeID uuid.UUID) (*domain.StoreWithOwner, error)
	UpdateStore(ctx context.Context, storeID uuid.UUID, in UpdateStoreInput) (*domain.Store, error)

	// DeleteStore removes a store with no ratings. It returns ErrHasRatings otherwise.
	DeleteStore(ctx context.Context, storeID uuid.UUID) error

	ListOwnerStores(ctx context.Context, ownerID uuid.UUID) ([]*domain.Store, error)

	// GetOwnerStoreRatings returns ErrNotFoundOrNotOwner both for a missing store
	// and for a store owned by someone else.
	GetOwnerStoreRatings(ctx context.Context, ownerID, storeID uuid.UUID) (*OwnerStoreRatings, error)

	// ListStoresForUser lists stores together with the caller's own rating of each.
	ListStoresForUser(ctx context.Context, userID uuid.UUID, filter domain.StoreFilter, opts domain.ListOptions) ([]*domain.UserStoreView, domain.Pagination, error)
}

// storeServiceImpl implements the StoreService interface
type storeServiceImpl struct {
	tx          store.Transactor
	storeStore  store.StoreStore
	userStore   store.UserStore
	ratingStore store.RatingStore
	logger      *slog.Logger
}

// NewStoreService creates a new StoreService
func NewStoreService(
	tx store.Transactor,
	storeStore store.StoreStore,
	userStore store.UserStore,
	ratingStore store.RatingStore,
	logger *slog.Logger,
) StoreService {
	if logger == nil {
		logger = slog.Default()
	}
	return &storeServiceImpl{
		tx:          tx,
		storeStore:  storeStore,
		userStore:   userStore,
		ratingStore: ratingStore,
		logger:      logger.With(slog.String("component", "store_service")),
	}
}

func (s *storeServiceImpl) CreateStore(ctx context.Context, in CreateStoreInput) (*domain.Store, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	st, err := domain.NewStore(in.Name, in.Email, in.Address, in.OwnerID)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := validateOwner(ctx, s.userStore.WithTx(tx), in.OwnerID); err != nil {
			return err
		}
		return s.storeStore.WithTx(tx).Create(ctx, st)
	})
	if err != nil {
		s.logWriteError(log, "failed to create store", st.ID, err)
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	log.Info("store created",
		slog.String("store_id", st.ID.String()),
		slog.String("owner_id", st.OwnerID.String()))
	return st, nil
}

func (s *storeServiceImpl) ListStores(
	ctx context.Context,
	filter domain.StoreFilter,
	opts domain.ListOptions,
) ([]*domain.StoreWithOwner, domain.Pagination, error) {
	opts = opts.Normalize()

	stores, total, err := s.storeStore.List(ctx, filter, opts)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list stores",
			slog.String("error", err.Error()))
		return nil, domain.Pagination{}, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, domain.NewPagination(total, opts), nil
}

func (s *storeServiceImpl) GetStore(ctx context.Context, storeID uuid.UUID) (*domain.StoreWithOwner, error) {
	st, err := s.storeStore.GetWithOwner(ctx, storeID)
	if err != nil {
		if !errors.Is(err, store.ErrStoreNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve store",
				slog.String("error", err.Error()),
				slog.String("store_id", storeID.String()))
		}
		return nil, fmt.Errorf("failed to retrieve store: %w", err)
	}
	return st, nil
}

func (s *storeServiceImpl) UpdateStore(
	ctx context.Context,
	storeID uuid.UUID,
	in UpdateStoreInput,
) (*domain.Store, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Store
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		stores := s.storeStore.WithTx(tx)

		st, err := stores.GetByIDForUpdate(ctx, storeID)
		if err != nil {
			return err
		}

		if in.OwnerID != nil && *in.OwnerID != st.OwnerID {
			if err := validateOwner(ctx, s.userStore.WithTx(tx), *in.OwnerID); err != nil {
				return err
			}
			st.OwnerID = *in.OwnerID
		}
		if in.Name != nil {
			st.Name = strings.TrimSpace(*in.Name)
		}
		if in.Email != nil {
			st.Email = domain.NormalizeEmail(*in.Email)
		}
		if in.Address != nil {
			st.Address = strings.TrimSpace(*in.Address)
		}
		if err := st.Validate(); err != nil {
			return err
		}

		if err := stores.Update(ctx, st); err != nil {
			return err
		}
		updated = st
		return nil
	})
	if err != nil {
		s.logWriteError(log, "failed to update store", storeID, err)
		return nil, fmt.Errorf("failed to update store: %w", err)
	}

	log.Info("store updated", slog.String("store_id", storeID.String()))
	return updated, nil
}

// DeleteStore locks the store row so no rating can be added between the
// ratings_count check and the delete.
func (s *storeServiceImpl) DeleteStore(ctx context.Context, storeID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		stores := s.storeStore.WithTx(tx)

		st, err := stores.GetByIDForUpdate(ctx, storeID)
		if err != nil {
			return err
		}
		if st.RatingsCount > 0 {
			return ErrHasRatings
		}

		err = stores.Delete(ctx, storeID)
		if errors.Is(err, store.ErrReferenced) {
			return fmt.Errorf("%w: %v", ErrHasRatings, err)
		}
		return err
	})
	if err != nil {
		s.logWriteError(log, "failed to delete store", storeID, err)
		return fmt.Errorf("failed to delete store: %w", err)
	}

	log.Info("store deleted", slog.String("store_id", storeID.String()))
	return nil
}

func (s *storeServiceImpl) ListOwnerStores(ctx context.Context, ownerID uuid.UUID) ([]*domain.Store, error) {
	stores, err := s.storeStore.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list owner stores",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("failed to list owner stores: %w", err)
	}
	return stores, nil
}

func (s *storeServiceImpl) GetOwnerStoreRatings(
	ctx context.Context,
	ownerID, storeID uuid.UUID,
) (*OwnerStoreRatings, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	st, err := s.storeStore.GetOwnedBy(ctx, storeID, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrStoreNotFound) {
			log.Debug("owner requested ratings of a store they do not own",
				slog.String("store_id", storeID.String()),
				slog.String("owner_id", ownerID.String()))
			return nil, ErrNotFoundOrNotOwner
		}
		log.Error("failed to retrieve owned store",
			slog.String("error", err.Error()),
			slog.String("store_id", storeID.String()))
		return nil, fmt.Errorf("failed to retrieve store: %w", err)
	}

	ratings, err := s.ratingStore.ListByStoreWithAuthors(ctx, storeID)
	if err != nil {
		log.Error("failed to list store ratings",
			slog.String("error", err.Error()),
			slog.String("store_id", storeID.String()))
		return nil, fmt.Errorf("failed to list store ratings: %w", err)
	}

	return &OwnerStoreRatings{Store: st, Ratings: ratings}, nil
}

func (s *storeServiceImpl) ListStoresForUser(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.StoreFilter,
	opts domain.ListOptions,
) ([]*domain.UserStoreView, domain.Pagination, error) {
	opts = opts.Normalize()

	stores, total, err := s.storeStore.ListForUser(ctx, userID, filter, opts)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list stores for user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, domain.Pagination{}, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, domain.NewPagination(total, opts), nil
}

func (s *storeServiceImpl) logWriteError(log *slog.Logger, msg string, storeID uuid.UUID, err error) {
	attrs := []any{slog.String("error", err.Error()), slog.String("store_id", storeID.String())}

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, store.ErrStoreNotFound),
		errors.Is(err, ErrOwnerNotFound),
		errors.Is(err, ErrInvalidOwner),
		errors.Is(err, ErrHasRatings):
		log.Debug(msg, attrs...)
	default:
		log.Error(msg, attrs...)
	}
}

// validateOwner checks that ownerID names an existing STORE_OWNER. The owner row
// stays locked so a concurrent demotion waits for the store write to commit.
func validateOwner(ctx context.Context, users store.UserStore, ownerID uuid.UUID) error {
	owner, err := users.GetByIDForUpdate(ctx, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrOwnerNotFound
		}
		return fmt.Errorf("failed to look up owner: %w", err)
	}
	if owner.Role != domain.RoleStoreOwner {
		return ErrInvalidOwner
	}
	return nil
}
