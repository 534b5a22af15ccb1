package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/domain"
)

// StoreStore defines the interface for persisting rateable stores.
type StoreStore interface {
	// Create saves a new store. The owner reference is checked by the caller;
	// a dangling owner_id yields ErrInvalidEntity.
	Create(ctx context.Context, s *domain.Store) error

	// GetByID retrieves a store by ID.
	// Returns ErrStoreNotFound if the store does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Store, error)

	// GetByIDForUpdate retrieves a store and locks its row until the surrounding
	// transaction ends. It must be called on a transaction-bound store.
	// Returns ErrStoreNotFound if the store does not exist.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Store, error)

	// GetWithOwner retrieves a store joined with its owner's identity.
	// Returns ErrStoreNotFound if the store does not exist.
	GetWithOwner(ctx context.Context, id uuid.UUID) (*domain.StoreWithOwner, error)

	// GetOwnedBy retrieves a store only if ownerID owns it.
	// Returns ErrStoreNotFound both when the store is missing and when it belongs to someone else.
	GetOwnedBy(ctx context.Context, id, ownerID uuid.UUID) (*domain.Store, error)

	// Update writes the client-settable fields (name, email, address, owner).
	// Returns ErrStoreNotFound if the store does not exist.
	Update(ctx context.Context, s *domain.Store) error

	// UpdateRatingSummary writes the derived average and count onto a store.
	// Returns ErrStoreNotFound if the store does not exist.
	UpdateRatingSummary(ctx context.Context, id uuid.UUID, summary domain.RatingSummary) error

	// Delete removes a store by ID.
	// Returns ErrStoreNotFound if the store does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one page of stores with owner identity, plus the total match count.
	List(ctx context.Context, filter domain.StoreFilter, opts domain.ListOptions) ([]*domain.StoreWithOwner, int, error)

	// ListForUser returns one page of stores, each with userID's own rating if any.
	ListForUser(ctx context.Context, userID uuid.UUID, filter domain.StoreFilter, opts domain.ListOptions) ([]*domain.UserStoreView, int, error)

	// ListByOwner returns every store owned by ownerID ordered by name.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Store, error)

	// OwnerAverageRating averages every rating across all stores owned by ownerID.
	// It returns 0 when the owner's stores have no ratings.
	OwnerAverageRating(ctx context.Context, ownerID uuid.UUID) (float64, error)

	// Count returns the number of stores.
	Count(ctx context.Context) (int, error)

	// WithTx returns a new StoreStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) StoreStore
}
