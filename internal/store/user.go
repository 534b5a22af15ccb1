package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user. HashedPassword must already be set.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByIDForUpdate retrieves a user and locks its row until the surrounding
	// transaction ends. Role checks that guard a write read through it.
	// Returns ErrUserNotFound if the user does not exist.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update writes every field of user, including HashedPassword.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrEmailExists if the new email belongs to someone else.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user by ID.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrReferenced if stores or ratings still point at the user.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one page of users matching filter and the total match count.
	List(ctx context.Context, filter domain.UserFilter, opts domain.ListOptions) ([]*domain.User, int, error)

	// Count returns the number of users.
	Count(ctx context.Context) (int, error)

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
