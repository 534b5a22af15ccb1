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
	"github.com/phrazzld/store-rating-api/internal/service/auth"
	"github.com/phrazzld/store-rating-api/internal/store"
)

// CreateUserInput is an admin request to create an account with any role.
type CreateUserInput struct {
	Name     string
	Email    string
	Address  string
	Password string
	Role     domain.Role
}

// UpdateUserInput is a partial admin update. Nil fields are left unchanged and
// an empty Password is ignored.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Address  *string
	Role     *domain.Role
	Password *string
}

// UpdateProfileInput is a partial self-update of the caller's own profile.
type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Address  *string
	Password *string
}

// UserDetail is a user as shown to an admin. StoreOwnerAverageRating is set only
// for STORE_OWNER users and averages every rating across all their stores.
type UserDetail struct {
	*domain.User
	StoreOwnerAverageRating *float64 `json:"storeOwnerAverageRating"`
}

// UserService provides user management for admins and profile updates for users.
type UserService interface {
	// CreateUser creates a user with the role chosen by the admin.
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)

	// ListUsers returns one page of users matching filter.
	ListUsers(ctx context.Context, filter domain.UserFilter, opts domain.ListOptions) ([]*domain.User, domain.Pagination, error)

	// GetUserDetail returns the user and, for store owners, their overall average rating.
	GetUserDetail(ctx context.Context, userID uuid.UUID) (*UserDetail, error)

	// UpdateUser applies a partial admin update.
	UpdateUser(ctx context.Context, userID uuid.UUID, in UpdateUserInput) (*domain.User, error)

	// DeleteUser deletes targetID on behalf of actorID. Deleting oneself returns ErrSelfDelete.
	DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error

	// UpdateProfile applies a partial update to the caller's own account.
	UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	tx         store.Transactor
	userStore  store.UserStore
	storeStore store.StoreStore
	hasher     auth.PasswordHasher
	logger     *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	tx store.Transactor,
	userStore store.UserStore,
	storeStore store.StoreStore,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) *UserServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		tx:         tx,
		userStore:  userStore,
		storeStore: storeStore,
		hasher:     hasher,
		logger:     logger.With(slog.String("component", "user_service")),
	}
}

// CreateUser creates a new user with the specified role
// Uses a transaction so the email check and the insert see the same state
func (s *UserServiceImpl) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !in.Role.IsValid() {
		return nil, domain.NewValidationError("role", "Invalid role", domain.ErrInvalidRole)
	}
	if err := domain.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	user, err := domain.NewUser(in.Name, in.Email, in.Address, in.Role)
	if err != nil {
		return nil, err
	}
	if err := setPassword(s.hasher, user, in.Password); err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)
		if err := ensureEmailAvailable(ctx, users, user.Email); err != nil {
			return err
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to create user with existing email", slog.String("email", user.Email))
		} else {
			log.Error("failed to save user", slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user created by admin",
		slog.String("user_id", user.ID.String()),
		slog.String("role", user.Role.String()))
	return user, nil
}

// ListUsers returns the requested page and its pagination metadata.
func (s *UserServiceImpl) ListUsers(
	ctx context.Context,
	filter domain.UserFilter,
	opts domain.ListOptions,
) ([]*domain.User, domain.Pagination, error) {
	opts = opts.Normalize()

	users, total, err := s.userStore.List(ctx, filter, opts)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users",
			slog.String("error", err.Error()))
		return nil, domain.Pagination{}, fmt.Errorf("failed to list users: %w", err)
	}
	return users, domain.NewPagination(total, opts), nil
}

// GetUserDetail retrieves a user and, for owners, the average over their stores' ratings.
func (s *UserServiceImpl) GetUserDetail(ctx context.Context, userID uuid.UUID) (*UserDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			log.Error("failed to retrieve user",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	detail := &UserDetail{User: user}

	switch user.Role {
	case domain.RoleStoreOwner:
		avg, err := s.storeStore.OwnerAverageRating(ctx, user.ID)
		if err != nil {
			log.Error("failed to compute owner average rating",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, fmt.Errorf("failed to compute owner rating: %w", err)
		}
		avg = domain.RoundRating(avg)
		detail.StoreOwnerAverageRating = &avg
	case domain.RoleSystemAdmin, domain.RoleNormalUser:
	}

	return detail, nil
}

// UpdateUser applies the admin's changes in one transaction.
func (s *UserServiceImpl) UpdateUser(
	ctx context.Context,
	userID uuid.UUID,
	in UpdateUserInput,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if in.Role != nil && !in.Role.IsValid() {
		return nil, domain.NewValidationError("role", "Invalid role", domain.ErrInvalidRole)
	}

	var updated *domain.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)

		// Locked so a role change cannot interleave with a store being assigned to this user.
		user, err := users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if err := s.applyProfile(ctx, users, user, in.Name, in.Email, in.Address, in.Password); err != nil {
			return err
		}

		if in.Role != nil && *in.Role != user.Role {
			if err := s.checkRoleChange(ctx, s.storeStore.WithTx(tx), user, *in.Role); err != nil {
				return err
			}
			user.Role = *in.Role
		}

		if err := users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		logUserWriteError(log, "failed to update user", userID, err)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	log.Info("user updated by admin", slog.String("user_id", userID.String()))
	return updated, nil
}

// DeleteUser removes a user. Admins cannot delete themselves, and a user who
// still owns stores or has ratings cannot be deleted.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if actorID == targetID {
		return ErrSelfDelete
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		err := s.userStore.WithTx(tx).Delete(ctx, targetID)
		if errors.Is(err, store.ErrReferenced) {
			return fmt.Errorf("%w: %v", ErrUserInUse, err)
		}
		return err
	})
	if err != nil {
		logUserWriteError(log, "failed to delete user", targetID, err)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	log.Info("user deleted by admin",
		slog.String("user_id", targetID.String()),
		slog.String("actor_id", actorID.String()))
	return nil
}

// UpdateProfile lets a user change their own name, email, address or password.
func (s *UserServiceImpl) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	in UpdateProfileInput,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)

		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := s.applyProfile(ctx, users, user, in.Name, in.Email, in.Address, in.Password); err != nil {
			return err
		}
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		logUserWriteError(log, "failed to update profile", userID, err)
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	log.Info("profile updated", slog.String("user_id", userID.String()))
	return updated, nil
}

// applyProfile copies the provided fields onto user. A changed email must be
// free, and a non-empty password must satisfy the policy.
func (s *UserServiceImpl) applyProfile(
	ctx context.Context,
	users store.UserStore,
	user *domain.User,
	name, email, address, password *string,
) error {
	if name != nil {
		user.Name = strings.TrimSpace(*name)
	}
	if address != nil {
		user.Address = strings.TrimSpace(*address)
	}
	if email != nil {
		normalized := domain.NormalizeEmail(*email)
		if normalized != user.Email {
			if err := domain.ValidateEmail(normalized); err != nil {
				return err
			}
			if err := ensureEmailAvailable(ctx, users, normalized); err != nil {
				return err
			}
			user.Email = normalized
		}
	}
	if err := user.Validate(); err != nil {
		return err
	}

	if password != nil && *password != "" {
		if err := domain.ValidatePassword(*password); err != nil {
			return err
		}
		if err := setPassword(s.hasher, user, *password); err != nil {
			return err
		}
	}
	return nil
}

// checkRoleChange rejects demoting a store owner who still owns stores.
func (s *UserServiceImpl) checkRoleChange(
	ctx context.Context,
	stores store.StoreStore,
	user *domain.User,
	newRole domain.Role,
) error {
	if user.Role != domain.RoleStoreOwner || newRole == domain.RoleStoreOwner {
		return nil
	}
	owned, err := stores.ListByOwner(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to list owned stores: %w", err)
	}
	if len(owned) > 0 {
		return ErrOwnerHasStores
	}
	return nil
}

// logUserWriteError logs unexpected failures at ERROR and expected ones at DEBUG.
func logUserWriteError(log *slog.Logger, msg string, userID uuid.UUID, err error) {
	attrs := []any{slog.String("error", err.Error()), slog.String("user_id", userID.String())}

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrEmailExists),
		errors.Is(err, ErrUserInUse),
		errors.Is(err, ErrOwnerHasStores):
		log.Debug(msg, attrs...)
	default:
		log.Error(msg, attrs...)
	}
}
