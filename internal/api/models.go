package api

import (
	"github.com/phrazzld/store-rating-api/internal/domain"
)

// Request payloads. Pointer fields mark partial updates: absent keys stay nil
// and leave the stored value unchanged.

// SignupRequest defines the payload for self-registration.
type SignupRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Address  string `json:"address"  validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest defines the payload for the change-password endpoint.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// CreateUserRequest is an admin request to create an account with any role.
type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Address  string `json:"address"  validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required"`
}

// UpdateUserRequest is a partial admin update of a user.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Address  *string `json:"address"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
}

// UpdateProfileRequest is a partial update of the caller's own profile.
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Address  *string `json:"address"`
	Password *string `json:"password"`
}

// CreateStoreRequest defines the payload for creating a store.
type CreateStoreRequest struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"`
	Address string `json:"address" validate:"required"`
	OwnerID string `json:"ownerId" validate:"required"`
}

// UpdateStoreRequest is a partial admin update of a store.
type UpdateStoreRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	OwnerID *string `json:"ownerId"`
}

// CreateRatingRequest defines the payload for rating a store.
type CreateRatingRequest struct {
	Value   *int   `json:"rating_value"`
	Comment string `json:"comment"`
}

// UpdateRatingRequest is a partial update of the caller's rating.
type UpdateRatingRequest struct {
	Value   *int    `json:"rating_value"`
	Comment *string `json:"comment"`
}

// Response bodies.

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

// UserResponse wraps a single user with a status message.
type UserResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// StoreResponse wraps a single store. Store is a *domain.Store or a
// *domain.StoreWithOwner depending on the endpoint.
type StoreResponse struct {
	Message string      `json:"message"`
	Store   interface{} `json:"store"`
}

// ListResponse is the envelope of every paginated list.
type ListResponse struct {
	Data       interface{}       `json:"data"`
	Pagination domain.Pagination `json:"pagination"`
}

// OwnerStoresResponse lists the stores of the calling owner.
type OwnerStoresResponse struct {
	Stores []*domain.Store `json:"stores"`
}

// RatingResponse wraps a rating. Rating is null when the caller has not rated the store.
type RatingResponse struct {
	Message string         `json:"message,omitempty"`
	Rating  *domain.Rating `json:"rating"`
}
