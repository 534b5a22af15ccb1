package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store is a rateable shop owned by a STORE_OWNER user.
// AverageRating and RatingsCount are derived from the store's ratings and are only
// written by the rating aggregator.
type Store struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address"`
	OwnerID       uuid.UUID `json:"owner_id"`
	AverageRating float64   `json:"average_rating"`
	RatingsCount  int       `json:"ratings_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewStore builds a validated Store with zeroed aggregates.
func NewStore(name, email, address string, ownerID uuid.UUID) (*Store, error) {
	now := time.Now().UTC()
	s := &Store{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Address:   strings.TrimSpace(address),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the store fields a client can set.
func (s *Store) Validate() error {
	if s.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if err := validateLength("name", s.Name, 1, StoreNameMaxLength); err != nil {
		return err
	}
	if s.Email != "" {
		if err := ValidateEmail(s.Email); err != nil {
			return err
		}
	}
	if err := validateLength("address", s.Address, 1, AddressMaxLength); err != nil {
		return err
	}
	if s.OwnerID == uuid.Nil {
		return NewValidationError("ownerId", "is required", ErrInvalidID)
	}
	return nil
}

// StoreWithOwner is a store joined with its owner's identity.
type StoreWithOwner struct {
	Store
	Owner UserSummary `json:"owner"`
}

// UserStoreView is a store as listed to a normal user, together with that user's
// own rating when one exists.
type UserStoreView struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email,omitempty"`
	Address       string     `json:"address"`
	AverageRating float64    `json:"average_rating"`
	RatingsCount  int        `json:"ratings_count"`
	MyRating      *OwnRating `json:"myRating"`
}

// OwnRating is the caller's rating embedded in a store listing.
type OwnRating struct {
	ID      uuid.UUID `json:"id"`
	Value   int       `json:"rating_value"`
	Comment *string   `json:"comment"`
}
