package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is an account on the platform. Role decides which parts of the API it may use.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Address        string    `json:"address"`
	Role           Role      `json:"role"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser builds a validated User with a fresh ID and timestamps.
// The caller hashes the password and sets HashedPassword before storing it.
func NewUser(name, email, address string, role Role) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Address:   strings.TrimSpace(address),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks the user's profile fields. It does not look at the password hash.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if err := validateLength("name", u.Name, UserNameMinLength, UserNameMaxLength); err != nil {
		return err
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if err := validateLength("address", u.Address, 0, AddressMaxLength); err != nil {
		return err
	}
	if !u.Role.IsValid() {
		return NewValidationError("role", "Invalid role", ErrInvalidRole)
	}
	return nil
}

// NormalizeEmail trims surrounding whitespace and lowercases the address so that
// uniqueness checks are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserSummary is the public identity of a user embedded in other resources.
type UserSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Address string    `json:"address,omitempty"`
	Role    Role      `json:"role,omitempty"`
}
