package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would violate a uniqueness constraint.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation or a database
	// constraint before being stored. Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrReferenced is returned when deleting an entity that other rows still point at.
	ErrReferenced = errors.New("entity is still referenced")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrStoreNotFound indicates that the requested store does not exist in the store.
	ErrStoreNotFound = fmt.Errorf("%w: store", ErrNotFound)

	// ErrRatingNotFound indicates that the requested rating does not exist in the store.
	ErrRatingNotFound = fmt.Errorf("%w: rating", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrRatingExists indicates that the user already rated the store.
	ErrRatingExists = fmt.Errorf("%w: rating", ErrDuplicate)
)
