package service

import (
	"errors"
	"fmt"
)

// Business rule violations returned by the services. Callers check them with
// errors.Is; the API layer maps each one to a status code and a safe message.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password on login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrIncorrectPassword is returned by ChangePassword when the old password does not match.
	ErrIncorrectPassword = errors.New("old password is incorrect")

	// ErrOwnerNotFound is returned when a store's owner id does not resolve to a user.
	ErrOwnerNotFound = errors.New("owner user not found")

	// ErrInvalidOwner is returned when a store's owner does not have role STORE_OWNER.
	ErrInvalidOwner = errors.New("owner must have role STORE_OWNER")

	// ErrHasRatings is returned when deleting a store that still has ratings.
	ErrHasRatings = errors.New("store has ratings")

	// ErrNotFoundOrNotOwner hides whether a store is missing or owned by someone else.
	ErrNotFoundOrNotOwner = errors.New("store not found or not owned by caller")

	// ErrDuplicateRating is returned when a user rates a store they already rated.
	ErrDuplicateRating = errors.New("rating already exists")

	// ErrSelfDelete is returned when an admin tries to delete their own account.
	ErrSelfDelete = errors.New("cannot delete own account")

	// ErrUserInUse is returned when a user still owns stores or has ratings.
	ErrUserInUse = errors.New("user is referenced by stores or ratings")

	// ErrOwnerHasStores is returned when a role change would leave stores with a
	// non STORE_OWNER owner.
	ErrOwnerHasStores = errors.New("owner still has stores")
)

// ServiceError wraps an unexpected failure with the service and operation it came from.
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service %s failed: %v", e.Service, e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation string, err error) *ServiceError {
	return &ServiceError{Service: service, Operation: operation, Err: err}
}
