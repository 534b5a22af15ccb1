package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/store-rating-api/internal/api/shared"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/service"
	"github.com/phrazzld/store-rating-api/internal/service/auth"
	"github.com/phrazzld/store-rating-api/internal/store"
)

// MessageInternalError is the only message a client sees for an unexpected failure.
const MessageInternalError = "Internal server error"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, service.ErrInvalidOwner),
		errors.Is(err, service.ErrSelfDelete),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrIncorrectPassword):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrOwnerNotFound),
		errors.Is(err, service.ErrNotFoundOrNotOwner),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrDuplicateRating),
		errors.Is(err, service.ErrHasRatings),
		errors.Is(err, service.ErrUserInUse),
		errors.Is(err, service.ErrOwnerHasStores),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrReferenced):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MessageInternalError
	}

	if ve, ok := domain.IsValidationError(err); ok {
		return validationMessage(ve)
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, service.ErrIncorrectPassword):
		return "Old password is incorrect"
	case errors.Is(err, service.ErrOwnerNotFound):
		return "Owner user not found"
	case errors.Is(err, service.ErrInvalidOwner):
		return "Owner must have role STORE_OWNER"
	case errors.Is(err, service.ErrHasRatings):
		return "Cannot delete store with existing ratings. Remove ratings first or use soft-delete."
	case errors.Is(err, service.ErrNotFoundOrNotOwner):
		return "Store not found or you are not the owner"
	case errors.Is(err, service.ErrDuplicateRating):
		return "Rating already exists. Use update instead."
	case errors.Is(err, service.ErrSelfDelete):
		return "You cannot delete your own account"
	case errors.Is(err, service.ErrUserInUse):
		return "User still owns stores or has ratings"
	case errors.Is(err, service.ErrOwnerHasStores):
		return "Owner still has stores. Reassign them before changing the role"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrStoreNotFound):
		return "Store not found"
	case errors.Is(err, store.ErrRatingNotFound):
		return "Rating not found"
	case errors.Is(err, store.ErrEmailExists):
		return "Email already in use"
	case errors.Is(err, store.ErrRatingExists):
		return "Rating already exists. Use update instead."
	case errors.Is(err, store.ErrNotFound):
		return "Not found"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return MessageInternalError
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted detail. Bad logins are logged at WARN so brute forcing shows up.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError {
		message = MessageInternalError
	}

	var opts []shared.ResponseOption
	if errors.Is(err, service.ErrInvalidCredentials) {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// validationMessage renders a ValidationError for clients. Messages that are
// already sentences pass through; fragments get the field name prepended.
func validationMessage(ve *domain.ValidationError) string {
	msg := ve.Message
	if msg == "" {
		return "Validation error"
	}
	if ve.Field == "" || strings.HasPrefix(msg, ve.Field) {
		return msg
	}
	if first := []rune(msg)[0]; unicode.IsUpper(first) {
		return msg
	}
	return ve.Field + " " + msg
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message naming the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}
	fe := verrs[0]
	return fmt.Sprintf("%s %s", fe.Field(), getValidationTagMessage(fe))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return "has an invalid value"
	default:
		return "is invalid"
	}
}
