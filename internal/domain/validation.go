package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Field limits shared by users and stores.
const (
	UserNameMinLength  = 20
	UserNameMaxLength  = 60
	StoreNameMaxLength = 60
	AddressMaxLength   = 400

	PasswordMinLength = 8
	PasswordMaxLength = 16
)

// passwordSpecialChars is the set of characters that satisfy the special character rule.
const passwordSpecialChars = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// PasswordPolicyMessage is the client-facing description of the password policy.
const PasswordPolicyMessage = "Password must be 8-16 chars, include at least one uppercase and one special character"

// NewPasswordPolicyMessage is PasswordPolicyMessage as reported by a password change.
const NewPasswordPolicyMessage = "New password must be 8-16 chars, include at least one uppercase and one special character"

var validate = validator.New()

// ValidateEmail checks that email is a syntactically valid address.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return NewValidationError("email", "is required", ErrInvalidEmail)
	}
	if err := validate.Var(email, "email"); err != nil {
		return NewValidationError("email", "must be a valid email address", ErrInvalidEmail)
	}
	return nil
}

// ValidatePassword enforces the single password policy used wherever a password is set:
// 8 to 16 characters with at least one ASCII uppercase letter and one special character.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < PasswordMinLength || n > PasswordMaxLength {
		return NewValidationError("password", PasswordPolicyMessage, ErrInvalidPassword)
	}

	var hasUpper, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case strings.ContainsRune(passwordSpecialChars, r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasSpecial {
		return NewValidationError("password", PasswordPolicyMessage, ErrInvalidPassword)
	}
	return nil
}

func validateLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n >= min && n <= max {
		return nil
	}
	switch {
	case min > 1:
		return NewValidationError(field, fmt.Sprintf("must be between %d and %d characters", min, max), nil)
	case min == 1:
		return NewValidationError(field, fmt.Sprintf("is required and must be at most %d characters", max), nil)
	default:
		return NewValidationError(field, fmt.Sprintf("must be at most %d characters", max), nil)
	}
}
