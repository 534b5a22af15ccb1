package mocks

import (
	"github.com/phrazzld/store-rating-api/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher and auth.PasswordVerifier.
// Without custom functions it hashes by prefixing "hashed:" and compares against
// that form, which keeps tests fast and deterministic.
type MockPasswordHasher struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	// HashCallCount and CompareCallCount track how often each method ran.
	HashCallCount    int
	CompareCallCount int
}

var (
	_ auth.PasswordHasher   = (*MockPasswordHasher)(nil)
	_ auth.PasswordVerifier = (*MockPasswordHasher)(nil)
)

// HashPrefix is prepended to passwords by the default Hash.
const HashPrefix = "hashed:"

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	m.HashCallCount++
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return HashPrefix + password, nil
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.CompareCallCount++
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword != HashPrefix+password {
		return auth.ErrPasswordMismatch
	}
	return nil
}
