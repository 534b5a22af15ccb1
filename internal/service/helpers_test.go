package service_test

import (
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/mocks"
	"github.com/phrazzld/store-rating-api/internal/platform/logger"
	"github.com/stretchr/testify/require"
)

const (
	strongPassword = "Abcdefg1!"
	validName      = "Alexandra Montgomery Smith"
)

// testUser builds a valid user with role and a hash produced by mocks.MockPasswordHasher.
func testUser(t *testing.T, role domain.Role, password string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(validName, uuid.NewString()[:8]+"@example.com", "42 Main Street", role)
	require.NoError(t, err)
	user.HashedPassword = mocks.HashPrefix + password
	return user
}

// testStore builds a valid store owned by ownerID with the given aggregate.
func testStore(t *testing.T, ownerID uuid.UUID, avg float64, count int) *domain.Store {
	t.Helper()
	st, err := domain.NewStore("Corner Bakery", "bakery@example.com", "1 Baker Street", ownerID)
	require.NoError(t, err)
	st.AverageRating = avg
	st.RatingsCount = count
	return st
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

// testLogger returns a debug logger whose output stays in memory.
func testLogger() *slog.Logger {
	l, _ := logger.NewTestLogger()
	return l
}
