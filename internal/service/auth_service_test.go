package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/mocks"
	"github.com/phrazzld/store-rating-api/internal/service"
	"github.com/phrazzld/store-rating-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	tx     *mocks.MockTransactor
	users  *mocks.MockUserStore
	hasher *mocks.MockPasswordHasher
	jwt    *mocks.MockJWTService
	svc    *service.AuthServiceImpl
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		tx:     &mocks.MockTransactor{},
		users:  new(mocks.MockUserStore),
		hasher: &mocks.MockPasswordHasher{},
		jwt:    &mocks.MockJWTService{Token: "signed-token"},
	}
	f.svc = service.NewAuthService(f.tx, f.users, f.hasher, f.hasher, f.jwt, testLogger())
	return f
}

func TestAuthServiceSignup(t *testing.T) {
	t.Parallel()

	t.Run("creates normal user and returns token", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture()
		f.users.On("GetByEmail", mock.Anything, "bob@example.com").Return(nil, store.ErrUserNotFound)
		f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Role == domain.RoleNormalUser && u.HashedPassword == mocks.HashPrefix+strongPassword
		})).Return(nil)

		res, err := f.svc.Signup(context.Background(), service.SignupInput{
			Name:     validName,
			Email:    "  Bob@Example.com ",
			Address:  "7 Elm Road",
			Password: strongPassword,
		})

		require.NoError(t, err)
		assert.Equal(t, "signed-token", res.Token)
		assert.Equal(t, "bob@example.com", res.User.Email)
		assert.Equal(t, domain.RoleNormalUser, res.User.Role)
		assert.Equal(t, 1, f.tx.Calls)
		f.users.AssertExpectations(t)
	})

	t.Run("rejects weak password before touching the store", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture()

		_, err := f.svc.Signup(context.Background(), service.SignupInput{
			Name:     validName,
			Email:    "bob@example.com",
			Password: "abcdefgh",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidPassword)
		ve, ok := domain.IsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, domain.PasswordPolicyMessage, ve.Message)
		assert.Zero(t, f.tx.Calls)
		assert.Zero(t, f.hasher.HashCallCount)
	})

	t.Run("rejects short name", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture()

		_, err := f.svc.Signup(context.Background(), service.SignupInput{
			Name:     "Bob",
			Email:    "bob@example.com",
			Password: strongPassword,
		})

		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Zero(t, f.tx.Calls)
	})

	t.Run("rejects existing email", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture()
		existing := testUser(t, domain.RoleNormalUser, strongPassword)
		f.users.On("GetByEmail", mock.Anything, "bob@example.com").Return(existing, nil)

		_, err := f.svc.Signup(context.Background(), service.SignupInput{
			Name:     validName,
			Email:    "bob@example.com",
			Password: strongPassword,
		})

		assert.ErrorIs(t, err, store.ErrEmailExists)
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("token failure is reported", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture()
		f.jwt.Err = errors.New("signing key unavailable")
		f.users.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, store.ErrUserNotFound)
		f.users.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := f.svc.Signup(context.Background(), service.SignupInput{
			Name:     validName,
			Email:    "bob@example.com",
			Password: strongPassword,
		})

		assert.ErrorIs(t, err, f.jwt.Err)
	})
}

func TestAuthServiceLogin(t *testing.T) {
	t.Parallel()

	user := testUser(t, domain.RoleStoreOwner, strongPassword)

	tests := []struct {
		name     string
		password string
		lookup   func(*mocks.MockUserStore)
		wantErr  error
	}{
		{
			name:     "valid credentials",
			password: strongPassword,
			lookup: func(m *mocks.MockUserStore) {
				m.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
			},
		},
		{
			name:     "wrong password",
			password: "Wrong123!",
			lookup: func(m *mocks.MockUserStore) {
				m.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
			},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			password: strongPassword,
			lookup: func(m *mocks.MockUserStore) {
				m.On("GetByEmail", mock.Anything, user.Email).Return(nil, store.ErrUserNotFound)
			},
			wantErr: service.ErrInvalidCredentials,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newAuthFixture()
			tc.lookup(f.users)

			res, err := f.svc.Login(context.Background(), user.Email, tc.password)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "signed-token", res.Token)
			assert.Equal(t, user.ID, res.User.ID)
		})
	}

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		t.Parallel()
		f1, f2 := newAuthFixture(), newAuthFixture()
		f1.users.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, store.ErrUserNotFound)
		f2.users.On("GetByEmail", mock.Anything, mock.Anything).Return(user, nil)

		_, errUnknown := f1.svc.Login(context.Background(), "nobody@example.com", strongPassword)
		_, errWrong := f2.svc.Login(context.Background(), user.Email, "Wrong123!")

		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("unknown email still runs a password comparison", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture()
		var compared []string
		f.hasher.CompareFn = func(hashedPassword, _ string) error {
			compared = append(compared, hashedPassword)
			return errors.New("mismatch")
		}
		f.users.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, store.ErrUserNotFound)

		for range 2 {
			_, err := f.svc.Login(context.Background(), "nobody@example.com", strongPassword)
			assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		}

		require.Len(t, compared, 2)
		assert.True(t, strings.HasPrefix(compared[0], mocks.HashPrefix))
		assert.Equal(t, compared[0], compared[1])
		assert.Equal(t, 1, f.hasher.HashCallCount)
	})

	t.Run("store failure is not reported as bad credentials", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture()
		dbErr := errors.New("connection refused")
		f.users.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, dbErr)

		_, err := f.svc.Login(context.Background(), user.Email, strongPassword)

		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestAuthServiceChangePassword(t *testing.T) {
	t.Parallel()

	t.Run("stores new hash", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture()
		user := testUser(t, domain.RoleNormalUser, strongPassword)
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		f.users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.HashedPassword == mocks.HashPrefix+"Newpass1@"
		})).Return(nil)

		err := f.svc.ChangePassword(context.Background(), user.ID, strongPassword, "Newpass1@")

		require.NoError(t, err)
		f.users.AssertExpectations(t)
	})

	t.Run("wrong old password", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture()
		user := testUser(t, domain.RoleNormalUser, strongPassword)
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

		err := f.svc.ChangePassword(context.Background(), user.ID, "Guess123!", "Newpass1@")

		assert.ErrorIs(t, err, service.ErrIncorrectPassword)
		f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("weak new password", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture()

		err := f.svc.ChangePassword(context.Background(), uuid.New(), strongPassword, "short")

		ve, ok := domain.IsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "newPassword", ve.Field)
		assert.Equal(t, domain.NewPasswordPolicyMessage, ve.Message)
		assert.Zero(t, f.tx.Calls)
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture()
		id := uuid.New()
		f.users.On("GetByID", mock.Anything, id).Return(nil, store.ErrUserNotFound)

		err := f.svc.ChangePassword(context.Background(), id, strongPassword, "Newpass1@")

		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
