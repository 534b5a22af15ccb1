package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/api/middleware"
	"github.com/phrazzld/store-rating-api/internal/api/shared"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/mocks"
	"github.com/phrazzld/store-rating-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// claimsEcho writes 200 and records the claims it saw.
func claimsEcho(seen **auth.Claims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen, _ = shared.ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	valid := &auth.Claims{UserID: uuid.New(), Email: "bob@example.com", Role: domain.RoleNormalUser}

	tests := []struct {
		name        string
		header      string
		validateErr error
		wantStatus  int
		wantMessage string
	}{
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer good", wantStatus: http.StatusOK},
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantMessage: "Authorization header required"},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized, wantMessage: "Invalid authorization format"},
		{name: "no token", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantMessage: "Invalid authorization format"},
		{name: "expired", header: "Bearer old", validateErr: auth.ErrExpiredToken, wantStatus: http.StatusUnauthorized, wantMessage: "Token expired"},
		{name: "bad signature", header: "Bearer forged", validateErr: auth.ErrInvalidToken, wantStatus: http.StatusUnauthorized, wantMessage: "Invalid token"},
		{name: "not yet valid", header: "Bearer early", validateErr: auth.ErrTokenNotYetValid, wantStatus: http.StatusUnauthorized, wantMessage: "Invalid token"},
		{name: "unexpected failure", header: "Bearer x", validateErr: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantMessage: "Authentication error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			jwt := &mocks.MockJWTService{
				ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
					if tc.validateErr != nil {
						return nil, tc.validateErr
					}
					assert.Equal(t, "good", token)
					return valid, nil
				},
			}
			var seen *auth.Claims
			h := middleware.NewAuthMiddleware(jwt).Authenticate(claimsEcho(&seen))

			req := httptest.NewRequest(http.MethodGet, "/api/user/stores", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, valid, seen)
				return
			}
			assert.Nil(t, seen)
			assert.JSONEq(t, `{"message":"`+tc.wantMessage+`"}`, rec.Body.String())
		})
	}
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	roles := append(domain.Roles(), domain.Role("SUPER_USER"))
	gates := map[string][]domain.Role{
		"admin":      {domain.RoleSystemAdmin},
		"owner":      {domain.RoleStoreOwner},
		"user":       {domain.RoleNormalUser},
		"any signed": domain.Roles(),
	}

	for name, permitted := range gates {
		for _, role := range roles {
			role := role
			t.Run(name+"/"+string(role), func(t *testing.T) {
				t.Parallel()
				called := false
				h := middleware.RequireRoles(permitted...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					called = true
					w.WriteHeader(http.StatusOK)
				}))

				claims := &auth.Claims{UserID: uuid.New(), Role: role}
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req = req.WithContext(shared.WithClaims(req.Context(), claims))
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, req)

				want := false
				for _, p := range permitted {
					want = want || p == role
				}
				assert.Equal(t, want, called)
				if want {
					assert.Equal(t, http.StatusOK, rec.Code)
				} else {
					assert.Equal(t, http.StatusForbidden, rec.Code)
				}
			})
		}
	}
}

func TestRequireRolesWithoutIdentity(t *testing.T) {
	t.Parallel()

	h := middleware.RequireRoles(domain.Roles()...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Authentication required"}`, rec.Body.String())
}
