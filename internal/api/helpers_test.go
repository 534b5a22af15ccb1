package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/api"
	"github.com/phrazzld/store-rating-api/internal/api/middleware"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/mocks"
	"github.com/phrazzld/store-rating-api/internal/platform/logger"
	"github.com/phrazzld/store-rating-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

// testServer is the /api router wired to mock services. A bearer token equal
// to a role name authenticates as the fixed user for that role.
type testServer struct {
	router    http.Handler
	auth      *mocks.MockAuthService
	users     *mocks.MockUserService
	stores    *mocks.MockStoreService
	ratings   *mocks.MockRatingService
	dashboard *mocks.MockDashboardService
	ids       map[domain.Role]uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s := &testServer{
		auth:      new(mocks.MockAuthService),
		users:     new(mocks.MockUserService),
		stores:    new(mocks.MockStoreService),
		ratings:   new(mocks.MockRatingService),
		dashboard: new(mocks.MockDashboardService),
		ids:       map[domain.Role]uuid.UUID{},
	}
	for _, role := range domain.Roles() {
		s.ids[role] = uuid.New()
	}

	jwt := &mocks.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			role := domain.Role(token)
			id, ok := s.ids[role]
			if !ok {
				return nil, auth.ErrInvalidToken
			}
			return &auth.Claims{UserID: id, Email: strings.ToLower(token) + "@example.com", Role: role}, nil
		},
	}

	log, _ := logger.NewTestLogger()
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware(log))
	api.RegisterRoutes(r, api.Handlers{
		Auth:  api.NewAuthHandler(s.auth, log),
		Admin: api.NewAdminHandler(s.users, s.stores, s.dashboard, log),
		Owner: api.NewOwnerHandler(s.stores, log),
		User:  api.NewUserHandler(s.stores, s.ratings, s.users, log),
	}, middleware.NewAuthMiddleware(jwt))
	s.router = r

	return s
}

// do sends a request as role; an empty role sends no Authorization header.
func (s *testServer) do(t *testing.T, method, path string, role domain.Role, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+string(role))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	msg, _ := decodeBody(t, rec)["message"].(string)
	return msg
}

func testUser(t *testing.T, role domain.Role) *domain.User {
	t.Helper()
	u, err := domain.NewUser("Alexandra Montgomery Smith", uuid.NewString()[:8]+"@example.com", "1 Main St", role)
	require.NoError(t, err)
	return u
}

func testStore(t *testing.T, ownerID uuid.UUID) *domain.Store {
	t.Helper()
	st, err := domain.NewStore("Corner Bakery", "bakery@example.com", "1 Baker Street", ownerID)
	require.NoError(t, err)
	return st
}
