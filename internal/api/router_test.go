package api_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/api/shared"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

type route struct {
	method string
	path   string
}

func protectedRoutes() map[domain.Role][]route {
	id := uuid.NewString()
	return map[domain.Role][]route{
		domain.RoleSystemAdmin: {
			{http.MethodGet, "/api/admin/dashboard"},
			{http.MethodPost, "/api/admin/users"},
			{http.MethodGet, "/api/admin/users"},
			{http.MethodGet, "/api/admin/users/" + id},
			{http.MethodPut, "/api/admin/users/" + id},
			{http.MethodDelete, "/api/admin/users/" + id},
			{http.MethodPost, "/api/admin/stores"},
			{http.MethodGet, "/api/admin/stores"},
			{http.MethodGet, "/api/admin/stores/" + id},
			{http.MethodPut, "/api/admin/stores/" + id},
			{http.MethodDelete, "/api/admin/stores/" + id},
		},
		domain.RoleStoreOwner: {
			{http.MethodGet, "/api/owner/stores"},
			{http.MethodGet, "/api/owner/stores/" + id + "/ratings"},
		},
		domain.RoleNormalUser: {
			{http.MethodGet, "/api/user/stores"},
			{http.MethodPut, "/api/user/me"},
			{http.MethodPost, "/api/user/stores/" + id + "/rating"},
			{http.MethodPut, "/api/user/stores/" + id + "/rating"},
			{http.MethodGet, "/api/user/stores/" + id + "/rating/me"},
		},
	}
}

func TestRoleGateRejectsEveryOtherRole(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	for owner, routes := range protectedRoutes() {
		for _, rt := range routes {
			for _, caller := range domain.Roles() {
				if caller == owner {
					continue
				}
				rec := srv.do(t, rt.method, rt.path, caller, "{}")
				assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s as %s", rt.method, rt.path, caller)
				assert.Equal(t, "Forbidden", messageOf(t, rec))
			}
		}
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	for _, routes := range protectedRoutes() {
		for _, rt := range routes {
			rec := srv.do(t, rt.method, rt.path, "", "{}")
			assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", rt.method, rt.path)

			rec = srv.do(t, rt.method, rt.path, domain.Role("forged"), "{}")
			assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", rt.method, rt.path)
		}
	}

	rec := srv.do(t, http.MethodPost, "/api/auth/change-password", "", "{}")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResponsesCarryTraceID(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rec := srv.do(t, http.MethodGet, "/api/admin/dashboard", domain.RoleNormalUser, "")

	traceID := rec.Header().Get(shared.TraceIDHeader)
	assert.Len(t, traceID, 2*shared.TraceIDLength)
	assert.False(t, strings.Contains(rec.Body.String(), traceID), "trace ID belongs in the header only")
}

func TestNonUUIDPathIsBadRequest(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rec := srv.do(t, http.MethodGet, "/api/admin/stores/42", domain.RoleSystemAdmin, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "id has invalid format", messageOf(t, rec))
}
