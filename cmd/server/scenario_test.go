package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioPassword = "Abcdefg1!"

type client struct {
	t      *testing.T
	server *httptest.Server
}

func (c client) call(method, path, token string, body any) (int, map[string]any) {
	c.t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&payload).Encode(body))
	}
	req, err := http.NewRequest(method, c.server.URL+path, &payload)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer func() { _ = resp.Body.Close() }()

	var out map[string]any
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (c client) login(email string) string {
	c.t.Helper()
	status, body := c.call(http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": email, "password": scenarioPassword})
	require.Equal(c.t, http.StatusOK, status, body)
	return body["token"].(string)
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, uuid.NewString()[:8])
}

// TestRatingScenario drives the whole API against a real database: an admin
// sets up an owner and a store, a user rates it twice and the owner reads the
// result.
func TestRatingScenario(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	app := newTestApp(t, db)
	ctx := context.Background()

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)
	c := client{t: t, server: srv}

	var userIDs []uuid.UUID
	var storeID uuid.UUID
	t.Cleanup(func() {
		if storeID != uuid.Nil {
			_, _ = db.ExecContext(ctx, "DELETE FROM ratings WHERE store_id = $1", storeID)
			_, _ = db.ExecContext(ctx, "DELETE FROM stores WHERE id = $1", storeID)
		}
		for _, id := range userIDs {
			_, _ = db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
		}
	})

	// There is no API for the first admin; cmd/create-admin does this in production.
	admin, err := domain.NewUser("Scenario System Administrator", uniqueEmail("admin"), "HQ", domain.RoleSystemAdmin)
	require.NoError(t, err)
	admin.HashedPassword, err = app.hasher.Hash(scenarioPassword)
	require.NoError(t, err)
	require.NoError(t, app.userStore.Create(ctx, admin))
	userIDs = append(userIDs, admin.ID)
	adminToken := c.login(admin.Email)

	ownerEmail := uniqueEmail("owner")
	status, body := c.call(http.MethodPost, "/api/admin/users", adminToken, map[string]string{
		"name": "Owner Alpha Storekeeper", "email": ownerEmail, "address": "1 Market Square",
		"password": scenarioPassword, "role": "STORE_OWNER",
	})
	require.Equal(t, http.StatusCreated, status, body)
	ownerID := body["user"].(map[string]any)["id"].(string)
	userIDs = append(userIDs, uuid.MustParse(ownerID))

	status, body = c.call(http.MethodPost, "/api/admin/stores", adminToken, map[string]string{
		"name": "Store X", "address": "2 Market Square", "ownerId": ownerID,
	})
	require.Equal(t, http.StatusCreated, status, body)
	storeID = uuid.MustParse(body["store"].(map[string]any)["id"].(string))

	bobEmail := uniqueEmail("bob")
	status, body = c.call(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Bob Bartholomew Builder", "email": bobEmail, "address": "3 Side Street", "password": scenarioPassword,
	})
	require.Equal(t, http.StatusCreated, status, body)
	bobToken := body["token"].(string)
	userIDs = append(userIDs, uuid.MustParse(body["user"].(map[string]any)["id"].(string)))

	ratingPath := "/api/user/stores/" + storeID.String() + "/rating"
	storePath := "/api/admin/stores/" + storeID.String()

	status, body = c.call(http.MethodPost, ratingPath, bobToken, map[string]any{"rating_value": 4})
	require.Equal(t, http.StatusCreated, status, body)

	status, body = c.call(http.MethodGet, storePath, adminToken, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, 4.0, body["store"].(map[string]any)["average_rating"])
	assert.Equal(t, 1.0, body["store"].(map[string]any)["ratings_count"])

	status, _ = c.call(http.MethodPost, ratingPath, bobToken, map[string]any{"rating_value": 5})
	assert.Equal(t, http.StatusConflict, status)

	status, body = c.call(http.MethodPut, ratingPath, bobToken, map[string]any{"rating_value": 2})
	require.Equal(t, http.StatusOK, status, body)

	status, body = c.call(http.MethodGet, storePath, adminToken, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, 2.0, body["store"].(map[string]any)["average_rating"])
	assert.Equal(t, 1.0, body["store"].(map[string]any)["ratings_count"])

	ownerToken := c.login(ownerEmail)
	status, body = c.call(http.MethodGet, "/api/owner/stores/"+storeID.String()+"/ratings", ownerToken, nil)
	require.Equal(t, http.StatusOK, status, body)
	ratings := body["ratings"].([]any)
	require.Len(t, ratings, 1)
	entry := ratings[0].(map[string]any)
	assert.Equal(t, 2.0, entry["rating_value"])
	assert.Equal(t, bobEmail, entry["user"].(map[string]any)["email"])

	status, body = c.call(http.MethodGet, "/api/user/stores/"+storeID.String()+"/rating/me", bobToken, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, 2.0, body["rating"].(map[string]any)["rating_value"])

	status, _ = c.call(http.MethodGet, "/api/admin/dashboard", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = c.call(http.MethodDelete, storePath, adminToken, nil)
	assert.Equal(t, http.StatusConflict, status)
}
