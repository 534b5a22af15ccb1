package api_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOwnerListStores(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	ownerID := srv.ids[domain.RoleStoreOwner]
	srv.stores.On("ListOwnerStores", mock.Anything, ownerID).Return([]*domain.Store{testStore(t, ownerID)}, nil)

	rec := srv.do(t, http.MethodGet, "/api/owner/stores", domain.RoleStoreOwner, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["stores"], 1)
}

func TestOwnerStoreRatings(t *testing.T) {
	t.Parallel()

	t.Run("own store", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t)
		ownerID := srv.ids[domain.RoleStoreOwner]
		st := testStore(t, ownerID)
		st.AverageRating, st.RatingsCount = 2, 1
		bob := domain.UserSummary{ID: uuid.New(), Name: "Bob Bartholomew Builder", Email: "bob@example.com"}
		srv.stores.On("GetOwnerStoreRatings", mock.Anything, ownerID, st.ID).Return(&service.OwnerStoreRatings{
			Store:   st,
			Ratings: []*domain.RatingWithAuthor{{ID: uuid.New(), Value: 2, CreatedAt: time.Now(), User: bob}},
		}, nil)

		rec := srv.do(t, http.MethodGet, "/api/owner/stores/"+st.ID.String()+"/ratings", domain.RoleStoreOwner, "")

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, 2.0, body["store"].(map[string]any)["average_rating"])
		ratings := body["ratings"].([]any)
		require.Len(t, ratings, 1)
		entry := ratings[0].(map[string]any)
		assert.Equal(t, 2.0, entry["rating_value"])
		assert.Equal(t, "bob@example.com", entry["user"].(map[string]any)["email"])
	})

	t.Run("missing and foreign look the same", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t)
		srv.stores.On("GetOwnerStoreRatings", mock.Anything, mock.Anything, mock.Anything).Return(nil, service.ErrNotFoundOrNotOwner)

		a := srv.do(t, http.MethodGet, "/api/owner/stores/"+uuid.NewString()+"/ratings", domain.RoleStoreOwner, "")
		b := srv.do(t, http.MethodGet, "/api/owner/stores/"+uuid.NewString()+"/ratings", domain.RoleStoreOwner, "")

		assert.Equal(t, http.StatusNotFound, a.Code)
		assert.Equal(t, "Store not found or you are not the owner", messageOf(t, a))
		assert.Equal(t, a.Code, b.Code)
		assert.Equal(t, a.Body.String(), b.Body.String())
	})
}
