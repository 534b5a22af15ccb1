package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storeRowColumns = []string{
	"id", "name", "email", "address", "owner_id", "average_rating", "ratings_count", "created_at", "updated_at",
}

func TestPostgresStoreStore_Create_ForeignKey(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	st, err := domain.NewStore("Corner Bakery", "", "12 Main Street", uuid.New())
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stores")).WillReturnError(pgError(foreignKeyViolationCode))

	err = NewPostgresStoreStore(db, testLogger()).Create(context.Background(), st)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestPostgresStoreStore_GetByIDForUpdate(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	id, owner := uuid.New(), uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM stores s WHERE s.id = $1 FOR UPDATE")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(storeRowColumns).
			AddRow(id.String(), "Corner Bakery", "", "12 Main Street", owner.String(), 3.5, 2, now, now))

	st, err := NewPostgresStoreStore(db, testLogger()).GetByIDForUpdate(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, owner, st.OwnerID)
	assert.Equal(t, 3.5, st.AverageRating)
	assert.Equal(t, 2, st.RatingsCount)
}

func TestPostgresStoreStore_GetOwnedBy_HidesForeignStores(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	id, caller := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.id = $1 AND s.owner_id = $2")).
		WithArgs(id, caller).
		WillReturnRows(sqlmock.NewRows(storeRowColumns))

	_, err := NewPostgresStoreStore(db, testLogger()).GetOwnedBy(context.Background(), id, caller)
	assert.ErrorIs(t, err, store.ErrStoreNotFound)
}

func TestPostgresStoreStore_UpdateRatingSummary(t *testing.T) {
	t.Parallel()

	t.Run("written", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		id := uuid.New()

		mock.ExpectExec(regexp.QuoteMeta("SET average_rating = $1, ratings_count = $2")).
			WithArgs(3.67, 3, sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewPostgresStoreStore(db, testLogger()).
			UpdateRatingSummary(context.Background(), id, domain.RatingSummary{Average: 3.67, Count: 3})
		require.NoError(t, err)
	})

	t.Run("missing store", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE stores")).WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPostgresStoreStore(db, testLogger()).
			UpdateRatingSummary(context.Background(), uuid.New(), domain.RatingSummary{})
		assert.ErrorIs(t, err, store.ErrStoreNotFound)
	})
}

func TestPostgresStoreStore_ListForUser(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	userID := uuid.New()
	rated, unrated, ratingID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM stores s WHERE s.name ILIKE $1")).
		WithArgs("%bake%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN ratings r ON r.store_id = s.id AND r.user_id = $2 WHERE s.name ILIKE $1 ORDER BY s.average_rating DESC, s.id ASC LIMIT $3 OFFSET $4")).
		WithArgs("%bake%", userID, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "address", "average_rating", "ratings_count", "r_id", "rating_value", "comment",
		}).
			AddRow(rated.String(), "Bakery One", "", "1 Road", 4.0, 1, ratingID.String(), 4, "great bread").
			AddRow(unrated.String(), "Bakery Two", "", "2 Road", 0.0, 0, nil, nil, nil))

	views, total, err := NewPostgresStoreStore(db, testLogger()).ListForUser(context.Background(), userID,
		domain.StoreFilter{Name: "bake"},
		domain.ListOptions{SortBy: "average_rating", Order: domain.SortDesc},
	)

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, views, 2)

	require.NotNil(t, views[0].MyRating)
	assert.Equal(t, ratingID, views[0].MyRating.ID)
	assert.Equal(t, 4, views[0].MyRating.Value)
	require.NotNil(t, views[0].MyRating.Comment)
	assert.Equal(t, "great bread", *views[0].MyRating.Comment)

	assert.Nil(t, views[1].MyRating)
}

func TestPostgresStoreStore_List_IncludesOwner(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	id, owner := uuid.New(), uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM stores s")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("JOIN users u ON u.id = s.owner_id ORDER BY s.name ASC, s.id ASC LIMIT $1 OFFSET $2")).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(append(storeRowColumns, "u_id", "u_name", "u_email")).
			AddRow(id.String(), "Corner Bakery", "", "12 Main Street", owner.String(), 0.0, 0, now, now,
				owner.String(), "Store Owner Number One", "owner@example.com"))

	stores, total, err := NewPostgresStoreStore(db, testLogger()).List(context.Background(),
		domain.StoreFilter{}, domain.ListOptions{SortBy: "bogus"})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, stores, 1)
	assert.Equal(t, owner, stores[0].Owner.ID)
	assert.Equal(t, "owner@example.com", stores[0].Owner.Email)
}

func TestPostgresStoreStore_OwnerAverageRating(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	owner := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.owner_id = $1")).
		WithArgs(owner).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(3.25))

	avg, err := NewPostgresStoreStore(db, testLogger()).OwnerAverageRating(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 3.25, avg)
}

func TestPostgresStoreStore_Delete(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM stores")).WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewPostgresStoreStore(db, testLogger()).Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrStoreNotFound)
}
