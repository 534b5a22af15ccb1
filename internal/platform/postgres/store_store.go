package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/platform/logger"
	"github.com/phrazzld/store-rating-api/internal/store"
)

const storeColumns = `s.id, s.name, s.email, s.address, s.owner_id, s.average_rating, s.ratings_count, s.created_at, s.updated_at`

// PostgresStoreStore implements the store.StoreStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStoreStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStoreStore creates a new PostgreSQL implementation of the StoreStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresStoreStore(db store.DBTX, logger *slog.Logger) *PostgresStoreStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStoreStore{
		db:     db,
		logger: logger.With(slog.String("component", "store_store")),
	}
}

// Ensure PostgresStoreStore implements store.StoreStore interface
var _ store.StoreStore = (*PostgresStoreStore)(nil)

// WithTx implements store.StoreStore.WithTx
func (s *PostgresStoreStore) WithTx(tx *sql.Tx) store.StoreStore {
	return &PostgresStoreStore{db: tx, logger: s.logger}
}

// storeDest returns scan destinations matching storeColumns.
func storeDest(st *domain.Store) []any {
	return []any{
		&st.ID,
		&st.Name,
		&st.Email,
		&st.Address,
		&st.OwnerID,
		&st.AverageRating,
		&st.RatingsCount,
		&st.CreatedAt,
		&st.UpdatedAt,
	}
}

// Create implements store.StoreStore.Create
func (s *PostgresStoreStore) Create(ctx context.Context, st *domain.Store) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := st.Validate(); err != nil {
		log.Warn("store validation failed during create",
			slog.String("error", err.Error()),
			slog.String("store_id", st.ID.String()))
		return err
	}

	query := `
		INSERT INTO stores (id, name, email, address, owner_id, average_rating, ratings_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		st.ID,
		st.Name,
		st.Email,
		st.Address,
		st.OwnerID,
		st.AverageRating,
		st.RatingsCount,
		st.CreatedAt,
		st.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create store",
			slog.String("error", err.Error()),
			slog.String("store_id", st.ID.String()),
			slog.String("owner_id", st.OwnerID.String()))
		return MapError(err)
	}

	log.Info("store created successfully",
		slog.String("store_id", st.ID.String()),
		slog.String("owner_id", st.OwnerID.String()))
	return nil
}

// GetByID implements store.StoreStore.GetByID
func (s *PostgresStoreStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	return s.getOne(ctx, `SELECT `+storeColumns+` FROM stores s WHERE s.id = $1`, id)
}

// GetByIDForUpdate implements store.StoreStore.GetByIDForUpdate
func (s *PostgresStoreStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	return s.getOne(ctx, `SELECT `+storeColumns+` FROM stores s WHERE s.id = $1 FOR UPDATE`, id)
}

// GetOwnedBy implements store.StoreStore.GetOwnedBy
func (s *PostgresStoreStore) GetOwnedBy(ctx context.Context, id, ownerID uuid.UUID) (*domain.Store, error) {
	return s.getOne(ctx, `SELECT `+storeColumns+` FROM stores s WHERE s.id = $1 AND s.owner_id = $2`, id, ownerID)
}

func (s *PostgresStoreStore) getOne(ctx context.Context, query string, args ...any) (*domain.Store, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var st domain.Store
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(storeDest(&st)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("store not found", slog.Any("args", args))
			return nil, store.ErrStoreNotFound
		}
		log.Error("failed to get store", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return &st, nil
}

// GetWithOwner implements store.StoreStore.GetWithOwner
func (s *PostgresStoreStore) GetWithOwner(ctx context.Context, id uuid.UUID) (*domain.StoreWithOwner, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + storeColumns + `, u.id, u.name, u.email, u.role
		FROM stores s
		JOIN users u ON u.id = s.owner_id
		WHERE s.id = $1
	`
	var out domain.StoreWithOwner
	var role string
	dest := append(storeDest(&out.Store), &out.Owner.ID, &out.Owner.Name, &out.Owner.Email, &role)
	if err := s.db.QueryRowContext(ctx, query, id).Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("store not found", slog.String("store_id", id.String()))
			return nil, store.ErrStoreNotFound
		}
		log.Error("failed to get store with owner",
			slog.String("error", err.Error()),
			slog.String("store_id", id.String()))
		return nil, MapError(err)
	}
	out.Owner.Role = domain.Role(role)
	return &out, nil
}

// Update implements store.StoreStore.Update
// The derived rating fields are never written here.
func (s *PostgresStoreStore) Update(ctx context.Context, st *domain.Store) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := st.Validate(); err != nil {
		log.Warn("store validation failed during update",
			slog.String("error", err.Error()),
			slog.String("store_id", st.ID.String()))
		return err
	}

	st.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE stores
		SET name = $1, email = $2, address = $3, owner_id = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := s.db.ExecContext(ctx, query, st.Name, st.Email, st.Address, st.OwnerID, st.UpdatedAt, st.ID)
	if err != nil {
		log.Error("failed to update store",
			slog.String("error", err.Error()),
			slog.String("store_id", st.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrStoreNotFound)
}

// UpdateRatingSummary implements store.StoreStore.UpdateRatingSummary
func (s *PostgresStoreStore) UpdateRatingSummary(ctx context.Context, id uuid.UUID, summary domain.RatingSummary) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE stores
		SET average_rating = $1, ratings_count = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, summary.Average, summary.Count, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update rating summary",
			slog.String("error", err.Error()),
			slog.String("store_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrStoreNotFound); err != nil {
		return err
	}

	log.Debug("rating summary updated",
		slog.String("store_id", id.String()),
		slog.Float64("average_rating", summary.Average),
		slog.Int("ratings_count", summary.Count))
	return nil
}

// Delete implements store.StoreStore.Delete
func (s *PostgresStoreStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: store %s: %v", store.ErrReferenced, id, err)
		}
		log.Error("failed to delete store",
			slog.String("error", err.Error()),
			slog.String("store_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrStoreNotFound); err != nil {
		return err
	}

	log.Info("store deleted", slog.String("store_id", id.String()))
	return nil
}

func storeFilterArgs(filter domain.StoreFilter) *queryArgs {
	q := &queryArgs{}
	q.contains("s.name", filter.Name)
	q.contains("s.email", filter.Email)
	q.contains("s.address", filter.Address)
	return q
}

func (s *PostgresStoreStore) countStores(ctx context.Context, q *queryArgs) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stores s`+q.whereClause(), q.args...).Scan(&total)
	if err != nil {
		return 0, MapError(err)
	}
	return total, nil
}

// List implements store.StoreStore.List
func (s *PostgresStoreStore) List(
	ctx context.Context,
	filter domain.StoreFilter,
	opts domain.ListOptions,
) ([]*domain.StoreWithOwner, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	opts = opts.Normalize()

	q := storeFilterArgs(filter)
	total, err := s.countStores(ctx, q)
	if err != nil {
		log.Error("failed to count stores", slog.String("error", err.Error()))
		return nil, 0, err
	}

	query := `SELECT ` + storeColumns + `, u.id, u.name, u.email FROM stores s JOIN users u ON u.id = s.owner_id` +
		q.whereClause() + adminStoreSortColumns.orderBy(opts, "s.id") + q.page(opts)
	rows, err := s.db.QueryContext(ctx, query, q.args...)
	if err != nil {
		log.Error("failed to list stores", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	stores := make([]*domain.StoreWithOwner, 0, opts.Limit)
	for rows.Next() {
		var row domain.StoreWithOwner
		dest := append(storeDest(&row.Store), &row.Owner.ID, &row.Owner.Name, &row.Owner.Email)
		if err := rows.Scan(dest...); err != nil {
			log.Error("failed to scan store row", slog.String("error", err.Error()))
			return nil, 0, err
		}
		stores = append(stores, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return stores, total, nil
}

// ListForUser implements store.StoreStore.ListForUser
func (s *PostgresStoreStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.StoreFilter,
	opts domain.ListOptions,
) ([]*domain.UserStoreView, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	opts = opts.Normalize()

	q := storeFilterArgs(filter)
	total, err := s.countStores(ctx, q)
	if err != nil {
		log.Error("failed to count stores", slog.String("error", err.Error()))
		return nil, 0, err
	}

	query := `
		SELECT s.id, s.name, s.email, s.address, s.average_rating, s.ratings_count,
			r.id, r.rating_value, r.comment
		FROM stores s
		LEFT JOIN ratings r ON r.store_id = s.id AND r.user_id = ` + q.add(userID) +
		q.whereClause() + userStoreSortColumns.orderBy(opts, "s.id") + q.page(opts)
	rows, err := s.db.QueryContext(ctx, query, q.args...)
	if err != nil {
		log.Error("failed to list stores for user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	views := make([]*domain.UserStoreView, 0, opts.Limit)
	for rows.Next() {
		var v domain.UserStoreView
		var ratingID uuid.NullUUID
		var value sql.NullInt32
		var comment sql.NullString
		if err := rows.Scan(
			&v.ID, &v.Name, &v.Email, &v.Address, &v.AverageRating, &v.RatingsCount,
			&ratingID, &value, &comment,
		); err != nil {
			log.Error("failed to scan store row", slog.String("error", err.Error()))
			return nil, 0, err
		}
		if ratingID.Valid {
			v.MyRating = &domain.OwnRating{
				ID:      ratingID.UUID,
				Value:   int(value.Int32),
				Comment: nullStringPtr(comment),
			}
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// ListByOwner implements store.StoreStore.ListByOwner
func (s *PostgresStoreStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Store, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + storeColumns + ` FROM stores s WHERE s.owner_id = $1 ORDER BY s.name ASC, s.id ASC`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to list owner stores",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	stores := []*domain.Store{}
	for rows.Next() {
		var st domain.Store
		if err := rows.Scan(storeDest(&st)...); err != nil {
			return nil, err
		}
		stores = append(stores, &st)
	}
	return stores, rows.Err()
}

// OwnerAverageRating implements store.StoreStore.OwnerAverageRating
func (s *PostgresStoreStore) OwnerAverageRating(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	query := `
		SELECT COALESCE(AVG(r.rating_value), 0)
		FROM ratings r
		JOIN stores s ON s.id = r.store_id
		WHERE s.owner_id = $1
	`
	var avg float64
	if err := s.db.QueryRowContext(ctx, query, ownerID).Scan(&avg); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to average owner ratings",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return 0, MapError(err)
	}
	return avg, nil
}

// Count implements store.StoreStore.Count
func (s *PostgresStoreStore) Count(ctx context.Context) (int, error) {
	return count(ctx, s.db, "stores")
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
