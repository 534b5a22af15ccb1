package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/platform/logger"
	"github.com/phrazzld/store-rating-api/internal/store"
)

// PostgresRatingStore implements the store.RatingStore interface
// using a PostgreSQL database as the storage backend.
type PostgresRatingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRatingStore creates a new PostgreSQL implementation of the RatingStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresRatingStore(db store.DBTX, logger *slog.Logger) *PostgresRatingStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRatingStore{
		db:     db,
		logger: logger.With(slog.String("component", "rating_store")),
	}
}

// Ensure PostgresRatingStore implements store.RatingStore interface
var _ store.RatingStore = (*PostgresRatingStore)(nil)

// WithTx implements store.RatingStore.WithTx
func (s *PostgresRatingStore) WithTx(tx *sql.Tx) store.RatingStore {
	return &PostgresRatingStore{db: tx, logger: s.logger}
}

// Create implements store.RatingStore.Create
// Returns store.ErrRatingExists when the user already rated the store and
// store.ErrInvalidEntity when the store or user does not exist.
func (s *PostgresRatingStore) Create(ctx context.Context, r *domain.Rating) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := r.Validate(); err != nil {
		log.Warn("rating validation failed during create",
			slog.String("error", err.Error()),
			slog.String("store_id", r.StoreID.String()))
		return err
	}

	query := `
		INSERT INTO ratings (id, store_id, user_id, rating_value, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID,
		r.StoreID,
		r.UserID,
		r.Value,
		r.Comment,
		r.CreatedAt,
		r.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("rating already exists",
				slog.String("store_id", r.StoreID.String()),
				slog.String("user_id", r.UserID.String()))
			return MapUniqueViolation(err, store.ErrRatingExists)
		}
		log.Error("failed to create rating",
			slog.String("error", err.Error()),
			slog.String("store_id", r.StoreID.String()),
			slog.String("user_id", r.UserID.String()))
		return MapError(err)
	}

	log.Info("rating created",
		slog.String("rating_id", r.ID.String()),
		slog.String("store_id", r.StoreID.String()),
		slog.Int("rating_value", r.Value))
	return nil
}

// GetByUserAndStore implements store.RatingStore.GetByUserAndStore
func (s *PostgresRatingStore) GetByUserAndStore(ctx context.Context, userID, storeID uuid.UUID) (*domain.Rating, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, store_id, user_id, rating_value, comment, created_at, updated_at
		FROM ratings
		WHERE user_id = $1 AND store_id = $2
	`
	var r domain.Rating
	var comment sql.NullString
	err := s.db.QueryRowContext(ctx, query, userID, storeID).Scan(
		&r.ID,
		&r.StoreID,
		&r.UserID,
		&r.Value,
		&comment,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRatingNotFound
		}
		log.Error("failed to get rating",
			slog.String("error", err.Error()),
			slog.String("store_id", storeID.String()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	r.Comment = nullStringPtr(comment)
	return &r, nil
}

// Update implements store.RatingStore.Update
func (s *PostgresRatingStore) Update(ctx context.Context, r *domain.Rating) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := r.Validate(); err != nil {
		return err
	}

	r.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE ratings
		SET rating_value = $1, comment = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, r.Value, r.Comment, r.UpdatedAt, r.ID)
	if err != nil {
		log.Error("failed to update rating",
			slog.String("error", err.Error()),
			slog.String("rating_id", r.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrRatingNotFound); err != nil {
		return err
	}

	log.Info("rating updated",
		slog.String("rating_id", r.ID.String()),
		slog.Int("rating_value", r.Value))
	return nil
}

// ListByStoreWithAuthors implements store.RatingStore.ListByStoreWithAuthors
func (s *PostgresRatingStore) ListByStoreWithAuthors(ctx context.Context, storeID uuid.UUID) ([]*domain.RatingWithAuthor, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT r.id, r.rating_value, r.comment, r.created_at,
			u.id, u.name, u.email, u.address
		FROM ratings r
		JOIN users u ON u.id = r.user_id
		WHERE r.store_id = $1
		ORDER BY r.created_at DESC, r.id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, storeID)
	if err != nil {
		log.Error("failed to list store ratings",
			slog.String("error", err.Error()),
			slog.String("store_id", storeID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	ratings := []*domain.RatingWithAuthor{}
	for rows.Next() {
		var r domain.RatingWithAuthor
		var comment sql.NullString
		if err := rows.Scan(
			&r.ID, &r.Value, &comment, &r.CreatedAt,
			&r.User.ID, &r.User.Name, &r.User.Email, &r.User.Address,
		); err != nil {
			return nil, err
		}
		r.Comment = nullStringPtr(comment)
		ratings = append(ratings, &r)
	}
	return ratings, rows.Err()
}

// Summarize implements store.RatingStore.Summarize
func (s *PostgresRatingStore) Summarize(ctx context.Context, storeID uuid.UUID) (float64, int, error) {
	var mean float64
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(rating_value), 0), COUNT(*) FROM ratings WHERE store_id = $1`,
		storeID,
	).Scan(&mean, &n)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to summarize ratings",
			slog.String("error", err.Error()),
			slog.String("store_id", storeID.String()))
		return 0, 0, MapError(err)
	}
	return mean, n, nil
}

// Count implements store.RatingStore.Count
func (s *PostgresRatingStore) Count(ctx context.Context) (int, error) {
	return count(ctx, s.db, "ratings")
}
