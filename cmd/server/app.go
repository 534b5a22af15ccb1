package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/store-rating-api/internal/config"
	"github.com/phrazzld/store-rating-api/internal/platform/metrics"
	"github.com/phrazzld/store-rating-api/internal/platform/postgres"
	"github.com/phrazzld/store-rating-api/internal/redact"
	"github.com/phrazzld/store-rating-api/internal/service"
	"github.com/phrazzld/store-rating-api/internal/service/auth"
	"github.com/phrazzld/store-rating-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Observability
	metrics        *metrics.Metrics
	metricsHandler http.Handler

	// Stores (using interfaces for proper abstraction)
	userStore   store.UserStore
	storeStore  store.StoreStore
	ratingStore store.RatingStore

	// Credential primitives
	jwtService auth.JWTService
	hasher     *auth.BcryptHasher

	// Service interfaces
	authService      service.AuthService
	userService      service.UserService
	storeService     service.StoreService
	ratingService    service.RatingService
	dashboardService service.DashboardService
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection and metrics registry are created by the caller;
// reg also backs the /metrics endpoint.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	reg *prometheus.Registry,
) (*application, error) {
	app := &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		metrics:        metrics.New(reg),
		metricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime", cfg.Auth.TokenLifetime.String())

	app.hasher = auth.NewBcryptHasher(cfg.Auth.BCryptCost)

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.storeStore = postgres.NewPostgresStoreStore(db, logger)
	app.ratingStore = postgres.NewPostgresRatingStore(db, logger)
	tx := store.NewSQLTransactor(db)

	app.authService = service.NewAuthService(tx, app.userStore, app.hasher, app.hasher, app.jwtService, logger)
	app.userService = service.NewUserService(tx, app.userStore, app.storeStore, app.hasher, logger)
	app.storeService = service.NewStoreService(tx, app.storeStore, app.userStore, app.ratingStore, logger)
	app.dashboardService = service.NewDashboardService(app.userStore, app.storeStore, app.ratingStore, logger)

	app.ratingService, err = service.NewRatingService(
		tx,
		app.ratingStore,
		app.storeStore,
		service.NewRatingAggregator(app.metrics, logger),
		app.metrics,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rating service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", redact.Attr(err))
		}
	}

	app.logger.Info("Application shutdown completed")
}
