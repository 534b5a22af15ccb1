package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/store-rating-api/internal/api"
	apiMiddleware "github.com/phrazzld/store-rating-api/internal/api/middleware"
	"github.com/phrazzld/store-rating-api/internal/api/shared"
)

// corsMaxAge is how long browsers may cache a preflight response, in seconds.
const corsMaxAge = 300

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.Metrics(app.metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{shared.TraceIDHeader},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}))

	api.RegisterRoutes(r, api.Handlers{
		Auth:  api.NewAuthHandler(app.authService, app.logger),
		Admin: api.NewAdminHandler(app.userService, app.storeService, app.dashboardService, app.logger),
		Owner: api.NewOwnerHandler(app.storeService, app.logger),
		User:  api.NewUserHandler(app.storeService, app.ratingService, app.userService, app.logger),
	}, apiMiddleware.NewAuthMiddleware(app.jwtService))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK,
			shared.MessageResponse{Message: "Ratings Platform API is running"})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	r.Method(http.MethodGet, "/metrics", app.metricsHandler)

	return r
}
