package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/store-rating-api/internal/api/middleware"
	"github.com/phrazzld/store-rating-api/internal/domain"
)

// Handlers groups the handlers mounted under /api.
type Handlers struct {
	Auth  *AuthHandler
	Admin *AdminHandler
	Owner *OwnerHandler
	User  *UserHandler
}

// RegisterRoutes mounts the /api tree on r. Every protected group runs
// Authenticate and then RequireRoles; the two checks stay separate.
func RegisterRoutes(r chi.Router, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Auth.Signup)
			r.Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Use(middleware.RequireRoles(domain.Roles()...))
				r.Post("/change-password", h.Auth.ChangePassword)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(middleware.RequireRoles(domain.RoleSystemAdmin))

			r.Get("/dashboard", h.Admin.Dashboard)

			r.Post("/users", h.Admin.CreateUser)
			r.Get("/users", h.Admin.ListUsers)
			r.Get("/users/{id}", h.Admin.GetUser)
			r.Put("/users/{id}", h.Admin.UpdateUser)
			r.Delete("/users/{id}", h.Admin.DeleteUser)

			r.Post("/stores", h.Admin.CreateStore)
			r.Get("/stores", h.Admin.ListStores)
			r.Get("/stores/{id}", h.Admin.GetStore)
			r.Put("/stores/{id}", h.Admin.UpdateStore)
			r.Delete("/stores/{id}", h.Admin.DeleteStore)
		})

		r.Route("/owner", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(middleware.RequireRoles(domain.RoleStoreOwner))

			r.Get("/stores", h.Owner.ListStores)
			r.Get("/stores/{storeId}/ratings", h.Owner.GetStoreRatings)
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(middleware.RequireRoles(domain.RoleNormalUser))

			r.Get("/stores", h.User.ListStores)
			r.Put("/me", h.User.UpdateProfile)
			r.Post("/stores/{storeId}/rating", h.User.CreateRating)
			r.Put("/stores/{storeId}/rating", h.User.UpdateRating)
			r.Get("/stores/{storeId}/rating/me", h.User.GetMyRating)
		})
	})
}
