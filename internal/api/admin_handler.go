package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/api/shared"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/platform/logger"
	"github.com/phrazzld/store-rating-api/internal/service"
)

// AdminHandler serves /api/admin. Every route behind it requires SYSTEM_ADMIN.
type AdminHandler struct {
	userService      service.UserService
	storeService     service.StoreService
	dashboardService service.DashboardService
	logger           *slog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	userService service.UserService,
	storeService service.StoreService,
	dashboardService service.DashboardService,
	logger *slog.Logger,
) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{
		userService:      userService,
		storeService:     storeService,
		dashboardService: dashboardService,
		logger:           logger.With(slog.String("component", "admin_handler")),
	}
}

// Dashboard handles GET /dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// CreateUser handles POST /users
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateUserRequest
	if !decodeBody(w, r, &req, log) {
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "All fields are required")
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid role")
		return
	}

	user, err := h.userService.CreateUser(r.Context(), service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Address:  req.Address,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, UserResponse{Message: "User created successfully", User: user})
}

// ListUsers handles GET /users with name, email, address and role filters.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, page, err := h.userService.ListUsers(r.Context(), userFilterFromQuery(q), listOptionsFromQuery(q))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ListResponse{Data: nonNil(users), Pagination: page})
}

// GetUser handles GET /users/{id}
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, userID, ok := handleClaimsAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	detail, err := h.userService.GetUserDetail(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, detail)
}

// UpdateUser handles PUT /users/{id}
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, userID, ok := handleClaimsAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !decodeBody(w, r, &req, log) {
		return
	}

	in := service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Address:  req.Address,
		Password: req.Password,
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid role")
			return
		}
		in.Role = &role
	}

	user, err := h.userService.UpdateUser(r.Context(), userID, in)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, UserResponse{Message: "User updated", User: user})
}

// DeleteUser handles DELETE /users/{id}. An admin cannot delete their own account.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	claims, userID, ok := handleClaimsAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(r.Context(), claims.UserID, userID); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: "User deleted"})
}

// CreateStore handles POST /stores
func (h *AdminHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateStoreRequest
	if !decodeBody(w, r, &req, log) {
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Name, address and ownerId are required")
		return
	}
	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "ownerId must be a valid UUID")
		return
	}

	st, err := h.storeService.CreateStore(r.Context(), service.CreateStoreInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		OwnerID: ownerID,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, StoreResponse{Message: "Store created successfully", Store: st})
}

// ListStores handles GET /stores
func (h *AdminHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	stores, page, err := h.storeService.ListStores(r.Context(), storeFilterFromQuery(q), listOptionsFromQuery(q))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ListResponse{Data: nonNil(stores), Pagination: page})
}

// GetStore handles GET /stores/{id}; the owner's identity is included.
func (h *AdminHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, storeID, ok := handleClaimsAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	st, err := h.storeService.GetStore(r.Context(), storeID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, StoreResponse{Message: "Store fetched successfully", Store: st})
}

// UpdateStore handles PUT /stores/{id}
func (h *AdminHandler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, storeID, ok := handleClaimsAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateStoreRequest
	if !decodeBody(w, r, &req, log) {
		return
	}

	in := service.UpdateStoreInput{Name: req.Name, Email: req.Email, Address: req.Address}
	if req.OwnerID != nil {
		ownerID, err := uuid.Parse(*req.OwnerID)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "ownerId must be a valid UUID")
			return
		}
		in.OwnerID = &ownerID
	}

	st, err := h.storeService.UpdateStore(r.Context(), storeID, in)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, StoreResponse{Message: "Store updated successfully", Store: st})
}

// DeleteStore handles DELETE /stores/{id}. Stores with ratings cannot be deleted.
func (h *AdminHandler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, storeID, ok := handleClaimsAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.storeService.DeleteStore(r.Context(), storeID); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	log.Info("store deleted", slog.String("store_id", storeID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: "Store deleted"})
}
