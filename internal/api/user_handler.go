package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/store-rating-api/internal/api/shared"
	"github.com/phrazzld/store-rating-api/internal/platform/logger"
	"github.com/phrazzld/store-rating-api/internal/service"
)

// UserHandler serves /api/user for NORMAL_USER callers: browsing stores,
// rating them and editing their own profile.
type UserHandler struct {
	storeService  service.StoreService
	ratingService service.RatingService
	userService   service.UserService
	logger        *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	storeService service.StoreService,
	ratingService service.RatingService,
	userService service.UserService,
	logger *slog.Logger,
) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		storeService:  storeService,
		ratingService: ratingService,
		userService:   userService,
		logger:        logger.With(slog.String("component", "user_handler")),
	}
}

// ListStores handles GET /stores. Each row carries the caller's own rating as myRating.
func (h *UserHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	stores, page, err := h.storeService.ListStoresForUser(r.Context(), claims.UserID,
		storeFilterFromQuery(q), listOptionsFromQuery(q))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ListResponse{Data: nonNil(stores), Pagination: page})
}

// UpdateProfile handles PUT /me
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !decodeBody(w, r, &req, log) {
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), claims.UserID, service.UpdateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Address:  req.Address,
		Password: req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, UserResponse{Message: "Profile updated", User: user})
}

// CreateRating handles POST /stores/{storeId}/rating
func (h *UserHandler) CreateRating(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	claims, storeID, ok := handleClaimsAndPathUUID(w, r, "storeId", log)
	if !ok {
		return
	}

	var req CreateRatingRequest
	if !decodeBody(w, r, &req, log) {
		return
	}
	if req.Value == nil || *req.Value == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "rating_value is required")
		return
	}

	rating, err := h.ratingService.CreateRating(r.Context(), claims.UserID, storeID, *req.Value, req.Comment)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, RatingResponse{Message: "Rating created successfully", Rating: rating})
}

// UpdateRating handles PUT /stores/{storeId}/rating
func (h *UserHandler) UpdateRating(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	claims, storeID, ok := handleClaimsAndPathUUID(w, r, "storeId", log)
	if !ok {
		return
	}

	var req UpdateRatingRequest
	if !decodeBody(w, r, &req, log) {
		return
	}

	rating, err := h.ratingService.UpdateRating(r.Context(), claims.UserID, storeID, service.UpdateRatingInput{
		Value:   req.Value,
		Comment: req.Comment,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, RatingResponse{Message: "Rating updated successfully", Rating: rating})
}

// GetMyRating handles GET /stores/{storeId}/rating/me. It answers
// {"rating": null} when the caller has not rated the store.
func (h *UserHandler) GetMyRating(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	claims, storeID, ok := handleClaimsAndPathUUID(w, r, "storeId", log)
	if !ok {
		return
	}

	rating, err := h.ratingService.GetMyRating(r.Context(), claims.UserID, storeID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, RatingResponse{Rating: rating})
}
