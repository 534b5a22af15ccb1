package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/store-rating-api/internal/api/shared"
	"github.com/phrazzld/store-rating-api/internal/platform/logger"
	"github.com/phrazzld/store-rating-api/internal/service"
)

// OwnerHandler serves /api/owner for STORE_OWNER callers.
type OwnerHandler struct {
	storeService service.StoreService
	logger       *slog.Logger
}

// NewOwnerHandler creates a new OwnerHandler
func NewOwnerHandler(storeService service.StoreService, logger *slog.Logger) *OwnerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OwnerHandler{
		storeService: storeService,
		logger:       logger.With(slog.String("component", "owner_handler")),
	}
}

// ListStores handles GET /stores and returns only the caller's stores.
func (h *OwnerHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	stores, err := h.storeService.ListOwnerStores(r.Context(), claims.UserID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, OwnerStoresResponse{Stores: nonNil(stores)})
}

// GetStoreRatings handles GET /stores/{storeId}/ratings. A store that is missing
// and a store owned by someone else both answer 404 with the same message.
func (h *OwnerHandler) GetStoreRatings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	claims, storeID, ok := handleClaimsAndPathUUID(w, r, "storeId", log)
	if !ok {
		return
	}

	result, err := h.storeService.GetOwnerStoreRatings(r.Context(), claims.UserID, storeID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	result.Ratings = nonNil(result.Ratings)
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
