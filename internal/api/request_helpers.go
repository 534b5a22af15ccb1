package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/api/shared"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/platform/logger"
	"github.com/phrazzld/store-rating-api/internal/service/auth"
)

// getClaims returns the identity the auth middleware put in the context.
// It writes a 401 and returns false when there is none.
func getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := shared.ClaimsFromContext(r.Context())
	if !ok || claims.UserID == uuid.Nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Warn("claims not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return claims, true
}

// getPathUUID extracts a UUID from the URL path parameters.
//
// Returns:
//   - (uuid.UUID, nil): The parsed UUID if valid
//   - (uuid.Nil, error): a ValidationError when the parameter is missing or malformed
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// handleClaimsAndPathUUID extracts both the caller's claims and a UUID path
// parameter. It writes an error response and returns false if either fails.
func handleClaimsAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (*auth.Claims, uuid.UUID, bool) {
	claims, ok := getClaims(w, r)
	if !ok {
		return nil, uuid.Nil, false
	}

	id, err := getPathUUID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err)
		return nil, uuid.Nil, false
	}

	return claims, id, true
}

// listOptionsFromQuery reads page, limit, sortBy and sortOrder. Values that
// are missing or not numbers fall back to the defaults in Normalize.
func listOptionsFromQuery(q url.Values) domain.ListOptions {
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return domain.ListOptions{
		Page:   page,
		Limit:  limit,
		SortBy: strings.TrimSpace(q.Get("sortBy")),
		Order:  domain.ParseSortOrder(q.Get("sortOrder")),
	}.Normalize()
}

func userFilterFromQuery(q url.Values) domain.UserFilter {
	return domain.UserFilter{
		Name:    strings.TrimSpace(q.Get("name")),
		Email:   strings.TrimSpace(q.Get("email")),
		Address: strings.TrimSpace(q.Get("address")),
		Role:    strings.TrimSpace(q.Get("role")),
	}
}

func storeFilterFromQuery(q url.Values) domain.StoreFilter {
	return domain.StoreFilter{
		Name:    strings.TrimSpace(q.Get("name")),
		Email:   strings.TrimSpace(q.Get("email")),
		Address: strings.TrimSpace(q.Get("address")),
	}
}

// decodeBody decodes the JSON body into v and writes a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, log *slog.Logger) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		log.Debug("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	return true
}

// nonNil returns an empty slice for nil so lists encode as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
