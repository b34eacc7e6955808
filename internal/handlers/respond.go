// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gajahnusa/retail-be/internal/core/domain"
)

// listResponse is the envelope for paginated collection endpoints.
type listResponse struct {
	Data   interface{} `json:"data"`
	Total  int64       `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

func respondJSON(logger *slog.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func respondError(logger *slog.Logger, w http.ResponseWriter, status int, message string) {
	respondJSON(logger, w, status, map[string]string{"error": message})
}

// respondDomainError maps the domain error taxonomy to HTTP statuses.
// Anything outside the taxonomy is an internal error and its detail stays
// out of the response body.
func respondDomainError(logger *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(logger, w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrValidation):
		respondError(logger, w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientPayment):
		respondError(logger, w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInsufficientAvailable),
		errors.Is(err, domain.ErrInvalidTransition):
		respondError(logger, w, http.StatusConflict, err.Error())
	default:
		respondError(logger, w, http.StatusInternalServerError, "internal server error")
	}
}

// parsePagination reads limit/offset query parameters with sane bounds.
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 {
			if l > 100 {
				l = 100
			}
			limit = l
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}

// parseInt64Query reads an optional int64 query parameter.
func parseInt64Query(r *http.Request, key string) *int64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
