// internal/handlers/catalog.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
)

// CatalogHandler exposes product and store reference data
type CatalogHandler struct {
	service ports.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service ports.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "catalog")),
	}
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, offset := parsePagination(r)
	filter := ports.ProductListFilter{
		Search: r.URL.Query().Get("search"),
		Limit:  limit,
		Offset: offset,
	}

	if v := r.URL.Query().Get("category"); v != "" {
		category := domain.ProductCategory(v)
		filter.Category = &category
	}

	products, total, err := h.service.ListProducts(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products",
			slog.String("error", err.Error()))
		respondDomainError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, listResponse{
		Data:   products,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// ListStores handles GET /api/v1/stores
func (h *CatalogHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stores, err := h.service.ListStores(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list stores",
			slog.String("error", err.Error()))
		respondDomainError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{"data": stores})
}
