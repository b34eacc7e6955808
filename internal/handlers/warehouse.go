// internal/handlers/warehouse.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
)

// warehouseStockResponse adds the derived available quantity to the
// stored counter pair.
type warehouseStockResponse struct {
	domain.WarehouseRecord
	Available int `json:"available"`
}

func toWarehouseStockResponse(record domain.WarehouseRecord) warehouseStockResponse {
	return warehouseStockResponse{
		WarehouseRecord: record,
		Available:       record.Available(),
	}
}

// WarehouseHandler exposes read access to the central warehouse counters
type WarehouseHandler struct {
	service ports.WarehouseService
	logger  *slog.Logger
}

// NewWarehouseHandler creates a new warehouse handler
func NewWarehouseHandler(service ports.WarehouseService, logger *slog.Logger) *WarehouseHandler {
	return &WarehouseHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "warehouse")),
	}
}

// GetStock handles GET /api/v1/warehouse/{productID}
func (h *WarehouseHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, err := strconv.ParseInt(r.PathValue("productID"), 10, 64)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid product id")
		return
	}

	record, err := h.service.Get(ctx, productID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get warehouse stock",
			slog.Int64("product_id", productID),
			slog.String("error", err.Error()))
		respondDomainError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, toWarehouseStockResponse(*record))
}

// ListStock handles GET /api/v1/warehouse
func (h *WarehouseHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, offset := parsePagination(r)
	filter := ports.WarehouseListFilter{
		ProductID: parseInt64Query(r, "product_id"),
		Limit:     limit,
		Offset:    offset,
	}

	records, total, err := h.service.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list warehouse stock",
			slog.String("error", err.Error()))
		respondDomainError(h.logger, w, err)
		return
	}

	data := make([]warehouseStockResponse, 0, len(records))
	for _, record := range records {
		data = append(data, toWarehouseStockResponse(record))
	}

	respondJSON(h.logger, w, http.StatusOK, listResponse{
		Data:   data,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}
