// internal/handlers/inventory.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
)

// InventoryHandler handles store inventory HTTP requests
type InventoryHandler struct {
	service ports.InventoryService
	logger  *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service ports.InventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "inventory")),
	}
}

// AdjustRequest represents the request body for a stock adjustment
type AdjustRequest struct {
	StoreID   int64  `json:"store_id"`
	ProductID int64  `json:"product_id"`
	Mode      string `json:"mode"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason,omitempty"`
	ActorID   *int64 `json:"actor_id,omitempty"`
}

// AdjustStock handles POST /api/v1/inventory/adjust
func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}

	mode, err := domain.ParseAdjustmentMode(req.Mode)
	if err != nil {
		respondDomainError(h.logger, w, err)
		return
	}

	result, err := h.service.Adjust(ctx, ports.AdjustParams{
		StoreID:   req.StoreID,
		ProductID: req.ProductID,
		Mode:      mode,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		ActorID:   req.ActorID,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "stock adjustment failed",
			slog.Int64("store_id", req.StoreID),
			slog.Int64("product_id", req.ProductID),
			slog.String("mode", req.Mode),
			slog.String("error", err.Error()))
		respondDomainError(h.logger, w, err)
		return
	}

	h.logger.InfoContext(ctx, "stock adjusted",
		slog.Int64("store_id", req.StoreID),
		slog.Int64("product_id", req.ProductID),
		slog.String("mode", req.Mode),
		slog.Int("previous", result.Previous),
		slog.Int("new", result.New))

	respondJSON(h.logger, w, http.StatusOK, result)
}

// ListInventory handles GET /api/v1/inventory
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID := parseInt64Query(r, "store_id")
	if storeID == nil {
		respondError(h.logger, w, http.StatusBadRequest, "store_id is required")
		return
	}

	limit, offset := parsePagination(r)
	filter := ports.InventoryListFilter{
		StoreID:   *storeID,
		ProductID: parseInt64Query(r, "product_id"),
		LowStock:  r.URL.Query().Get("low_stock") == "true",
		Limit:     limit,
		Offset:    offset,
	}

	records, total, err := h.service.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list inventory",
			slog.Int64("store_id", *storeID),
			slog.String("error", err.Error()))
		respondDomainError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, listResponse{
		Data:   records,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// ListMovements handles GET /api/v1/movements
func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, offset := parsePagination(r)
	filter := ports.MovementListFilter{
		StoreID:   parseInt64Query(r, "store_id"),
		ProductID: parseInt64Query(r, "product_id"),
		Limit:     limit,
		Offset:    offset,
	}

	if v := r.URL.Query().Get("scope"); v != "" {
		scope := domain.MovementScope(v)
		if scope != domain.ScopeStore && scope != domain.ScopeWarehouse {
			respondError(h.logger, w, http.StatusBadRequest, "unknown movement scope")
			return
		}
		filter.Scope = &scope
	}

	if v := r.URL.Query().Get("type"); v != "" {
		mt := domain.MovementType(v)
		filter.Type = &mt
	}

	movements, total, err := h.service.ListMovements(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list movements",
			slog.String("error", err.Error()))
		respondDomainError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, listResponse{
		Data:   movements,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}
