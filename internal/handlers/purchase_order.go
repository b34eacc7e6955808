// internal/handlers/purchase_order.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
)

// PurchaseOrderHandler drives the purchase order workflow over HTTP
type PurchaseOrderHandler struct {
	service ports.PurchaseOrderService
	logger  *slog.Logger
}

// NewPurchaseOrderHandler creates a new purchase order handler
func NewPurchaseOrderHandler(service ports.PurchaseOrderService, logger *slog.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "purchase_order")),
	}
}

// CreatePurchaseOrderRequest represents the request body for creating an order
type CreatePurchaseOrderRequest struct {
	StoreID     int64                      `json:"store_id"`
	Items       []PurchaseOrderItemRequest `json:"items"`
	Notes       string                     `json:"notes,omitempty"`
	RequestedBy int64                      `json:"requested_by"`
}

// PurchaseOrderItemRequest is one requested order line
type PurchaseOrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// TransitionRequest represents the request body for a status change
type TransitionRequest struct {
	Status  string `json:"status"`
	ActorID *int64 `json:"actor_id,omitempty"`
}

// Create handles POST /api/v1/purchase-orders
func (h *PurchaseOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreatePurchaseOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := ports.CreatePurchaseOrderParams{
		StoreID:     req.StoreID,
		Notes:       req.Notes,
		RequestedBy: req.RequestedBy,
	}
	for _, item := range req.Items {
		params.Items = append(params.Items, ports.PurchaseOrderItemParams{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.service.Create(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create purchase order",
			slog.Int64("store_id", req.StoreID),
			slog.String("error", err.Error()))
		respondDomainError(h.logger, w, err)
		return
	}

	h.logger.InfoContext(ctx, "purchase order created",
		slog.String("order_number", order.OrderNumber),
		slog.Int64("store_id", order.StoreID))

	respondJSON(h.logger, w, http.StatusCreated, order)
}

// Get handles GET /api/v1/purchase-orders/{id}
func (h *PurchaseOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid purchase order id")
		return
	}

	order, err := h.service.Get(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get purchase order",
			slog.String("id", id.String()),
			slog.String("error", err.Error()))
		respondDomainError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, order)
}

// List handles GET /api/v1/purchase-orders
func (h *PurchaseOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, offset := parsePagination(r)
	filter := ports.PurchaseOrderListFilter{
		StoreID: parseInt64Query(r, "store_id"),
		Limit:   limit,
		Offset:  offset,
	}

	if v := r.URL.Query().Get("status"); v != "" {
		status, err := domain.ParsePurchaseOrderStatus(v)
		if err != nil {
			respondDomainError(h.logger, w, err)
			return
		}
		filter.Status = &status
	}

	orders, total, err := h.service.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list purchase orders",
			slog.String("error", err.Error()))
		respondDomainError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, listResponse{
		Data:   orders,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// Transition handles PATCH /api/v1/purchase-orders/{id}/status
func (h *PurchaseOrderHandler) Transition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid purchase order id")
		return
	}

	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}

	next, err := domain.ParsePurchaseOrderStatus(req.Status)
	if err != nil {
		respondDomainError(h.logger, w, err)
		return
	}

	order, err := h.service.Transition(ctx, id, next, req.ActorID)
	if err != nil {
		h.logger.ErrorContext(ctx, "purchase order transition failed",
			slog.String("id", id.String()),
			slog.String("next_status", req.Status),
			slog.String("error", err.Error()))
		respondDomainError(h.logger, w, err)
		return
	}

	h.logger.InfoContext(ctx, "purchase order transitioned",
		slog.String("order_number", order.OrderNumber),
		slog.String("status", string(order.Status)))

	respondJSON(h.logger, w, http.StatusOK, order)
}
