// internal/handlers/pos.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
)

// PosHandler handles point-of-sale HTTP requests
type PosHandler struct {
	service ports.PosService
	logger  *slog.Logger
}

// NewPosHandler creates a new POS handler
func NewPosHandler(service ports.PosService, logger *slog.Logger) *PosHandler {
	return &PosHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "pos")),
	}
}

// CommitSaleRequest represents the request body for a checkout
type CommitSaleRequest struct {
	StoreID        int64             `json:"store_id"`
	CustomerName   string            `json:"customer_name,omitempty"`
	Items          []SaleItemRequest `json:"items"`
	PaymentMethod  string            `json:"payment_method"`
	AmountTendered decimal.Decimal   `json:"amount_tendered"`
	CashierID      int64             `json:"cashier_id"`
}

// SaleItemRequest is one requested sale line
type SaleItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CommitSale handles POST /api/v1/transactions
func (h *PosHandler) CommitSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CommitSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}

	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		respondDomainError(h.logger, w, err)
		return
	}

	params := ports.CommitSaleParams{
		StoreID:        req.StoreID,
		CustomerName:   req.CustomerName,
		PaymentMethod:  method,
		AmountTendered: req.AmountTendered,
		CashierID:      req.CashierID,
	}
	for _, item := range req.Items {
		params.Items = append(params.Items, ports.SaleItemParams{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	txn, err := h.service.CommitSale(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "sale failed",
			slog.Int64("store_id", req.StoreID),
			slog.Int64("cashier_id", req.CashierID),
			slog.String("error", err.Error()))
		respondDomainError(h.logger, w, err)
		return
	}

	h.logger.InfoContext(ctx, "sale committed",
		slog.String("transaction_code", txn.TransactionCode),
		slog.Int64("store_id", txn.StoreID),
		slog.String("total", txn.Total.String()))

	respondJSON(h.logger, w, http.StatusCreated, txn)
}

// Get handles GET /api/v1/transactions/{id}
func (h *PosHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	txn, err := h.service.Get(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get transaction",
			slog.String("id", id.String()),
			slog.String("error", err.Error()))
		respondDomainError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, txn)
}

// List handles GET /api/v1/transactions
func (h *PosHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, offset := parsePagination(r)
	filter := ports.TransactionListFilter{
		StoreID:   parseInt64Query(r, "store_id"),
		CashierID: parseInt64Query(r, "cashier_id"),
		Limit:     limit,
		Offset:    offset,
	}

	txns, total, err := h.service.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list transactions",
			slog.String("error", err.Error()))
		respondDomainError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, listResponse{
		Data:   txns,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}
