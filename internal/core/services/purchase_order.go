// internal/core/services/purchase_order.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
)

// PurchaseOrderService drives the purchase order workflow: creation with
// all-or-nothing warehouse reservation, the status state machine, and the
// receipt that moves stock into the requesting store.
type PurchaseOrderService struct {
	ledger   *Ledger
	orders   ports.PurchaseOrderRepository
	products ports.ProductRepository
	stores   ports.StoreRepository
	db       ports.Database
	cache    ports.CacheRepository
	logger   *slog.Logger
}

var _ ports.PurchaseOrderService = (*PurchaseOrderService)(nil)

// NewPurchaseOrderService creates a new purchase order service
func NewPurchaseOrderService(
	ledger *Ledger,
	orders ports.PurchaseOrderRepository,
	products ports.ProductRepository,
	stores ports.StoreRepository,
	db ports.Database,
	cache ports.CacheRepository,
	logger *slog.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		ledger:   ledger,
		orders:   orders,
		products: products,
		stores:   stores,
		db:       db,
		cache:    cache,
		logger:   logger.With(slog.String("service", "purchase_orders")),
	}
}

// Create validates the request, prices the items from the catalog and, in
// one transaction, claims the store's next order number, reserves every
// item at the warehouse and saves the order. Any reservation failure
// rolls the whole creation back.
func (s *PurchaseOrderService) Create(ctx context.Context, params ports.CreatePurchaseOrderParams) (*domain.PurchaseOrder, error) {
	if params.StoreID <= 0 {
		return nil, domain.ValidationError("store_id is required")
	}
	if params.RequestedBy <= 0 {
		return nil, domain.ValidationError("requested_by is required")
	}
	if len(params.Items) == 0 {
		return nil, domain.ValidationError("purchase order needs at least one item")
	}

	store, err := s.stores.FindByID(ctx, params.StoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve store: %w", err)
	}

	ids := make([]int64, 0, len(params.Items))
	for i := range params.Items {
		if params.Items[i].ProductID <= 0 {
			return nil, domain.ValidationError("item %d: product_id is required", i)
		}
		if params.Items[i].Quantity <= 0 {
			return nil, domain.ValidationError("item %d: quantity must be positive", i)
		}
		ids = append(ids, params.Items[i].ProductID)
	}

	catalog, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}

	po := &domain.PurchaseOrder{
		StoreID:     params.StoreID,
		Notes:       params.Notes,
		RequestedBy: params.RequestedBy,
	}
	for i := range params.Items {
		product, ok := catalog[params.Items[i].ProductID]
		if !ok {
			return nil, domain.NotFoundError("product", params.Items[i].ProductID)
		}
		po.Items = append(po.Items, domain.PurchaseOrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    params.Items[i].Quantity,
			UnitPrice:   product.Price,
		})
	}

	if err := po.Validate(); err != nil {
		return nil, err
	}

	actorID := params.RequestedBy
	err = s.db.Transaction(ctx, func(tx pgx.Tx) error {
		seq, err := s.orders.NextOrderNumber(ctx, tx, params.StoreID)
		if err != nil {
			return err
		}
		po.OrderNumber = fmt.Sprintf("PO-%s-%04d", store.Code, seq)
		po.PrepareForStorage()

		reason := fmt.Sprintf("purchase order %s", po.OrderNumber)
		for i := range po.Items {
			_, err := s.ledger.Reserve(ctx, tx, po.Items[i].ProductID, po.Items[i].Quantity, reason, &actorID)
			if err != nil {
				return err
			}
		}

		return s.orders.Save(ctx, tx, po)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "purchase order created",
		slog.String("id", po.ID.String()),
		slog.String("order_number", po.OrderNumber),
		slog.Int64("store_id", po.StoreID),
		slog.Int("items", len(po.Items)))

	s.invalidateCache(ctx)

	return po, nil
}

// Transition moves an order along the state machine. Receiving runs the
// whole item loop in one transaction: each item leaves the warehouse and
// lands in the store's inventory, or nothing moves at all. Cancelling
// releases every reservation the same way.
func (s *PurchaseOrderService) Transition(ctx context.Context, id uuid.UUID, next domain.PurchaseOrderStatus, actorID *int64) (*domain.PurchaseOrder, error) {
	var po *domain.PurchaseOrder

	err := s.db.Transaction(ctx, func(tx pgx.Tx) error {
		var err error
		po, err = s.orders.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if !po.Status.CanTransitionTo(next) {
			return domain.TransitionError(po.Status, next)
		}

		switch next {
		case domain.POReceived:
			if err := s.receiveItems(ctx, tx, po, actorID); err != nil {
				return err
			}
		case domain.POCancelled:
			reason := fmt.Sprintf("purchase order %s cancelled", po.OrderNumber)
			for i := range po.Items {
				if _, err := s.ledger.Release(ctx, tx, po.Items[i].ProductID, po.Items[i].Quantity, reason, actorID); err != nil {
					return err
				}
			}
		}

		if err := s.orders.UpdateStatus(ctx, tx, id, next); err != nil {
			return err
		}
		po.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "purchase order transitioned",
		slog.String("id", id.String()),
		slog.String("order_number", po.OrderNumber),
		slog.String("status", string(next)))

	s.invalidateCache(ctx)

	return po, nil
}

// receiveItems drains each item's reservation from the warehouse and adds
// the quantity to the requesting store, all inside the caller's
// transaction.
func (s *PurchaseOrderService) receiveItems(ctx context.Context, tx pgx.Tx, po *domain.PurchaseOrder, actorID *int64) error {
	reason := fmt.Sprintf("purchase order %s received", po.OrderNumber)

	for i := range po.Items {
		item := &po.Items[i]

		if _, err := s.ledger.Receive(ctx, tx, item.ProductID, item.Quantity, reason, actorID); err != nil {
			return fmt.Errorf("receipt of product %d failed: %w", item.ProductID, err)
		}

		_, _, err := s.ledger.AdjustStore(ctx, tx, AdjustStoreParams{
			StoreID:      po.StoreID,
			ProductID:    item.ProductID,
			Mode:         domain.AdjustIn,
			Quantity:     item.Quantity,
			MovementType: domain.MovementReceive,
			Reason:       reason,
			ActorID:      actorID,
		})
		if err != nil {
			return fmt.Errorf("receipt of product %d failed: %w", item.ProductID, err)
		}
	}

	return nil
}

// Get retrieves a purchase order with its items.
func (s *PurchaseOrderService) Get(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}
	return po, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, filter ports.PurchaseOrderListFilter) ([]domain.PurchaseOrder, int64, error) {
	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	return orders, total, nil
}

func (s *PurchaseOrderService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, "warehouse:*"); err != nil {
		s.logger.WarnContext(ctx, "cache invalidation failed", "err", err)
	}
}
