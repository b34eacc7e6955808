// internal/core/services/pos.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
)

// PosService commits point-of-sale checkouts. A sale decrements every
// line's store counter, appends the matching ledger entries and persists
// the priced transaction in one atomic unit of work.
type PosService struct {
	ledger   *Ledger
	txns     ports.TransactionRepository
	products ports.ProductRepository
	db       ports.Database
	cache    ports.CacheRepository
	queue    ports.TaskQueue
	taxRate  decimal.Decimal
	alerts   bool
	logger   *slog.Logger
}

var _ ports.PosService = (*PosService)(nil)

// NewPosService creates a new point-of-sale service
func NewPosService(
	ledger *Ledger,
	txns ports.TransactionRepository,
	products ports.ProductRepository,
	db ports.Database,
	cache ports.CacheRepository,
	queue ports.TaskQueue,
	taxRate decimal.Decimal,
	alerts bool,
	logger *slog.Logger,
) *PosService {
	return &PosService{
		ledger:   ledger,
		txns:     txns,
		products: products,
		db:       db,
		cache:    cache,
		queue:    queue,
		taxRate:  taxRate,
		alerts:   alerts,
		logger:   logger.With(slog.String("service", "pos")),
	}
}

// CommitSale prices the cart from the catalog, checks payment, then in one
// transaction decrements every line's stock and saves the transaction.
// Insufficient stock on any line fails the whole sale with counters
// untouched.
func (s *PosService) CommitSale(ctx context.Context, params ports.CommitSaleParams) (*domain.PosTransaction, error) {
	txn := &domain.PosTransaction{
		StoreID:        params.StoreID,
		CustomerName:   params.CustomerName,
		PaymentMethod:  params.PaymentMethod,
		AmountTendered: params.AmountTendered,
		CashierID:      params.CashierID,
	}

	ids := make([]int64, 0, len(params.Items))
	for i := range params.Items {
		txn.Items = append(txn.Items, domain.TransactionItem{
			ProductID: params.Items[i].ProductID,
			Quantity:  params.Items[i].Quantity,
		})
		ids = append(ids, params.Items[i].ProductID)
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}
	if _, err := domain.ParsePaymentMethod(string(params.PaymentMethod)); err != nil {
		return nil, err
	}

	catalog, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}
	for i := range txn.Items {
		product, ok := catalog[txn.Items[i].ProductID]
		if !ok {
			return nil, domain.NotFoundError("product", txn.Items[i].ProductID)
		}
		txn.Items[i].ProductName = product.Name
		txn.Items[i].ProductCode = product.Code
		txn.Items[i].UnitPrice = product.Price
	}

	txn.Price(s.taxRate)
	if err := txn.SettleCash(); err != nil {
		return nil, err
	}

	txn.PrepareForStorage()
	txn.TransactionCode = transactionCode(txn)

	actorID := params.CashierID
	lowStock := make([]*domain.StoreInventoryRecord, 0, len(txn.Items))

	err = s.db.Transaction(ctx, func(tx pgx.Tx) error {
		lowStock = lowStock[:0]
		reason := fmt.Sprintf("sale %s", txn.TransactionCode)

		for i := range txn.Items {
			_, record, err := s.ledger.AdjustStore(ctx, tx, AdjustStoreParams{
				StoreID:      params.StoreID,
				ProductID:    txn.Items[i].ProductID,
				Mode:         domain.AdjustOut,
				Quantity:     txn.Items[i].Quantity,
				MovementType: domain.MovementSale,
				Reason:       reason,
				ActorID:      &actorID,
			})
			if err != nil {
				return err
			}
			if record.BelowMinimum() {
				lowStock = append(lowStock, record)
			}
		}

		return s.txns.Save(ctx, tx, txn)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "sale committed",
		slog.String("code", txn.TransactionCode),
		slog.Int64("store_id", txn.StoreID),
		slog.Int("items", len(txn.Items)),
		slog.String("total", txn.Total.String()))

	s.invalidateCache(ctx, params.StoreID)
	s.scheduleSummary(ctx, txn)
	for _, record := range lowStock {
		s.alertLowStock(ctx, record, catalog[record.ProductID].Name)
	}

	return txn, nil
}

// transactionCode derives the receipt code from the transaction's own id,
// so concurrent sales in the same store never collide on the unique code.
func transactionCode(txn *domain.PosTransaction) string {
	suffix := strings.ToUpper(strings.ReplaceAll(txn.ID.String(), "-", ""))[:8]
	return fmt.Sprintf("TRX-%d-%s-%s", txn.StoreID, txn.CreatedAt.Format("20060102"), suffix)
}

// Get retrieves a transaction with its items.
func (s *PosService) Get(ctx context.Context, id uuid.UUID) (*domain.PosTransaction, error) {
	txn, err := s.txns.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// List retrieves transactions newest-first with filtering and pagination
func (s *PosService) List(ctx context.Context, filter ports.TransactionListFilter) ([]domain.PosTransaction, int64, error) {
	txns, total, err := s.txns.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, total, nil
}

func (s *PosService) invalidateCache(ctx context.Context, storeID int64) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("inventory:store:%d:*", storeID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		s.logger.WarnContext(ctx, "cache invalidation failed",
			slog.String("pattern", pattern), "err", err)
	}
}

// scheduleSummary asks the worker to rebuild the store's sales summary for
// the sale's calendar day. The sale is already committed; an enqueue
// failure is logged and never propagated.
func (s *PosService) scheduleSummary(ctx context.Context, txn *domain.PosTransaction) {
	if s.queue == nil {
		return
	}

	err := s.queue.EnqueueDailySalesSummary(ctx, ports.DailySalesSummary{
		StoreID: txn.StoreID,
		Date:    txn.CreatedAt.Format("2006-01-02"),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue daily sales summary",
			slog.Int64("store_id", txn.StoreID),
			"err", err)
	}
}

func (s *PosService) alertLowStock(ctx context.Context, record *domain.StoreInventoryRecord, productName string) {
	if !s.alerts || s.queue == nil {
		return
	}

	err := s.queue.EnqueueLowStockAlert(ctx, ports.LowStockAlert{
		StoreID:      record.StoreID,
		ProductID:    record.ProductID,
		ProductName:  productName,
		Quantity:     record.Quantity,
		MinThreshold: record.MinThreshold,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue low stock alert",
			slog.Int64("store_id", record.StoreID),
			slog.Int64("product_id", record.ProductID),
			"err", err)
	}
}
