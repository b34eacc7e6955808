// internal/core/ports/queue.go
package ports

import "context"

//go:generate mockgen -source=queue.go -destination=../../../test/mocks/mock_queue.go -package=mocks

// LowStockAlert is the payload enqueued when a committed mutation leaves a
// store quantity below its minimum threshold.
type LowStockAlert struct {
	StoreID      int64  `json:"store_id"`
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name,omitempty"`
	Quantity     int    `json:"quantity"`
	MinThreshold int    `json:"min_threshold"`
}

// DailySalesSummary asks the worker to aggregate one store's sales for a day.
type DailySalesSummary struct {
	StoreID int64  `json:"store_id"`
	Date    string `json:"date"` // YYYY-MM-DD
}

// TaskQueue enqueues background work. Enqueueing happens after the related
// database transaction commits; a failed enqueue is logged and never fails
// the committed operation.
type TaskQueue interface {
	EnqueueLowStockAlert(ctx context.Context, alert LowStockAlert) error
	EnqueueDailySalesSummary(ctx context.Context, summary DailySalesSummary) error
	Close() error
}
