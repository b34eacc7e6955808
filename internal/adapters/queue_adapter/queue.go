// internal/adapters/queue_adapter/queue.go
package queue_a

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/gajahnusa/retail-be/internal/core/ports"
	"github.com/gajahnusa/retail-be/internal/workers"
)

// Queue enqueues background tasks through Asynq
type Queue struct {
	client *asynq.Client
	logger *slog.Logger
}

// Statically assert that *Queue implements the TaskQueue interface.
var _ ports.TaskQueue = (*Queue)(nil)

// NewQueue creates a new task queue backed by the given Asynq client
func NewQueue(client *asynq.Client, logger *slog.Logger) ports.TaskQueue {
	return &Queue{
		client: client,
		logger: logger.With(slog.String("component", "task_queue")),
	}
}

// EnqueueLowStockAlert enqueues a low stock notification task
func (q *Queue) EnqueueLowStockAlert(ctx context.Context, alert ports.LowStockAlert) error {
	task, err := workers.NewLowStockAlertTask(alert)
	if err != nil {
		return err
	}

	info, err := q.client.EnqueueContext(ctx, task, asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("failed to enqueue low stock alert: %w", err)
	}

	q.logger.DebugContext(ctx, "low stock alert enqueued",
		slog.String("task_id", info.ID),
		slog.Int64("store_id", alert.StoreID),
		slog.Int64("product_id", alert.ProductID))

	return nil
}

// EnqueueDailySalesSummary enqueues a daily sales aggregation task
func (q *Queue) EnqueueDailySalesSummary(ctx context.Context, summary ports.DailySalesSummary) error {
	task, err := workers.NewDailySalesSummaryTask(summary)
	if err != nil {
		return err
	}

	info, err := q.client.EnqueueContext(ctx, task, asynq.MaxRetry(5))
	if err != nil {
		return fmt.Errorf("failed to enqueue daily sales summary: %w", err)
	}

	q.logger.DebugContext(ctx, "daily sales summary enqueued",
		slog.String("task_id", info.ID),
		slog.Int64("store_id", summary.StoreID),
		slog.String("date", summary.Date))

	return nil
}

// Close closes the underlying Asynq client
func (q *Queue) Close() error {
	return q.client.Close()
}
