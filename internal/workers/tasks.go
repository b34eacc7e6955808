// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/gajahnusa/retail-be/internal/core/ports"
)

const (
	TypeLowStockAlert     = "stock:low_alert"
	TypeDailySalesSummary = "sales:daily_summary"
)

// NewLowStockAlertTask builds the task enqueued after a committed mutation
// leaves a store quantity below its minimum threshold.
func NewLowStockAlertTask(alert ports.LowStockAlert) (*asynq.Task, error) {
	b, err := json.Marshal(alert)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal low stock alert: %w", err)
	}
	return asynq.NewTask(TypeLowStockAlert, b, asynq.Queue("critical")), nil
}

// NewDailySalesSummaryTask builds the task that aggregates one store's sales
// for a calendar day.
func NewDailySalesSummaryTask(summary ports.DailySalesSummary) (*asynq.Task, error) {
	b, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal daily sales summary: %w", err)
	}
	return asynq.NewTask(TypeDailySalesSummary, b, asynq.Queue("low")), nil
}
