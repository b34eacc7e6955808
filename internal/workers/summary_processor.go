// internal/workers/summary_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/gajahnusa/retail-be/internal/core/ports"
)

// SummaryProcessor aggregates committed transactions into per-store daily
// sales summaries.
type SummaryProcessor struct {
	db     ports.Database
	logger *slog.Logger
}

// NewSummaryProcessor creates a new summary processor
func NewSummaryProcessor(db ports.Database, logger *slog.Logger) *SummaryProcessor {
	return &SummaryProcessor{
		db:     db,
		logger: logger.With(slog.String("processor", "summary")),
	}
}

// HandleDailySalesSummary recomputes one store's summary row for a day.
// Rebuilding from the transactions table keeps the task idempotent; running
// it twice for the same day just overwrites the row with the same numbers.
func (p *SummaryProcessor) HandleDailySalesSummary(ctx context.Context, t *asynq.Task) error {
	var payload ports.DailySalesSummary
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if _, err := time.Parse("2006-01-02", payload.Date); err != nil {
		return fmt.Errorf("invalid summary date %q: %w", payload.Date, err)
	}

	query := `
		INSERT INTO daily_sales_summaries (
			store_id, summary_date, transactions_count, total_sales, total_tax, generated_at
		)
		SELECT $1, $2::date, COUNT(*), COALESCE(SUM(total), 0), COALESCE(SUM(tax), 0), NOW()
		FROM transactions
		WHERE store_id = $1
		  AND created_at >= $2::date
		  AND created_at < $2::date + INTERVAL '1 day'
		ON CONFLICT (store_id, summary_date) DO UPDATE SET
			transactions_count = EXCLUDED.transactions_count,
			total_sales = EXCLUDED.total_sales,
			total_tax = EXCLUDED.total_tax,
			generated_at = EXCLUDED.generated_at`

	if _, err := p.db.Exec(ctx, query, payload.StoreID, payload.Date); err != nil {
		return fmt.Errorf("failed to upsert daily sales summary: %w", err)
	}

	p.logger.InfoContext(ctx, "daily sales summary generated",
		slog.Int64("store_id", payload.StoreID),
		slog.String("date", payload.Date))

	return nil
}
