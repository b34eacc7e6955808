// internal/workers/alert_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/hibiken/asynq"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
	"github.com/gajahnusa/retail-be/internal/pkg/config"
)

// AlertProcessor handles low stock alert notifications
type AlertProcessor struct {
	stores ports.StoreRepository
	config *config.Config
	logger *slog.Logger
}

// NewAlertProcessor creates a new alert processor
func NewAlertProcessor(stores ports.StoreRepository, config *config.Config, logger *slog.Logger) *AlertProcessor {
	return &AlertProcessor{
		stores: stores,
		config: config,
		logger: logger.With(slog.String("processor", "alert")),
	}
}

// HandleLowStockAlert notifies the purchasing team that a store has dropped
// below its restock threshold for a product.
func (p *AlertProcessor) HandleLowStockAlert(ctx context.Context, t *asynq.Task) error {
	var alert ports.LowStockAlert
	if err := json.Unmarshal(t.Payload(), &alert); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	storeName := fmt.Sprintf("store %d", alert.StoreID)
	store, err := p.stores.FindByID(ctx, alert.StoreID)
	if err != nil {
		if !domain.IsNotFound(err) {
			return fmt.Errorf("failed to look up store %d: %w", alert.StoreID, err)
		}
	} else {
		storeName = fmt.Sprintf("%s (%s)", store.Name, store.Code)
	}

	subject := fmt.Sprintf("Low stock: %s at %s", alert.ProductName, storeName)
	body := fmt.Sprintf(
		"Product %q (id %d) at %s is down to %d units, below the restock threshold of %d.\n"+
			"Consider raising a purchase order against the central warehouse.",
		alert.ProductName, alert.ProductID, storeName, alert.Quantity, alert.MinThreshold,
	)

	p.logger.InfoContext(ctx, "low stock alert",
		slog.Int64("store_id", alert.StoreID),
		slog.Int64("product_id", alert.ProductID),
		slog.Int("quantity", alert.Quantity),
		slog.Int("min_threshold", alert.MinThreshold))

	// In development, just log the notification
	if p.config.App.Environment == "development" {
		p.logger.InfoContext(ctx, "alert email would be sent",
			slog.String("subject", subject),
			slog.String("body", body))
		return nil
	}

	// Production email sending
	from := "noreply@gajahnusa.co.id"
	to := "purchasing@gajahnusa.co.id"
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		from, to, subject, body,
	))

	auth := smtp.PlainAuth("", "", "", "smtp.gajahnusa.co.id")
	if err := smtp.SendMail("smtp.gajahnusa.co.id:587", auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	p.logger.InfoContext(ctx, "alert email sent")
	return nil
}
