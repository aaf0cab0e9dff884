package worker

// stock_alert_worker.go
// Consumes low-stock alert jobs produced after committed sales. Always logs;
// when an alert email address is configured, also notifies the supervisor.

import (
	"context"
	"encoding/json"
	"fmt"

	"negociopos/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type StockAlertWorker struct {
	mailer  *infra.Mailer
	alertTo string
}

// NewStockAlertWorker creates the worker. alertTo may be empty, in which case
// alerts are log-only.
func NewStockAlertWorker(mailer *infra.Mailer, alertTo string) *StockAlertWorker {
	return &StockAlertWorker{mailer: mailer, alertTo: alertTo}
}

func (w *StockAlertWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage) {
	var payload StockAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("stock_alert_worker: invalid payload")
		return
	}

	log.Warn().
		Str("store_id", payload.StoreID).
		Str("variant_id", payload.VariantID).
		Str("product", payload.Name).
		Int("stock", payload.Stock).
		Int("min_stock", payload.MinStock).
		Msg("stock por debajo del mínimo")

	if w.alertTo == "" || w.mailer == nil {
		return
	}

	subject := fmt.Sprintf("Stock bajo: %s", payload.Name)
	body := fmt.Sprintf("El producto %q quedó con stock %d (mínimo %d).",
		payload.Name, payload.Stock, payload.MinStock)
	if err := w.mailer.SendAlert(w.alertTo, subject, body); err != nil {
		log.Error().Err(err).Str("to", w.alertTo).Msg("stock_alert_worker: failed to send email")
		SendToDLQ(ctx, rdb, QueueStockAlerts, "stock_alert", raw, err.Error(), 1)
		return
	}
	log.Info().Str("to", w.alertTo).Str("product", payload.Name).Msg("stock_alert_worker: alert sent")
}
