package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/praxisledger/praxisledger/internal/finance"
	"github.com/praxisledger/praxisledger/internal/format"
	"github.com/praxisledger/praxisledger/internal/observability"
)

// AlertScanPayload configures one alert scan run.
type AlertScanPayload struct {
	// Recipient receives the digest email. Empty skips delivery.
	Recipient string `json:"recipient,omitempty"`
}

// NewAlertScanTask constructs the nightly scan task.
func NewAlertScanTask(payload AlertScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFinanceAlertScan, data), nil
}

// ReceivablesProvider yields the current receivables picture.
type ReceivablesProvider interface {
	Receivables(ctx context.Context) (finance.Receivables, error)
}

// Enqueuer submits follow-up tasks to the queue.
type Enqueuer interface {
	EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error)
}

// AlertScanJob walks the receivables alert feed, logs every alert and
// mails a digest of the overdue ones.
type AlertScanJob struct {
	Provider ReceivablesProvider
	Enqueuer Enqueuer
	Logger   *slog.Logger
	Metrics  *observability.Metrics
}

// Handle executes the alert scan.
func (j *AlertScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Provider == nil {
		return errors.New("alert scan: handler not configured")
	}
	var payload AlertScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	start := time.Now()
	logger := j.logger()
	logger.Info("starting alert scan")

	err := j.scan(ctx, payload, logger)
	j.Metrics.JobProcessed(TaskFinanceAlertScan, err)
	if err != nil {
		logger.Error("alert scan failed", slog.Any("error", err))
		return err
	}
	logger.Info("completed alert scan", slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *AlertScanJob) scan(ctx context.Context, payload AlertScanPayload, logger *slog.Logger) error {
	receivables, err := j.Provider.Receivables(ctx)
	if err != nil {
		return err
	}

	var overdue []finance.PaymentAlert
	for _, alert := range receivables.Alerts {
		logger.Info("payment alert",
			slog.String("type", string(alert.Type)),
			slog.String("client", alert.ClientName),
			slog.String("invoice", alert.InvoiceNumber),
			slog.Float64("amount", alert.Amount),
		)
		if alert.Type == finance.AlertOverdue {
			overdue = append(overdue, alert)
		}
	}

	if len(overdue) == 0 || payload.Recipient == "" || j.Enqueuer == nil {
		return nil
	}

	body := "Overdue invoices:\n"
	for _, alert := range overdue {
		body += alert.InvoiceNumber + " " + alert.ClientName + " " +
			format.Currency(alert.Amount) + " due " + alert.DueDate.Format("2006-01-02") + "\n"
	}
	body += "\nTotal outstanding: " + format.Currency(receivables.Totals.TotalOutstanding) + "\n"

	_, err = j.Enqueuer.EnqueueSendEmail(ctx, SendEmailPayload{
		To:      payload.Recipient,
		Subject: "Overdue payment alerts",
		Body:    body,
	})
	return err
}

func (j *AlertScanJob) logger() *slog.Logger {
	if j != nil && j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
