package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/smtp"
	"strconv"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSendEmail is the task type for sending transactional emails.
	TaskSendEmail = "mail:send"
	// TaskFinanceAlertScan is the task type for the nightly payment alert scan.
	TaskFinanceAlertScan = "finance:alert_scan"
	// TaskFinanceCacheWarmup is the task type for pre-building report caches.
	TaskFinanceCacheWarmup = "finance:cache_warmup"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSendEmail, data), nil
}

// Mailer delivers queued emails over SMTP. With no host configured it
// only logs the message, which is what development environments want.
type Mailer struct {
	Host   string
	Port   int
	From   string
	Logger *slog.Logger
}

// Handle processes TaskSendEmail tasks.
func (m *Mailer) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	logger := m.logger().With(slog.String("to", payload.To), slog.String("subject", payload.Subject))
	if m.Host == "" {
		logger.Info("mail delivery skipped, no smtp host configured")
		return nil
	}
	msg := []byte("From: " + m.From + "\r\n" +
		"To: " + payload.To + "\r\n" +
		"Subject: " + payload.Subject + "\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n\r\n" +
		payload.Body + "\r\n")
	addr := m.Host + ":" + strconv.Itoa(m.Port)
	if err := smtp.SendMail(addr, nil, m.From, []string{payload.To}, msg); err != nil {
		logger.Error("mail delivery failed", slog.Any("error", err))
		return err
	}
	logger.Info("mail delivered")
	return nil
}

func (m *Mailer) logger() *slog.Logger {
	if m != nil && m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}
