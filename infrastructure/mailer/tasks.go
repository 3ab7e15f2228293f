package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"sevabook/infrastructure/config"
)

const TypeBookingConfirmation = "email:booking_confirmation"

// Enqueuer queues confirmation email through asynq. A nil Enqueuer (no redis
// configured) is valid and drops everything silently.
type Enqueuer struct {
	client *asynq.Client
	queue  string
	logger *slog.Logger
}

// NewEnqueuer returns nil when no redis address is configured; callers treat
// that as "email disabled".
func NewEnqueuer(cfg config.MailConfig, logger *slog.Logger) *Enqueuer {
	if cfg.RedisAddr == "" {
		return nil
	}
	queue := cfg.Queue
	if queue == "" {
		queue = "mail"
	}
	return &Enqueuer{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr}),
		queue:  queue,
		logger: logger,
	}
}

func (e *Enqueuer) Close() error {
	if e == nil {
		return nil
	}
	return e.client.Close()
}

// EnqueueConfirmation queues a confirmation email. Failures are logged and
// swallowed so a redis outage cannot fail a booking.
func (e *Enqueuer) EnqueueConfirmation(ctx context.Context, c Confirmation) {
	if e == nil || c.Email == "" {
		return
	}
	payload, err := json.Marshal(c)
	if err != nil {
		e.logger.Error("marshal confirmation task", "err", err)
		return
	}
	task := asynq.NewTask(TypeBookingConfirmation, payload,
		asynq.Queue(e.queue),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	if _, err := e.client.EnqueueContext(ctx, task); err != nil {
		e.logger.Error("enqueue confirmation email", "err", err, "booking_id", c.BookingID)
	}
}

// NewServeMux wires the task handlers for the mail worker process.
func NewServeMux(sender *Sender, fromName string, logger *slog.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingConfirmation, func(ctx context.Context, t *asynq.Task) error {
		var c Confirmation
		if err := json.Unmarshal(t.Payload(), &c); err != nil {
			return fmt.Errorf("decode confirmation payload: %w", asynq.SkipRetry)
		}
		if err := sender.Send(ConfirmationMessage(fromName, c)); err != nil {
			return fmt.Errorf("send confirmation to %s: %w", c.Email, err)
		}
		logger.Info("confirmation email sent", "to", c.Email, "booking_id", c.BookingID)
		return nil
	})
	return mux
}
