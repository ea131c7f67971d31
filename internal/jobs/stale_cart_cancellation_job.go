package jobs

import (
	"context"
	"log/slog"
	"time"

	"checkout/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// StaleCartCancellationJob periodically cancels carts nobody has touched for
// the configured time to live. Runs every minute; orders past the cutoff are
// canceled in one batch.
type StaleCartCancellationJob struct {
	handler commands.CancelStaleCartsCommandHandler
	ttl     time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewStaleCartCancellationJob creates the cleanup job. ttl is how long a
// cart may sit untouched before it is canceled.
func NewStaleCartCancellationJob(
	handler commands.CancelStaleCartsCommandHandler,
	ttl time.Duration,
	logger *slog.Logger,
) *StaleCartCancellationJob {
	return &StaleCartCancellationJob{
		handler: handler,
		ttl:     ttl,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "stale_cart_cancellation_job"),
	}
}

// Start begins the cleanup job to run every minute.
func (j *StaleCartCancellationJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewCancelStaleCartsCommand(time.Now().Add(-j.ttl))
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Stale cart cancellation job misconfigured", "error", cmdErr)
			return
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Stale cart cancellation job failed", "error", handleErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale cart cancellation job started (running every minute)",
		"ttl", j.ttl.String())
	return nil
}

// Stop stops the cleanup job.
func (j *StaleCartCancellationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale cart cancellation job stopped")
}
