package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"checkout/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	staleCartCancellationJob *StaleCartCancellationJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	cancelStaleCartsHandler commands.CancelStaleCartsCommandHandler,
	staleCartTTL time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		staleCartCancellationJob: NewStaleCartCancellationJob(cancelStaleCartsHandler, staleCartTTL, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.staleCartCancellationJob.Start(); err != nil {
		return fmt.Errorf("failed to start stale cart cancellation job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.staleCartCancellationJob.Stop()
}
