// Package jobs provides scheduled background tasks for the checkout engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations of the order lifecycle.
//
// # Available Jobs
//
// 1. StaleCartCancellationJob - Runs every minute to cancel carts that sat
// untouched longer than the configured time to live
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(cancelStaleCartsHandler, staleCartTTL, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A cart that refuses cancellation (already completed or canceled between
// read and write) is skipped and logged by the command handler; the batch
// continues. Job-level failures are logged and retried on the next tick.
package jobs
