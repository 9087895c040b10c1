package jobs

import (
	"fmt"
	"log/slog"

	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	tagRefreshJob *TagRefreshJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	customers ports.CustomerRepository,
	recalcHandler commands.RecalculateCustomerTagsCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		tagRefreshJob: NewTagRefreshJob(customers, recalcHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.tagRefreshJob.Start(); err != nil {
		return fmt.Errorf("failed to start tag refresh job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.tagRefreshJob.Stop()
}
