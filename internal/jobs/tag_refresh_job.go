package jobs

import (
	"context"
	"log/slog"

	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// TagRefreshJob periodically re-derives every customer's system-managed tags.
// The time-dependent tags (CLIENTE_ACTIVO, EN_RIESGO) change meaning as days
// pass even when no order does, so recalculation cannot be purely
// event-driven. The hourly sweep also converges customers whose post-commit
// recalculation failed and was swallowed.
type TagRefreshJob struct {
	customers ports.CustomerRepository
	handler   commands.RecalculateCustomerTagsCommandHandler
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewTagRefreshJob creates a new job for refreshing customer tags hourly.
func NewTagRefreshJob(
	customers ports.CustomerRepository,
	handler commands.RecalculateCustomerTagsCommandHandler,
	logger *slog.Logger,
) *TagRefreshJob {
	return &TagRefreshJob{
		customers: customers,
		handler:   handler,
		cron:      cron.New(),
		logger:    logger.With("component", "tag_refresh_job"),
	}
}

// Start begins the tag refresh job to run every hour.
func (j *TagRefreshJob) Start() error {
	_, err := j.cron.AddFunc("@hourly", j.refreshAll)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Tag refresh job started (running hourly)")
	return nil
}

// Stop stops the tag refresh job.
func (j *TagRefreshJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Tag refresh job stopped")
}

// refreshAll recalculates tags for every customer. A failure on one customer
// is logged and does not stop the sweep.
func (j *TagRefreshJob) refreshAll() {
	ctx := context.Background()

	customers, err := j.customers.GetAll(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Tag refresh job failed to list customers", "error", err)
		return
	}

	failures := 0
	for _, c := range customers {
		if err := j.handler.Recalculate(ctx, c.Phone()); err != nil {
			failures++
			j.logger.ErrorContext(ctx, "Tag refresh failed for customer",
				"customerPhone", c.Phone(), "error", err)
		}
	}

	j.logger.InfoContext(ctx, "Tag refresh sweep finished",
		"customers", len(customers), "failures", failures)
}
