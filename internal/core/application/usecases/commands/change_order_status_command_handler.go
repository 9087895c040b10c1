package commands

import (
	"context"
	"log/slog"
	"time"
)

// TagRecalculator re-derives a customer's system-managed tags from their
// order history. Status changes trigger it after commit; implementations are
// expected to be idempotent.
type TagRecalculator interface {
	Recalculate(ctx context.Context, customerPhone string) error
}

// ChangeOrderStatusCommandHandler handles order status transitions.
// Loads the aggregate, lets it validate and apply the transition, persists
// the result, and then triggers tag recalculation for the customer.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	recalc     TagRecalculator
	logger     *slog.Logger
}

// NewChangeOrderStatusCommandHandler creates a handler for status changes.
func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory, recalc TagRecalculator, logger *slog.Logger,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		recalc:     recalc,
		logger:     logger,
	}
}

// Handle processes the status change command.
//
// Tag recalculation runs after the transaction commits. A recalculation
// failure is logged and swallowed: the status change already happened and
// must not be reported as failed, and the periodic refresh job will converge
// the tags later.
func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	observed := aggregate.Status()
	if err = aggregate.TransitionTo(cmd.Target(), cmd.Comment(), cmd.Actor(), time.Now().UTC()); err != nil {
		return err
	}

	// Guarding on the status observed at load time rejects writes that raced
	// with another transition instead of silently overwriting it.
	if err = orderRepo.UpdateGuarded(ctx, aggregate, observed); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if err = h.recalc.Recalculate(ctx, aggregate.CustomerPhone()); err != nil {
		h.logger.Error("tag recalculation failed after status change",
			"orderId", cmd.OrderID().String(),
			"customerPhone", aggregate.CustomerPhone(),
			"error", err)
	}

	return nil
}
