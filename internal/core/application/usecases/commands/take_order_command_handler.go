package commands

import (
	"context"
	"errors"
	"time"

	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/ports"
)

// ErrOrderAlreadyTaken indicates another worker claimed the order first.
var ErrOrderAlreadyTaken = errors.New("order already taken by another worker")

// TakeOrderCommandHandler handles exclusive order claims by kitchen workers.
//
// Exclusivity rests on a guarded update: the write only succeeds if the
// stored status is still Pending at commit time. When two workers race, the
// loser's update matches zero rows and the claim fails with
// ErrOrderAlreadyTaken instead of silently overwriting the winner's.
type TakeOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewTakeOrderCommandHandler creates a handler for order claim operations.
func NewTakeOrderCommandHandler(uowFactory OrderUoWFactory) TakeOrderCommandHandler {
	return TakeOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the claim. The aggregate enforces that only Pending
// orders can be taken; the guarded update enforces that at most one
// concurrent claimer wins.
func (h *TakeOrderCommandHandler) Handle(ctx context.Context, cmd TakeOrderCommand) error {
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

	if err = aggregate.Take(cmd.WorkerID(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.UpdateGuarded(ctx, aggregate, order.Pending); err != nil {
		if errors.Is(err, ports.ErrStaleStatus) {
			return ErrOrderAlreadyTaken
		}
		return err
	}

	return uow.Commit(ctx)
}
