package commands

import (
	"context"
	"time"

	"restaurant/internal/core/domain/services"
	"restaurant/internal/core/ports"
	"restaurant/internal/pkg/keyedlock"
)

// RecalculateCustomerTagsCommandHandler re-derives a customer's
// system-managed tags from their complete order history.
//
// Concurrent recalculations for the same customer are serialized with a
// per-phone lock, so two triggers firing close together cannot interleave
// their read-evaluate-write cycles and clobber each other's diff. Different
// customers recalculate in parallel.
type RecalculateCustomerTagsCommandHandler struct {
	uowFactory UoWFactory
	tagCatalog ports.TagCatalog
	engine     services.TagRuleEngine
	locks      *keyedlock.KeyedLock
}

// NewRecalculateCustomerTagsCommandHandler creates a tag recalculation handler.
func NewRecalculateCustomerTagsCommandHandler(
	uowFactory UoWFactory,
	tagCatalog ports.TagCatalog,
	engine services.TagRuleEngine,
) RecalculateCustomerTagsCommandHandler {
	return RecalculateCustomerTagsCommandHandler{
		uowFactory: uowFactory,
		tagCatalog: tagCatalog,
		engine:     engine,
		locks:      keyedlock.NewKeyedLock(),
	}
}

// Recalculate builds and handles a recalculation command for the phone.
// It makes the handler usable wherever a TagRecalculator is expected.
func (h *RecalculateCustomerTagsCommandHandler) Recalculate(ctx context.Context, customerPhone string) error {
	cmd, err := NewRecalculateCustomerTagsCommand(customerPhone)
	if err != nil {
		return err
	}
	return h.Handle(ctx, cmd)
}

// Handle processes the recalculation command. The evaluation computes the
// full target tag set and the customer is updated with a single diff write,
// so running the handler twice against the same history is a no-op the
// second time.
func (h *RecalculateCustomerTagsCommandHandler) Handle(ctx context.Context, cmd RecalculateCustomerTagsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	managed, err := h.tagCatalog.GetManagedTagNames(ctx)
	if err != nil {
		return err
	}

	h.locks.Lock(cmd.CustomerPhone())
	defer h.locks.Unlock(cmd.CustomerPhone())

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.CustomerRepository().GetByPhone(ctx, cmd.CustomerPhone())
	if err != nil {
		return err
	}

	history, err := uow.OrderRepository().GetAllByCustomerPhone(ctx, cmd.CustomerPhone())
	if err != nil {
		return err
	}

	diff, err := h.engine.Evaluate(aggregate, history, managed, time.Now().UTC())
	if err != nil {
		return err
	}

	if diff.IsEmpty() {
		return uow.Commit(ctx)
	}

	aggregate.ApplyTagDiff(diff.Add, diff.Remove)
	if err = uow.CustomerRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
