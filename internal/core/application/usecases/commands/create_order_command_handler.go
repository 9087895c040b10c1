package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"restaurant/internal/core/domain/model/customer"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/ports"
	"restaurant/internal/pkg/errs"
)

// ErrMenuItemCannotBePriced indicates the menu catalog could not resolve a
// price for a requested item.
var ErrMenuItemCannotBePriced = errors.New("menu item cannot be priced")

// PricingError reports which menu item failed price resolution.
type PricingError struct {
	MenuItemID kernel.UUID
	Cause      error
}

func (e *PricingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrMenuItemCannotBePriced, e.MenuItemID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrMenuItemCannotBePriced, e.MenuItemID)
}

func (e *PricingError) Unwrap() error {
	return ErrMenuItemCannotBePriced
}

// NewPricingError creates a PricingError for the given menu item.
func NewPricingError(menuItemID kernel.UUID, cause error) *PricingError {
	return &PricingError{MenuItemID: menuItemID, Cause: cause}
}

// CreateOrderCommandHandler handles the business logic for order creation.
// Resolves unit prices from the menu catalog, reserves a sequential order
// number, links or creates the customer by phone, and persists the order in
// its initial waiting-payment status.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	menu       ports.MenuCatalog
	sequencer  ports.OrderNumberSequencer
	recalc     TagRecalculator
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	menu ports.MenuCatalog,
	sequencer ports.OrderNumberSequencer,
	recalc TagRecalculator,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		menu:       menu,
		sequencer:  sequencer,
		recalc:     recalc,
		logger:     logger,
	}
}

// Handle processes the order creation command.
//
// The order number is reserved before the transaction opens, so numbers
// consumed by orders that fail to persist leave gaps. Numbers stay strictly
// increasing and are never reused, which is the property callers rely on.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	items, prepMinutes, err := h.buildItems(ctx, cmd.Items())
	if err != nil {
		return err
	}

	orderNumber, err := h.sequencer.Next(ctx)
	if err != nil {
		return err
	}

	err = h.persist(ctx, cmd, items, prepMinutes, orderNumber)
	if errors.Is(err, ports.ErrCustomerAlreadyExists) {
		// Lost the insert race for a first-contact customer. The retry
		// runs in a fresh transaction and links to the winner's row.
		err = h.persist(ctx, cmd, items, prepMinutes, orderNumber)
	}
	if err != nil {
		return err
	}

	if err = h.recalc.Recalculate(ctx, cmd.CustomerPhone()); err != nil {
		h.logger.Error("tag recalculation failed after order creation",
			"orderId", cmd.OrderID().String(),
			"customerPhone", cmd.CustomerPhone(),
			"error", err)
	}

	return nil
}

// persist writes the order and its customer link in one transaction.
func (h *CreateOrderCommandHandler) persist(
	ctx context.Context, cmd CreateOrderCommand, items []order.Item, prepMinutes int, orderNumber int64,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	customerID, err := h.linkCustomer(ctx, uow.CustomerRepository(), cmd.CustomerPhone())
	if err != nil {
		return err
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(), orderNumber, cmd.CustomerPhone(), customerID, items, prepMinutes, time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// buildItems prices every requested line and derives the estimated
// preparation time as the maximum over the items' configured times. Items
// without a configured time are ignored; when none has one the estimate is 0.
func (h *CreateOrderCommandHandler) buildItems(
	ctx context.Context, inputs []ItemInput,
) ([]order.Item, int, error) {
	items := make([]order.Item, 0, len(inputs))
	prepMinutes := 0

	for _, input := range inputs {
		price, err := h.menu.GetPrice(ctx, input.MenuItemID)
		if err != nil {
			return nil, 0, NewPricingError(input.MenuItemID, err)
		}

		item, err := order.NewItem(input.MenuItemID, input.Quantity, price, input.RemovedIngredients, input.Note)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)

		minutes, err := h.menu.GetPrepMinutes(ctx, input.MenuItemID)
		if err != nil {
			return nil, 0, err
		}
		if minutes != nil && *minutes > prepMinutes {
			prepMinutes = *minutes
		}
	}

	return items, prepMinutes, nil
}

// linkCustomer resolves the customer aggregate for the phone, creating it on
// first contact. New customers start tagged as NUEVO.
func (h *CreateOrderCommandHandler) linkCustomer(
	ctx context.Context, repo ports.CustomerRepository, phone string,
) (*kernel.UUID, error) {
	existing, err := repo.GetByPhone(ctx, phone)
	if err == nil {
		id := existing.ID()
		return &id, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	created, err := customer.NewCustomer(kernel.NewUUID(), phone, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err = repo.Add(ctx, created); err != nil {
		return nil, err
	}

	id := created.ID()
	return &id, nil
}
