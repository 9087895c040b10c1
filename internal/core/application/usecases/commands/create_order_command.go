package commands

import (
	"errors"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrCustomerPhoneIsRequired = errors.New("customer phone is required")
	ErrOrderItemsAreRequired   = errors.New("order must contain at least one item")
	ErrItemQuantityIsInvalid   = errors.New("item quantity must be greater than 0")
)

// ItemInput describes one requested line of a new order. The unit price is
// deliberately absent: prices are resolved from the menu catalog inside the
// handler so clients cannot influence the total.
type ItemInput struct {
	MenuItemID         kernel.UUID
	Quantity           int
	RemovedIngredients []string
	Note               string
}

// CreateOrderCommand represents a request to create a new restaurant order.
// Encapsulates the customer's phone and the requested items.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, "+56912345678", items)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, menu, sequencer)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	customerPhone string
	items         []ItemInput

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates that the order ID is valid, the phone is not empty, and every
// requested item has a valid menu item ID and a positive quantity.
func NewCreateOrderCommand(orderID kernel.UUID, customerPhone string, items []ItemInput) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setCustomerPhone(customerPhone),
		orderCommand.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerPhone returns the phone number identifying the customer.
func (c CreateOrderCommand) CustomerPhone() string {
	return c.customerPhone
}

// Items returns the requested order lines.
func (c CreateOrderCommand) Items() []ItemInput {
	return c.items
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerPhone(customerPhone string) error {
	if customerPhone == "" {
		return ErrCustomerPhoneIsRequired
	}

	c.customerPhone = customerPhone
	return nil
}

func (c *CreateOrderCommand) setItems(items []ItemInput) error {
	if len(items) == 0 {
		return ErrOrderItemsAreRequired
	}

	for _, item := range items {
		if err := item.MenuItemID.Validate(); err != nil {
			return err
		}
		if item.Quantity <= 0 {
			return ErrItemQuantityIsInvalid
		}
	}

	c.items = items
	return nil
}
