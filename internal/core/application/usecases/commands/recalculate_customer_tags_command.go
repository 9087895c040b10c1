package commands

import (
	"errors"

	"restaurant/internal/pkg/guard"
)

var ErrRecalculateCustomerTagsCommandIsNotConstructed = errors.New(
	"RecalculateCustomerTagsCommand must be created via NewRecalculateCustomerTagsCommand constructor",
)

// RecalculateCustomerTagsCommand represents a request to re-derive a
// customer's system-managed tags from their full order history.
type RecalculateCustomerTagsCommand struct { //nolint:recvcheck //using for validation
	customerPhone string

	guard guard.ConstructorGuard
}

// NewRecalculateCustomerTagsCommand creates a tag recalculation command.
func NewRecalculateCustomerTagsCommand(customerPhone string) (RecalculateCustomerTagsCommand, error) {
	recalcCommand := RecalculateCustomerTagsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := recalcCommand.setCustomerPhone(customerPhone); err != nil {
		return RecalculateCustomerTagsCommand{}, err
	}

	return recalcCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c RecalculateCustomerTagsCommand) Validate() error {
	return c.guard.Validate(ErrRecalculateCustomerTagsCommandIsNotConstructed)
}

// CustomerPhone returns the phone number identifying the customer.
func (c RecalculateCustomerTagsCommand) CustomerPhone() string {
	return c.customerPhone
}

func (c *RecalculateCustomerTagsCommand) setCustomerPhone(customerPhone string) error {
	if customerPhone == "" {
		return ErrCustomerPhoneIsRequired
	}

	c.customerPhone = customerPhone
	return nil
}
