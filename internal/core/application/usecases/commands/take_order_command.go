package commands

import (
	"errors"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/guard"
)

var (
	ErrTakeOrderCommandIsNotConstructed = errors.New(
		"TakeOrderCommand must be created via NewTakeOrderCommand constructor",
	)
	ErrWorkerIDIsRequired = errors.New("worker ID is required")
)

// TakeOrderCommand represents a kitchen worker's claim on a pending order.
type TakeOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	workerID string

	guard guard.ConstructorGuard
}

// NewTakeOrderCommand creates a command for a worker to claim an order.
func NewTakeOrderCommand(orderID kernel.UUID, workerID string) (TakeOrderCommand, error) {
	takeCommand := TakeOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		takeCommand.setOrderID(orderID),
		takeCommand.setWorkerID(workerID),
	); err != nil {
		return TakeOrderCommand{}, err
	}

	return takeCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c TakeOrderCommand) Validate() error {
	return c.guard.Validate(ErrTakeOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier of the order to claim.
func (c TakeOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// WorkerID returns the identifier of the claiming kitchen worker.
func (c TakeOrderCommand) WorkerID() string {
	return c.workerID
}

func (c *TakeOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TakeOrderCommand) setWorkerID(workerID string) error {
	if workerID == "" {
		return ErrWorkerIDIsRequired
	}

	c.workerID = workerID
	return nil
}
