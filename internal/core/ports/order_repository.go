// Package ports defines repository interfaces for the restaurant domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"
	"errors"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
)

// ErrStaleStatus is returned by UpdateGuarded when the stored status no
// longer matches the expected one.
var ErrStaleStatus = errors.New("order status changed concurrently")

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their status and assignment state.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// UpdateGuarded persists changes to an existing order aggregate only if
	// its stored status still equals expected. Returns ErrStaleStatus when
	// another writer moved the order out of expected first, which makes it
	// the building block for exclusive claims under concurrency.
	UpdateGuarded(ctx context.Context, aggregate *order.Order, expected order.Status) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with its items and status history.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllByCustomerPhone retrieves the complete order history for a
	// customer, identified by phone number. Used by tag recalculation.
	GetAllByCustomerPhone(ctx context.Context, phone string) ([]*order.Order, error)

	// GetAllActive retrieves all orders whose status still requires
	// operational attention (neither completed, cancelled nor refunded).
	GetAllActive(ctx context.Context) ([]*order.Order, error)
}
