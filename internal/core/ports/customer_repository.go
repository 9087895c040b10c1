package ports

import (
	"context"
	"errors"

	"restaurant/internal/core/domain/model/customer"
	"restaurant/internal/core/domain/model/kernel"
)

// ErrCustomerAlreadyExists is returned by Add when a customer with the same
// phone is already stored, typically because a concurrent request inserted
// it between the caller's lookup and the insert.
var ErrCustomerAlreadyExists = errors.New("customer with this phone already exists")

// CustomerRepository defines the persistence contract for customer aggregates.
type CustomerRepository interface {
	// Add persists a new customer aggregate to storage.
	// Returns ErrCustomerAlreadyExists when the phone is already taken.
	Add(ctx context.Context, aggregate *customer.Customer) error

	// Update persists changes to an existing customer aggregate.
	Update(ctx context.Context, aggregate *customer.Customer) error

	// Get retrieves a customer aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*customer.Customer, error)

	// GetByPhone retrieves a customer aggregate by phone number.
	// Returns errs.ObjectNotFoundError when no customer has that phone.
	GetByPhone(ctx context.Context, phone string) (*customer.Customer, error)

	// GetAll retrieves every customer. Used by the periodic tag refresh job
	// to re-derive time-dependent tags.
	GetAll(ctx context.Context) ([]*customer.Customer, error)
}
