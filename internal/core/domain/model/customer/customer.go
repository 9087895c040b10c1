package customer

import (
	"errors"
	"sort"
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"
)

// ErrCustomerIsNotConstructed is returned when a Customer instance was not
// created through the NewCustomer or RestoreCustomer factory methods.
var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer or RestoreCustomer")

// System-managed tag names. Membership of each tag in a customer's tag set is
// a derived value recomputed by the tag rule engine from the customer's order
// history; operators never edit these by hand.
const (
	// TagPagoFallido marks customers with at least one order in PaymentFailed.
	TagPagoFallido = "PAGO_FALLIDO"

	// TagCancelacionesFrecuentes marks customers with at least three cancelled
	// orders making up at least 30% of their order history.
	TagCancelacionesFrecuentes = "CANCELACIONES_FRECUENTES"

	// TagProblemasEntrega marks customers with at least one order in Issue.
	TagProblemasEntrega = "PROBLEMAS_ENTREGA"

	// TagReembolsos marks customers that ever received a refund. Sticky: once
	// added it is never automatically removed.
	TagReembolsos = "REEMBOLSOS"

	// TagPrimerPedido marks customers with exactly one completed order.
	TagPrimerPedido = "PRIMER_PEDIDO"

	// TagClienteActivo marks customers whose latest completed order is at most
	// 30 days old.
	TagClienteActivo = "CLIENTE_ACTIVO"

	// TagEnRiesgo marks customers whose latest completed order is at least 60
	// days old.
	TagEnRiesgo = "EN_RIESGO"

	// TagNuevo is assigned once at customer creation and removed the first
	// time an order is created on a calendar day different from the
	// registration day.
	TagNuevo = "NUEVO"
)

// Customer represents a customer of the restaurant, referenced by orders
// through the phone number. The aggregate owns the customer's tag set, which
// mixes system-managed tags (written exclusively by the tag rule engine) and
// user-managed tags (written by operators).
//
// The tag set behaves as a set: no duplicates, and the exposed order is
// sorted so comparisons and persistence are deterministic.
type Customer struct {
	id        kernel.UUID
	phone     string
	tags      map[string]struct{}
	createdAt time.Time

	isConstructed bool
}

// NewCustomer creates a customer for the given phone number.
// New customers start with the NUEVO tag, per the registration rule.
func NewCustomer(id kernel.UUID, phone string, now time.Time) (*Customer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if phone == "" {
		return nil, errs.NewValueIsRequiredError("phone")
	}

	return &Customer{
		id:            id,
		phone:         phone,
		tags:          map[string]struct{}{TagNuevo: {}},
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreCustomer reconstructs a customer from persisted state.
// Intended for repository implementations only.
func RestoreCustomer(id kernel.UUID, phone string, tags []string, createdAt time.Time) (*Customer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if phone == "" {
		return nil, errs.NewValueIsRequiredError("phone")
	}

	tagSet := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tagSet[tag] = struct{}{}
	}

	return &Customer{
		id:            id,
		phone:         phone,
		tags:          tagSet,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Customer instance was properly constructed through one
// of the factory methods.
func (c *Customer) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCustomerIsNotConstructed
	}
	return nil
}

// ID returns the customer's unique identifier.
func (c *Customer) ID() kernel.UUID {
	return c.id
}

// Phone returns the customer's phone number, the natural key.
func (c *Customer) Phone() string {
	return c.phone
}

// CreatedAt returns the registration timestamp.
func (c *Customer) CreatedAt() time.Time {
	return c.createdAt
}

// Tags returns the customer's tags sorted alphabetically.
func (c *Customer) Tags() []string {
	tags := make([]string, 0, len(c.tags))
	for tag := range c.tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// HasTag reports whether the customer currently carries the given tag.
func (c *Customer) HasTag(name string) bool {
	_, ok := c.tags[name]
	return ok
}

// ApplyTagDiff adds and removes tags in one step. Adding an existing tag or
// removing an absent one is a no-op, which keeps the operation idempotent.
func (c *Customer) ApplyTagDiff(add, remove []string) {
	for _, tag := range add {
		if tag != "" {
			c.tags[tag] = struct{}{}
		}
	}
	for _, tag := range remove {
		delete(c.tags, tag)
	}
}
