package order

import (
	"errors"
	"fmt"
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrInvalidTransition is the wrap target for InvalidTransitionError.
	// Callers classify rejected transitions with errors.Is against this value.
	ErrInvalidTransition = errors.New("status transition is not allowed")
)

// InvalidTransitionError is returned when a requested status change is not an
// edge of the transition graph. It carries both statuses so callers can
// explain to the user why the change was rejected.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// NewInvalidTransitionError creates an InvalidTransitionError for the rejected edge.
func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Order represents a customer order in the restaurant. It is the aggregate
// root that owns the order's status state machine and its append-only audit
// trail.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and a positive order number
//   - Must reference the customer by phone and contain at least one item
//   - Status changes follow the transition graph encoded in Status
//   - The last audit log entry always matches the current status
//   - The log has at least one entry once created and entries are never
//     edited or removed
//   - The order number is assigned exactly once, at creation
//
// The struct uses private fields to ensure encapsulation and maintains its
// invariants through validated methods. Orders can only be created through
// NewOrder (fresh) or RestoreOrder (from persistence).
type Order struct {
	id            kernel.UUID
	orderNumber   int64
	customerPhone string
	customerID    *kernel.UUID

	items []Item

	status               Status
	totalPrice           decimal.Decimal
	estimatedPrepMinutes int
	actualPrepMinutes    *int

	assignedWorkerID *string
	cookingStartedAt *time.Time

	cancelledAt        *time.Time
	cancellationReason string
	cancelledBy        string

	logs []StatusLog

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder creates a new Order in WaitingPayment status with its first audit
// log entry. The order number must come from the sequencer and is immutable
// afterwards. The total price is computed from the items' line totals.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - orderNumber: globally unique, strictly increasing number (must be positive)
//   - customerPhone: the customer's phone, the natural key (required)
//   - customerID: optional weak reference to the customer record
//   - items: the order lines (at least one)
//   - estimatedPrepMinutes: prep estimate computed by the caller from the menu
//     catalog (must not be negative)
//   - now: creation timestamp
func NewOrder(
	id kernel.UUID,
	orderNumber int64,
	customerPhone string,
	customerID *kernel.UUID,
	items []Item,
	estimatedPrepMinutes int,
	now time.Time,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if orderNumber <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("orderNumber is invalid",
			fmt.Errorf("%d is not greater than 0", orderNumber))
	}
	if customerPhone == "" {
		return nil, errs.NewValueIsRequiredError("customerPhone")
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}
	if customerID != nil {
		if err := customerID.Validate(); err != nil {
			return nil, err
		}
	}
	if estimatedPrepMinutes < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("estimatedPrepMinutes is invalid",
			fmt.Errorf("%d is negative", estimatedPrepMinutes))
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}

	order := &Order{
		id:                   id,
		orderNumber:          orderNumber,
		customerPhone:        customerPhone,
		customerID:           customerID,
		items:                items,
		status:               WaitingPayment,
		totalPrice:           total,
		estimatedPrepMinutes: estimatedPrepMinutes,
		logs:                 []StatusLog{newStatusLog(WaitingPayment, "", now)},
		createdAt:            now,
		updatedAt:            now,
		isConstructed:        true,
	}

	return order, nil
}

// RestoreOrder reconstructs an Order from persisted state without running the
// creation rules. It is intended for repository implementations only; the
// restored order is still validated for structural consistency (valid ID,
// valid status, non-empty log whose last entry matches the status).
func RestoreOrder(
	id kernel.UUID,
	orderNumber int64,
	customerPhone string,
	customerID *kernel.UUID,
	items []Item,
	status Status,
	totalPrice decimal.Decimal,
	estimatedPrepMinutes int,
	actualPrepMinutes *int,
	assignedWorkerID *string,
	cookingStartedAt *time.Time,
	cancelledAt *time.Time,
	cancellationReason string,
	cancelledBy string,
	logs []StatusLog,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, errs.NewValueIsRequiredError("logs")
	}
	if logs[len(logs)-1].Status != status {
		return nil, errs.NewValueIsInvalidErrorWithCause("logs are invalid",
			fmt.Errorf("last log status %s does not match order status %s",
				logs[len(logs)-1].Status, status))
	}

	return &Order{
		id:                   id,
		orderNumber:          orderNumber,
		customerPhone:        customerPhone,
		customerID:           customerID,
		items:                items,
		status:               status,
		totalPrice:           totalPrice,
		estimatedPrepMinutes: estimatedPrepMinutes,
		actualPrepMinutes:    actualPrepMinutes,
		assignedWorkerID:     assignedWorkerID,
		cookingStartedAt:     cookingStartedAt,
		cancelledAt:          cancelledAt,
		cancellationReason:   cancellationReason,
		cancelledBy:          cancelledBy,
		logs:                 logs,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
		isConstructed:        true,
	}, nil
}

// Validate ensures the Order instance was properly constructed through one of
// the factory methods. This prevents bypassing validation by directly
// instantiating the struct.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the globally unique order number.
func (o *Order) OrderNumber() int64 {
	return o.orderNumber
}

// CustomerPhone returns the customer's phone number, the natural key that
// links the order to its customer.
func (o *Order) CustomerPhone() string {
	return o.customerPhone
}

// CustomerID returns the weak reference to the customer record.
// Returns nil if the customer record was not resolved at creation time.
func (o *Order) CustomerID() *kernel.UUID {
	return o.customerID
}

// Items returns the order lines.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// TotalPrice returns the order total computed at creation.
func (o *Order) TotalPrice() decimal.Decimal {
	return o.totalPrice
}

// EstimatedPrepMinutes returns the prep time estimate computed at creation.
func (o *Order) EstimatedPrepMinutes() int {
	return o.estimatedPrepMinutes
}

// ActualPrepMinutes returns the measured prep time.
// It is only set when the order reached Ready with a known cooking start.
func (o *Order) ActualPrepMinutes() *int {
	return o.actualPrepMinutes
}

// AssignedWorkerID returns the kitchen worker that claimed the order.
// Returns nil while the order is unclaimed.
func (o *Order) AssignedWorkerID() *string {
	return o.assignedWorkerID
}

// CookingStartedAt returns when the claiming worker started cooking.
func (o *Order) CookingStartedAt() *time.Time {
	return o.cookingStartedAt
}

// CancelledAt returns when the order was cancelled, if it was.
func (o *Order) CancelledAt() *time.Time {
	return o.cancelledAt
}

// CancellationReason returns the reason recorded with the cancellation.
func (o *Order) CancellationReason() string {
	return o.cancellationReason
}

// CancelledBy returns the actor that cancelled the order.
func (o *Order) CancelledBy() string {
	return o.cancelledBy
}

// Logs returns the append-only audit trail.
// The last entry always matches the current status.
func (o *Order) Logs() []StatusLog {
	logs := make([]StatusLog, len(o.logs))
	copy(logs, o.logs)
	return logs
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the timestamp of the last mutation.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// CompletedAt returns the time the order most recently entered Completed,
// taken from the audit trail. Returns nil if the order never completed.
// The tag rules use this to measure customer activity.
func (o *Order) CompletedAt() *time.Time {
	for i := len(o.logs) - 1; i >= 0; i-- {
		if o.logs[i].Status == Completed {
			ts := o.logs[i].Timestamp
			return &ts
		}
	}
	return nil
}

// TransitionTo moves the order to target if the transition graph allows it.
//
// On success it updates the status, appends an audit log entry carrying
// comment, and maintains the derived fields:
//   - target == Cancelled: records cancelledAt, cancellationReason (the
//     comment) and cancelledBy (the actor)
//   - target == Ready with a known cooking start: records the actual prep
//     time, floored to whole minutes
//
// Returns InvalidTransitionError if the edge is not allowed; the order is left
// unchanged in that case.
func (o *Order) TransitionTo(target Status, comment string, actor string, now time.Time) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if !o.status.CanTransitionTo(target) {
		return NewInvalidTransitionError(o.status, target)
	}

	o.status = target
	o.logs = append(o.logs, newStatusLog(target, comment, now))
	o.updatedAt = now

	switch target {
	case Cancelled:
		cancelledAt := now
		o.cancelledAt = &cancelledAt
		o.cancellationReason = comment
		o.cancelledBy = actor
	case Ready:
		if o.cookingStartedAt != nil {
			minutes := int(now.Sub(*o.cookingStartedAt).Minutes())
			o.actualPrepMinutes = &minutes
		}
	}

	return nil
}

// Take claims a Pending order for a kitchen worker and moves it to Cooking.
// It records the worker and the cooking start time used later to measure the
// actual prep time.
//
// Take only changes the in-memory aggregate. Exclusivity against competing
// workers is enforced by the repository's status-guarded update at write time.
func (o *Order) Take(workerID string, now time.Time) error {
	if workerID == "" {
		return errs.NewValueIsRequiredError("workerID")
	}
	if o.status != Pending {
		return NewInvalidTransitionError(o.status, Cooking)
	}

	worker := workerID
	startedAt := now
	o.assignedWorkerID = &worker
	o.cookingStartedAt = &startedAt

	return o.TransitionTo(Cooking, "", workerID, now)
}
