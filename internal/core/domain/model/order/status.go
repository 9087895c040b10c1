package order

import (
	"fmt"

	"restaurant/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with an asymmetric transition graph that every
// status change must pass through before being persisted.
//
// State transitions:
//
//	WaitingPayment ──> Pending ──> Cooking ──> Ready ──┬──> InTransit ────┬──> Completed ──> Refunded
//	      │ ▲                                          │        ▲ │       │
//	      ▼ │                                          └──> WaitingPickup ┘
//	PaymentFailed                                               (pickup and transit may alternate)
//
// Issue is reachable from every non-terminal state and can route back into the
// operational flow (Pending through WaitingPickup) or to Cancelled. Cancelled
// and Completed only lead to Refunded; Refunded has no outgoing edges.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// WaitingPayment is the sole initial status of every order.
	WaitingPayment

	// PaymentFailed indicates the payment attempt was rejected.
	// The customer may retry (back to WaitingPayment) or pay out of band (to Pending).
	PaymentFailed

	// Pending indicates a paid order waiting for a kitchen worker to claim it.
	Pending

	// Cooking indicates a kitchen worker has claimed the order and is preparing it.
	Cooking

	// Ready indicates preparation finished and the order awaits handoff.
	Ready

	// InTransit indicates the order left the restaurant with a courier.
	InTransit

	// WaitingPickup indicates the order awaits pickup by the customer.
	WaitingPickup

	// Completed indicates the order was delivered or picked up.
	// Quasi-terminal: only Refunded is reachable from here.
	Completed

	// Issue indicates a problem that needs operator attention.
	// Operators can route the order back into the flow or cancel it.
	Issue

	// Cancelled indicates the order was cancelled.
	// Quasi-terminal: only Refunded is reachable from here.
	Cancelled

	// Refunded is the sole fully terminal status with no outgoing edges.
	Refunded
)

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		WaitingPayment: "WaitingPayment",
		PaymentFailed:  "PaymentFailed",
		Pending:        "Pending",
		Cooking:        "Cooking",
		Ready:          "Ready",
		InTransit:      "InTransit",
		WaitingPickup:  "WaitingPickup",
		Completed:      "Completed",
		Issue:          "Issue",
		Cancelled:      "Cancelled",
		Refunded:       "Refunded",
	}
}

// getStatusLabels returns the customer-facing display labels recorded in the
// audit trail alongside each transition.
func getStatusLabels() map[Status]string {
	return map[Status]string{
		Unknown:        "Desconocido",
		WaitingPayment: "Esperando pago",
		PaymentFailed:  "Pago fallido",
		Pending:        "Pendiente",
		Cooking:        "En preparación",
		Ready:          "Listo",
		InTransit:      "En camino",
		WaitingPickup:  "Esperando retiro",
		Completed:      "Completado",
		Issue:          "Incidencia",
		Cancelled:      "Cancelado",
		Refunded:       "Reembolsado",
	}
}

// getAllowedTransitions returns the directed edges of the transition graph.
// A missing key means the status has no outgoing edges.
func getAllowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		WaitingPayment: {Pending, PaymentFailed, Cancelled, Issue},
		PaymentFailed:  {WaitingPayment, Pending, Cancelled, Issue},
		Pending:        {Cooking, Cancelled, Issue},
		Cooking:        {Ready, Issue, Cancelled},
		Ready:          {InTransit, WaitingPickup, Issue, Cancelled},
		InTransit:      {Completed, WaitingPickup, Issue, Cancelled},
		WaitingPickup:  {Completed, InTransit, Issue, Cancelled},
		Completed:      {Refunded},
		Issue:          {Pending, Cooking, Ready, InTransit, WaitingPickup, Cancelled},
		Cancelled:      {Refunded},
	}
}

// Validate checks if the Status value is one of the eleven valid statuses.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// StatusFromString returns the Status whose string representation matches
// value. Unrecognized values map to Unknown, which fails Validate.
func StatusFromString(value string) Status {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == value {
			return status
		}
	}
	return Unknown
}

// String returns the machine-readable name of the status.
// Returns "Unknown" for invalid status values. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Label returns the customer-facing display label of the status.
// Labels are recorded in every audit log entry so the trail reads correctly
// even if display wording changes later.
func (s Status) Label() string {
	if label, ok := getStatusLabels()[s]; ok {
		return label
	}
	return getStatusLabels()[Unknown]
}

// CanTransitionTo reports whether the transition graph allows moving from the
// current status to target. This is a pure check with no side effects.
//
// Self-transitions are always rejected, and Refunded has no outgoing edges.
// Invalid statuses on either side yield false.
func (s Status) CanTransitionTo(target Status) bool {
	if s == target {
		return false
	}
	for _, allowed := range getAllowedTransitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing edges at all.
// Only Refunded is fully terminal; Completed and Cancelled still allow Refunded.
func (s Status) IsTerminal() bool {
	return len(getAllowedTransitions()[s]) == 0 && s.Validate() == nil
}

// IsActive reports whether the order still requires operational attention.
// Completed, Cancelled and Refunded orders are not active.
func (s Status) IsActive() bool {
	switch s {
	case Completed, Cancelled, Refunded:
		return false
	default:
		return s.Validate() == nil
	}
}
