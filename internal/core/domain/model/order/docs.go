// Package order provides domain entities and business logic for the order
// lifecycle. It implements the Order aggregate root with an eleven-state
// status machine and an append-only audit trail.
//
// The package includes:
//   - Order: the aggregate root owning identity, items, pricing, worker
//     assignment, cancellation details and the audit trail
//   - Status: a state machine encoding the allowed-transition graph
//   - Item: an order line value object with the price snapshot
//   - StatusLog: one immutable entry of the audit trail
//
// Key business rules:
//   - Every order starts in WaitingPayment with its first log entry
//   - Status changes follow the asymmetric transition graph; self-transitions
//     are rejected and Refunded is terminal
//   - The last log entry always matches the current status
//   - The order number is assigned exactly once, at creation, and never reused
//   - Claiming (Pending to Cooking) records the worker and cooking start time;
//     reaching Ready records the actual prep time in whole minutes
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
