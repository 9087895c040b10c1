// Package services provides domain services that implement business logic
// spanning multiple aggregates.
//
// The package includes:
//   - TagRuleEngine: derives a customer's system-managed behavioral tags from
//     their complete order history
//
// Domain services stay free of persistence concerns: the tag rule engine is a
// pure computation over already-loaded aggregates, and the application layer
// is responsible for loading the history and writing the resulting diff.
package services
