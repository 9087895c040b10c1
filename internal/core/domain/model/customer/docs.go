// Package customer provides the Customer entity and the vocabulary of
// system-managed behavioral tags. The tag set on a customer is the output
// surface of the tag rule engine; this package only guarantees set semantics
// and deterministic ordering, while the rules that decide membership live in
// the domain services package.
package customer
