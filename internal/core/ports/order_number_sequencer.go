package ports

import "context"

// OrderNumberSequencer hands out sequential human-readable order numbers.
// Numbers start at 1, are strictly increasing and never reused, including
// for orders that later fail payment or get cancelled. Implementations must
// be safe for concurrent callers.
type OrderNumberSequencer interface {
	// Next atomically reserves and returns the next order number.
	Next(ctx context.Context) (int64, error)
}
