// Package guard provides the ConstructorGuard pattern used by value objects
// and commands to reject zero-value instances that bypassed their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is
// provided for a guard that was not properly constructed.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard detects whether its enclosing struct was created through a
// designated constructor function. A zero-value guard fails validation, which
// lets domain objects enforce their invariants without exporting fields.
//
// Example:
//
//	type TakeOrderCommand struct {
//	    orderID  kernel.UUID
//	    workerID string
//	    guard    guard.ConstructorGuard
//	}
//
//	func NewTakeOrderCommand(...) (TakeOrderCommand, error) {
//	    ...
//	    return TakeOrderCommand{..., guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c TakeOrderCommand) Validate() error {
//	    return c.guard.Validate(ErrTakeOrderCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the enclosing object as properly
// constructed. Call it in every constructor.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a properly constructed guard. For a zero-value
// guard it returns validationError, or ErrDefaultConstructorGuard when
// validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
