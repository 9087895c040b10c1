package order

import (
	"fmt"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Item is a value object representing one line of an order: a menu item, the
// quantity ordered, the unit price captured at order time, and the customer's
// per-line customizations.
//
// Item is immutable after construction. The unit price is snapshotted from the
// menu catalog when the order is created so later menu price changes do not
// affect existing orders.
type Item struct {
	menuItemID         kernel.UUID
	quantity           int
	unitPrice          decimal.Decimal
	removedIngredients []string
	note               string
}

// NewItem creates an order line with validation.
// The menu item ID must be valid, quantity must be positive, and the unit
// price must not be negative.
func NewItem(
	menuItemID kernel.UUID,
	quantity int,
	unitPrice decimal.Decimal,
	removedIngredients []string,
	note string,
) (Item, error) {
	if err := menuItemID.Validate(); err != nil {
		return Item{}, err
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if unitPrice.IsNegative() {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("unitPrice is invalid",
			fmt.Errorf("%s is negative", unitPrice))
	}

	removed := make([]string, len(removedIngredients))
	copy(removed, removedIngredients)

	return Item{
		menuItemID:         menuItemID,
		quantity:           quantity,
		unitPrice:          unitPrice,
		removedIngredients: removed,
		note:               note,
	}, nil
}

// MenuItemID returns the identifier of the referenced menu item.
func (i Item) MenuItemID() kernel.UUID {
	return i.menuItemID
}

// Quantity returns how many units of the menu item were ordered.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the price per unit captured at order time.
func (i Item) UnitPrice() decimal.Decimal {
	return i.unitPrice
}

// LineTotal returns unit price multiplied by quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}

// RemovedIngredients returns the ingredients the customer asked to leave out.
func (i Item) RemovedIngredients() []string {
	removed := make([]string, len(i.removedIngredients))
	copy(removed, i.removedIngredients)
	return removed
}

// Note returns the free-form preparation note for this line.
func (i Item) Note() string {
	return i.note
}
