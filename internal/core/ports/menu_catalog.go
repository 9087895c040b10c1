package ports

import (
	"context"

	"restaurant/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// MenuCatalog exposes the menu data order creation needs: item prices and
// preparation times. Prices are resolved server-side at creation time so
// clients cannot influence the total.
type MenuCatalog interface {
	// GetPrice returns the current unit price of a menu item.
	// Returns errs.ObjectNotFoundError when the item does not exist.
	GetPrice(ctx context.Context, menuItemID kernel.UUID) (decimal.Decimal, error)

	// GetPrepMinutes returns the estimated preparation time of a menu item
	// in minutes, or nil when the item has no estimate configured.
	GetPrepMinutes(ctx context.Context, menuItemID kernel.UUID) (*int, error)
}
