// Package menurepo provides the GORM-backed menu catalog adapter.
// Order creation reads prices and preparation times from here so the totals
// are always computed server-side.
package menurepo

import (
	"context"
	"errors"
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MenuItemDTO represents the database structure for menu items.
type MenuItemDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"uniqueIndex"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2)"`
	PrepMinutes *int
	IsAvailable bool `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the database table name for menu items.
func (MenuItemDTO) TableName() string {
	return "menu_items"
}

// GormMenuCatalog implements MenuCatalog using GORM.
type GormMenuCatalog struct {
	db *gorm.DB
}

// NewGormMenuCatalog creates a new GORM menu catalog.
func NewGormMenuCatalog(db *gorm.DB) *GormMenuCatalog {
	return &GormMenuCatalog{db: db}
}

// GetPrice returns the current unit price of an available menu item.
// Unavailable items price like missing ones: the caller cannot order them.
func (r *GormMenuCatalog) GetPrice(ctx context.Context, menuItemID kernel.UUID) (decimal.Decimal, error) {
	dto, err := r.get(ctx, menuItemID)
	if err != nil {
		return decimal.Zero, err
	}

	return dto.Price, nil
}

// GetPrepMinutes returns the configured preparation time of a menu item,
// or nil when the item has no estimate.
func (r *GormMenuCatalog) GetPrepMinutes(ctx context.Context, menuItemID kernel.UUID) (*int, error) {
	dto, err := r.get(ctx, menuItemID)
	if err != nil {
		return nil, err
	}

	return dto.PrepMinutes, nil
}

// Add inserts a menu item. Used by seeding and tests.
func (r *GormMenuCatalog) Add(ctx context.Context, dto MenuItemDTO) error {
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormMenuCatalog) get(ctx context.Context, menuItemID kernel.UUID) (MenuItemDTO, error) {
	if err := menuItemID.Validate(); err != nil {
		return MenuItemDTO{}, err
	}

	var dto MenuItemDTO
	err := r.db.WithContext(ctx).
		First(&dto, "id = ? AND is_available", menuItemID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MenuItemDTO{}, errs.NewObjectNotFoundError("menuItem", menuItemID.String())
		}
		return MenuItemDTO{}, err
	}

	return dto, nil
}
