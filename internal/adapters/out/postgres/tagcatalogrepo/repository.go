// Package tagcatalogrepo provides the GORM-backed tag catalog adapter.
// The catalog decides which tags the rule engine is allowed to touch:
// disabled or user-managed definitions are invisible to recalculation.
package tagcatalogrepo

import (
	"context"
	"time"

	"restaurant/internal/core/ports"

	"gorm.io/gorm"
)

// TagDefinitionDTO represents the database structure for tag definitions.
type TagDefinitionDTO struct {
	Name            string `gorm:"primaryKey"`
	IsSystemManaged bool
	IsEnabled       bool `gorm:"default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the database table name for tag definitions.
func (TagDefinitionDTO) TableName() string {
	return "tag_definitions"
}

// GormTagCatalog implements TagCatalog using GORM.
type GormTagCatalog struct {
	db *gorm.DB
}

// NewGormTagCatalog creates a new GORM tag catalog.
func NewGormTagCatalog(db *gorm.DB) *GormTagCatalog {
	return &GormTagCatalog{db: db}
}

// GetManagedTagNames returns the names of all enabled system-managed tags.
func (r *GormTagCatalog) GetManagedTagNames(ctx context.Context) ([]string, error) {
	names := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&TagDefinitionDTO{}).
		Where("is_system_managed AND is_enabled").
		Order("name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}

	return names, nil
}

// GetAll returns every tag definition, enabled or not.
func (r *GormTagCatalog) GetAll(ctx context.Context) ([]ports.TagDefinition, error) {
	var dtos []TagDefinitionDTO
	if err := r.db.WithContext(ctx).Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	definitions := make([]ports.TagDefinition, 0, len(dtos))
	for _, dto := range dtos {
		definitions = append(definitions, ports.TagDefinition{
			Name:            dto.Name,
			IsSystemManaged: dto.IsSystemManaged,
			IsEnabled:       dto.IsEnabled,
		})
	}

	return definitions, nil
}

// Upsert inserts or updates a tag definition. Used by seeding.
func (r *GormTagCatalog) Upsert(ctx context.Context, dto TagDefinitionDTO) error {
	return r.db.WithContext(ctx).Save(&dto).Error
}
