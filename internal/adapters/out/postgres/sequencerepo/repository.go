// Package sequencerepo provides the GORM-backed order number sequencer.
package sequencerepo

import (
	"context"

	"gorm.io/gorm"
)

// orderNumberSequence is the row key of the order number counter.
const orderNumberSequence = "orderNumber"

// SequenceDTO represents the database structure for named counters.
type SequenceDTO struct {
	Name  string `gorm:"primaryKey"`
	Value int64
}

// TableName specifies the database table name for sequences.
func (SequenceDTO) TableName() string {
	return "sequences"
}

// GormOrderNumberSequencer implements OrderNumberSequencer on a single
// counter row. The increment happens entirely inside one statement, so
// concurrent callers serialize on the row lock and each gets a distinct
// number. Numbers reserved by requests that later fail are lost, leaving
// gaps; uniqueness and monotonicity are the guarantees, not density.
type GormOrderNumberSequencer struct {
	db *gorm.DB
}

// NewGormOrderNumberSequencer creates a new GORM order number sequencer.
func NewGormOrderNumberSequencer(db *gorm.DB) *GormOrderNumberSequencer {
	return &GormOrderNumberSequencer{db: db}
}

// Next atomically reserves and returns the next order number, starting at 1.
func (r *GormOrderNumberSequencer) Next(ctx context.Context) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO sequences (name, value)
		VALUES (?, 1)
		ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
		RETURNING value
	`, orderNumberSequence).Scan(&value).Error
	if err != nil {
		return 0, err
	}

	return value, nil
}
