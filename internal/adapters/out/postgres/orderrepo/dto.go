// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Items and the status history travel with the order as jsonb documents: they
// are only ever read and written through the aggregate, never queried on
// their own, so separate tables would buy nothing but joins.
type OrderDTO struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderNumber          int64           `gorm:"uniqueIndex"`
	CustomerPhone        string          `gorm:"index"`
	CustomerID           *uuid.UUID      `gorm:"type:uuid;index"`
	Items                []ItemDTO       `gorm:"type:jsonb;serializer:json"`
	Status               int             `gorm:"index"`
	TotalPrice           decimal.Decimal `gorm:"type:numeric(12,2)"`
	EstimatedPrepMinutes int
	ActualPrepMinutes    *int
	AssignedWorkerID     *string
	CookingStartedAt     *time.Time
	CancelledAt          *time.Time
	CancellationReason   string
	CancelledBy          string
	Logs                 []StatusLogDTO `gorm:"type:jsonb;serializer:json"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is the jsonb representation of one order line.
type ItemDTO struct {
	MenuItemID         uuid.UUID       `json:"menuItemId"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	RemovedIngredients []string        `json:"removedIngredients,omitempty"`
	Note               string          `json:"note,omitempty"`
}

// StatusLogDTO is the jsonb representation of one status history entry.
type StatusLogDTO struct {
	Status      int       `json:"status"`
	StatusLabel string    `json:"statusLabel"`
	Timestamp   time.Time `json:"timestamp"`
	Comment     string    `json:"comment,omitempty"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var customerID *uuid.UUID
	if id := aggregate.CustomerID(); id != nil {
		raw := id.Bytes()
		customerID = &raw
	}

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			MenuItemID:         item.MenuItemID().Bytes(),
			Quantity:           item.Quantity(),
			UnitPrice:          item.UnitPrice(),
			RemovedIngredients: item.RemovedIngredients(),
			Note:               item.Note(),
		})
	}

	logs := make([]StatusLogDTO, 0, len(aggregate.Logs()))
	for _, entry := range aggregate.Logs() {
		logs = append(logs, StatusLogDTO{
			Status:      int(entry.Status),
			StatusLabel: entry.StatusLabel,
			Timestamp:   entry.Timestamp,
			Comment:     entry.Comment,
		})
	}

	return OrderDTO{
		ID:                   aggregate.ID().Bytes(),
		OrderNumber:          aggregate.OrderNumber(),
		CustomerPhone:        aggregate.CustomerPhone(),
		CustomerID:           customerID,
		Items:                items,
		Status:               int(aggregate.Status()),
		TotalPrice:           aggregate.TotalPrice(),
		EstimatedPrepMinutes: aggregate.EstimatedPrepMinutes(),
		ActualPrepMinutes:    aggregate.ActualPrepMinutes(),
		AssignedWorkerID:     aggregate.AssignedWorkerID(),
		CookingStartedAt:     aggregate.CookingStartedAt(),
		CancelledAt:          aggregate.CancelledAt(),
		CancellationReason:   aggregate.CancellationReason(),
		CancelledBy:          aggregate.CancelledBy(),
		Logs:                 logs,
		CreatedAt:            aggregate.CreatedAt(),
		UpdatedAt:            aggregate.UpdatedAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including its history using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var customerID *kernel.UUID
	if dto.CustomerID != nil {
		cID, customerErr := kernel.UUIDFromBytes((*dto.CustomerID)[:])
		if customerErr != nil {
			return nil, customerErr
		}

		customerID = &cID
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		menuItemID, itemErr := kernel.UUIDFromBytes(itemDTO.MenuItemID[:])
		if itemErr != nil {
			return nil, itemErr
		}

		item, itemErr := order.NewItem(
			menuItemID, itemDTO.Quantity, itemDTO.UnitPrice, itemDTO.RemovedIngredients, itemDTO.Note,
		)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	logs := make([]order.StatusLog, 0, len(dto.Logs))
	for _, logDTO := range dto.Logs {
		logs = append(logs, order.StatusLog{
			Status:      order.Status(logDTO.Status),
			StatusLabel: logDTO.StatusLabel,
			Timestamp:   logDTO.Timestamp,
			Comment:     logDTO.Comment,
		})
	}

	return order.RestoreOrder(
		id,
		dto.OrderNumber,
		dto.CustomerPhone,
		customerID,
		items,
		order.Status(dto.Status),
		dto.TotalPrice,
		dto.EstimatedPrepMinutes,
		dto.ActualPrepMinutes,
		dto.AssignedWorkerID,
		dto.CookingStartedAt,
		dto.CancelledAt,
		dto.CancellationReason,
		dto.CancelledBy,
		logs,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
