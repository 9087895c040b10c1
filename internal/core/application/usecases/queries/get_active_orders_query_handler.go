package queries

import (
	"context"
	"database/sql"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler retrieves in-flight orders from the database.
// Reads projection columns directly instead of rehydrating full aggregates.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for active order queries.
// Requires a GORM database connection for query execution.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle executes the query. Orders in Completed, Cancelled or Refunded
// status are excluded; results come back in order-number order, which is
// also arrival order.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			customer_phone,
			status,
			total_price,
			estimated_prep_minutes,
			assigned_worker_id,
			created_at
		FROM orders
		WHERE status NOT IN (?, ?, ?)
		ORDER BY order_number
	`, order.Completed, order.Cancelled, order.Refunded).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderResp GetActiveOrdersQueryResponse
		var id uuid.UUID
		var workerID sql.NullString

		err = rows.Scan(
			&id,
			&orderResp.OrderNumber,
			&orderResp.CustomerPhone,
			&orderResp.Status,
			&orderResp.TotalPrice,
			&orderResp.EstimatedPrepMinutes,
			&workerID,
			&orderResp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orderResp.ID = orderID
		orderResp.StatusLabel = orderResp.Status.Label()
		if workerID.Valid {
			orderResp.AssignedWorkerID = &workerID.String
		}

		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
