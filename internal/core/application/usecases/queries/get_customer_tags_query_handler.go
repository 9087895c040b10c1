package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"

	"restaurant/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetCustomerTagsQueryHandler retrieves a customer's tags from the database.
type GetCustomerTagsQueryHandler struct {
	db *gorm.DB
}

// NewGetCustomerTagsQueryHandler creates a handler for customer tag queries.
func NewGetCustomerTagsQueryHandler(db *gorm.DB) GetCustomerTagsQueryHandler {
	return GetCustomerTagsQueryHandler{db: db}
}

// Handle executes the query. Returns errs.ObjectNotFoundError when no
// customer has the given phone. Tags come back sorted for stable output.
func (h GetCustomerTagsQueryHandler) Handle(
	ctx context.Context,
	query GetCustomerTagsQuery,
) (GetCustomerTagsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCustomerTagsQueryResponse{}, err
	}

	var rawTags []byte
	err := h.db.WithContext(ctx).Raw(`
		SELECT tags
		FROM customers
		WHERE phone = ?
	`, query.Phone()).Row().Scan(&rawTags)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
			return GetCustomerTagsQueryResponse{}, errs.NewObjectNotFoundErrorWithCause("phone", query.Phone(), err)
		}
		return GetCustomerTagsQueryResponse{}, err
	}

	tags := make([]string, 0)
	if len(rawTags) > 0 {
		if err = json.Unmarshal(rawTags, &tags); err != nil {
			return GetCustomerTagsQueryResponse{}, err
		}
	}
	sort.Strings(tags)

	return GetCustomerTagsQueryResponse{Phone: query.Phone(), Tags: tags}, nil
}
