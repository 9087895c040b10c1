package queries

import (
	"errors"

	"restaurant/internal/pkg/guard"
)

var (
	ErrGetCustomerTagsQueryIsNotConstructed = errors.New(
		"GetCustomerTagsQuery must be created via NewGetCustomerTagsQuery constructor",
	)
	ErrPhoneIsRequired = errors.New("phone is required")
)

// GetCustomerTagsQuery retrieves the current tag set of a customer,
// identified by phone number.
type GetCustomerTagsQuery struct { //nolint:recvcheck //using for validation
	phone string

	guard guard.ConstructorGuard
}

// NewGetCustomerTagsQuery creates a query for a customer's tags.
func NewGetCustomerTagsQuery(phone string) (GetCustomerTagsQuery, error) {
	tagsQuery := GetCustomerTagsQuery{guard: guard.NewConstructorGuard()}

	if err := tagsQuery.setPhone(phone); err != nil {
		return GetCustomerTagsQuery{}, err
	}

	return tagsQuery, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCustomerTagsQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomerTagsQueryIsNotConstructed)
}

// Phone returns the phone number identifying the customer.
func (q GetCustomerTagsQuery) Phone() string {
	return q.phone
}

func (q *GetCustomerTagsQuery) setPhone(phone string) error {
	if phone == "" {
		return ErrPhoneIsRequired
	}

	q.phone = phone
	return nil
}

// GetCustomerTagsQueryResponse represents a customer's current tags.
type GetCustomerTagsQueryResponse struct {
	Phone string
	Tags  []string
}
