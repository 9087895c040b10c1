// Package http exposes the application's use cases over a REST API.
// It coordinates between HTTP handlers and application use cases, mapping
// domain errors to status codes.
package http

import (
	"errors"
	"net/http"
	"time"

	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/application/usecases/queries"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/ports"
	"restaurant/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Error is the REST API error envelope.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrderItem is one requested line in an order creation request.
type NewOrderItem struct {
	MenuItemID         string   `json:"menuItemId"`
	Quantity           int      `json:"quantity"`
	RemovedIngredients []string `json:"removedIngredients,omitempty"`
	Note               string   `json:"note,omitempty"`
}

// NewOrder is the order creation request body.
type NewOrder struct {
	CustomerPhone string         `json:"customerPhone"`
	Items         []NewOrderItem `json:"items"`
}

// OrderCreated is the order creation response body.
type OrderCreated struct {
	ID string `json:"id"`
}

// StatusChange is the status change request body.
type StatusChange struct {
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
	Actor   string `json:"actor"`
}

// TakeOrder is the order claim request body.
type TakeOrder struct {
	WorkerID string `json:"workerId"`
}

// ActiveOrder is one element of the active orders response.
type ActiveOrder struct {
	ID                   string          `json:"id"`
	OrderNumber          int64           `json:"orderNumber"`
	CustomerPhone        string          `json:"customerPhone"`
	Status               string          `json:"status"`
	StatusLabel          string          `json:"statusLabel"`
	TotalPrice           decimal.Decimal `json:"totalPrice"`
	EstimatedPrepMinutes int             `json:"estimatedPrepMinutes"`
	AssignedWorkerID     *string         `json:"assignedWorkerId,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// CustomerTags is the customer tags response body.
type CustomerTags struct {
	Phone string   `json:"phone"`
	Tags  []string `json:"tags"`
}

// Server handles the REST API requests.
type Server struct {
	// Command handlers
	createOrderHandler  commands.CreateOrderCommandHandler
	changeStatusHandler commands.ChangeOrderStatusCommandHandler
	takeOrderHandler    commands.TakeOrderCommandHandler
	recalcTagsHandler   commands.RecalculateCustomerTagsCommandHandler

	// Query handlers
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler
	getCustomerTagsHandler queries.GetCustomerTagsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	changeStatusHandler commands.ChangeOrderStatusCommandHandler,
	takeOrderHandler commands.TakeOrderCommandHandler,
	recalcTagsHandler commands.RecalculateCustomerTagsCommandHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
	getCustomerTagsHandler queries.GetCustomerTagsQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:     createOrderHandler,
		changeStatusHandler:    changeStatusHandler,
		takeOrderHandler:       takeOrderHandler,
		recalcTagsHandler:      recalcTagsHandler,
		getActiveOrdersHandler: getActiveOrdersHandler,
		getCustomerTagsHandler: getCustomerTagsHandler,
	}
}

// RegisterRoutes wires the API endpoints onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/active", s.GetActiveOrders)
	api.POST("/orders/:id/status", s.ChangeOrderStatus)
	api.POST("/orders/:id/take", s.TakeOrder)
	api.GET("/customers/:phone/tags", s.GetCustomerTags)
	api.POST("/customers/:phone/tags/recalculate", s.RecalculateCustomerTags)
}

// CreateOrder handles POST /api/v1/orders - creates a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}

	items := make([]commands.ItemInput, 0, len(body.Items))
	for _, item := range body.Items {
		menuItemID, err := kernel.UUIDFromString(item.MenuItemID)
		if err != nil {
			return errorResponse(ctx, http.StatusBadRequest, "Invalid menu item ID: "+item.MenuItemID)
		}
		items = append(items, commands.ItemInput{
			MenuItemID:         menuItemID,
			Quantity:           item.Quantity,
			RemovedIngredients: item.RemovedIngredients,
			Note:               item.Note,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, body.CustomerPhone, items)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order data: "+err.Error())
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapCommandError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, OrderCreated{ID: orderID.String()})
}

// ChangeOrderStatus handles POST /api/v1/orders/:id/status - moves an order
// to a new status.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order ID")
	}

	var body StatusChange
	if err = ctx.Bind(&body); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}

	target := order.StatusFromString(body.Status)
	if target == order.Unknown {
		return errorResponse(ctx, http.StatusBadRequest, "Unknown status: "+body.Status)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, target, body.Comment, body.Actor)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid status change: "+err.Error())
	}

	if err = s.changeStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapCommandError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// TakeOrder handles POST /api/v1/orders/:id/take - claims an order for a
// kitchen worker.
func (s *Server) TakeOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order ID")
	}

	var body TakeOrder
	if err = ctx.Bind(&body); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewTakeOrderCommand(orderID, body.WorkerID)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid claim: "+err.Error())
	}

	if err = s.takeOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapCommandError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetActiveOrders handles GET /api/v1/orders/active - retrieves all orders
// still in flight.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	query := queries.NewGetActiveOrdersQuery()

	orders, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to retrieve orders")
	}

	response := make([]ActiveOrder, len(orders))
	for i, o := range orders {
		response[i] = ActiveOrder{
			ID:                   o.ID.String(),
			OrderNumber:          o.OrderNumber,
			CustomerPhone:        o.CustomerPhone,
			Status:               o.Status.String(),
			StatusLabel:          o.StatusLabel,
			TotalPrice:           o.TotalPrice,
			EstimatedPrepMinutes: o.EstimatedPrepMinutes,
			AssignedWorkerID:     o.AssignedWorkerID,
			CreatedAt:            o.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetCustomerTags handles GET /api/v1/customers/:phone/tags - retrieves a
// customer's current tag set.
func (s *Server) GetCustomerTags(ctx echo.Context) error {
	query, err := queries.NewGetCustomerTagsQuery(ctx.Param("phone"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid phone")
	}

	tags, err := s.getCustomerTagsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapCommandError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, CustomerTags{Phone: tags.Phone, Tags: tags.Tags})
}

// RecalculateCustomerTags handles POST /api/v1/customers/:phone/tags/recalculate -
// forces a tag recalculation from the customer's order history.
func (s *Server) RecalculateCustomerTags(ctx echo.Context) error {
	cmd, err := commands.NewRecalculateCustomerTagsCommand(ctx.Param("phone"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid phone")
	}

	if err = s.recalcTagsHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapCommandError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// mapCommandError translates application and domain errors into API status
// codes: unknown references are 404, state conflicts are 409, pricing
// failures are 422 and anything else is a 500.
func mapCommandError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorResponse(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, commands.ErrOrderAlreadyTaken),
		errors.Is(err, ports.ErrStaleStatus):
		return errorResponse(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, commands.ErrMenuItemCannotBePriced):
		return errorResponse(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	default:
		return errorResponse(ctx, http.StatusInternalServerError, "Internal server error")
	}
}

func errorResponse(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{Code: code, Message: message})
}
