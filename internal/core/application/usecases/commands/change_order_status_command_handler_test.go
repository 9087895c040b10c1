package commands_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pendingOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), 1, decimal.NewFromInt(5990), nil, "")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), 1, "+56912345678", nil, []order.Item{item}, 15, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, o.TransitionTo(order.Pending, "", "system", time.Now().UTC()))
	return o
}

func TestChangeOrderStatusCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := pendingOrder(t)
	cmd, _ := commands.NewChangeOrderStatusCommand(aggregate.ID(), order.Cooking, "", "worker-1")

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("UpdateGuarded", mock.Anything, aggregate, order.Pending).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	recalc := new(MockTagRecalculator)
	recalc.On("Recalculate", mock.Anything, "+56912345678").Return(nil).Once()

	h := commands.NewChangeOrderStatusCommandHandler(factory, recalc, discardLogger())
	err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Cooking, aggregate.Status())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	recalc.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_InvalidTransition(t *testing.T) {
	ctx := t.Context()
	aggregate := pendingOrder(t)
	cmd, _ := commands.NewChangeOrderStatusCommand(aggregate.ID(), order.Completed, "", "worker-1")

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	recalc := new(MockTagRecalculator)

	h := commands.NewChangeOrderStatusCommandHandler(factory, recalc, discardLogger())
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrInvalidTransition)
	assert.Equal(t, order.Pending, aggregate.Status(), "aggregate must be unchanged")
	repo.AssertNotCalled(t, "UpdateGuarded", mock.Anything, mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	recalc.AssertNotCalled(t, "Recalculate", mock.Anything, mock.Anything)
}

func TestChangeOrderStatusCommandHandler_Handle_RecalcFailureIsSwallowed(t *testing.T) {
	ctx := t.Context()
	aggregate := pendingOrder(t)
	cmd, _ := commands.NewChangeOrderStatusCommand(aggregate.ID(), order.Cooking, "", "worker-1")

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	repo.On("UpdateGuarded", mock.Anything, aggregate, order.Pending).Return(nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	recalc := new(MockTagRecalculator)
	recalc.On("Recalculate", mock.Anything, "+56912345678").Return(errors.New("tags db down")).Once()

	h := commands.NewChangeOrderStatusCommandHandler(factory, recalc, discardLogger())
	err := h.Handle(ctx, cmd)
	require.NoError(t, err, "recalculation failure must not fail the status change")
	recalc.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewChangeOrderStatusCommand(id, order.Cooking, "", "worker-1")

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(nil, errors.New("not found")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewChangeOrderStatusCommandHandler(factory, new(MockTagRecalculator), discardLogger())
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestChangeOrderStatusCommandHandler_Handle_ConcurrentChange(t *testing.T) {
	ctx := t.Context()
	aggregate := pendingOrder(t)
	cmd, _ := commands.NewChangeOrderStatusCommand(aggregate.ID(), order.Cooking, "", "worker-1")

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("UpdateGuarded", mock.Anything, aggregate, order.Pending).Return(ports.ErrStaleStatus).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	recalc := new(MockTagRecalculator)

	h := commands.NewChangeOrderStatusCommandHandler(factory, recalc, discardLogger())
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrStaleStatus)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	recalc.AssertNotCalled(t, "Recalculate", mock.Anything, mock.Anything)
}
