package orderrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"restaurant/internal/adapters/out/postgres/orderrepo"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/ports"
	"restaurant/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// nopTracker ignores tracking, for tests that do not assert on it.
type nopTracker struct{}

func (nopTracker) TrackAggregate(kernel.UUID, any) {}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker

	nextNumber int64
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	suite.nextNumber++

	item, err := order.NewItem(kernel.NewUUID(), 2, decimal.NewFromInt(5990), []string{"cebolla"}, "sin sal")
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(), suite.nextNumber, "+56912345678", nil,
		[]order.Item{item}, 15, time.Now().UTC().Truncate(time.Microsecond),
	)
	suite.Require().NoError(err)
	return testOrder
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(int64(1), count)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_RoundTrip_RestoresAggregate() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()
	now := testOrder.CreatedAt()

	suite.Require().NoError(testOrder.TransitionTo(order.Pending, "pago confirmado", "system", now.Add(time.Minute)))

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.True(restored.ID().IsEqual(testOrder.ID()))
	suite.Equal(testOrder.OrderNumber(), restored.OrderNumber())
	suite.Equal("+56912345678", restored.CustomerPhone())
	suite.Equal(order.Pending, restored.Status())
	suite.True(restored.TotalPrice().Equal(decimal.NewFromInt(11980)))
	suite.Require().Len(restored.Items(), 1)
	suite.Equal(2, restored.Items()[0].Quantity())
	suite.Equal([]string{"cebolla"}, restored.Items()[0].RemovedIngredients())

	suite.Require().Len(restored.Logs(), 2)
	suite.Equal(order.WaitingPayment, restored.Logs()[0].Status)
	suite.Equal(order.Pending, restored.Logs()[1].Status)
	suite.Equal("pago confirmado", restored.Logs()[1].Comment)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	ctx := context.Background()

	_, err := suite.repository.Get(ctx, kernel.NewUUID())
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsStatusAndHistory() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()
	now := testOrder.CreatedAt()

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.Require().NoError(testOrder.TransitionTo(order.Cancelled, "cliente se arrepintió", "admin", now.Add(time.Minute)))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Cancelled, restored.Status())
	suite.Equal("cliente se arrepintió", restored.CancellationReason())
	suite.Equal("admin", restored.CancelledBy())
	suite.NotNil(restored.CancelledAt())
	suite.Len(restored.Logs(), 2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateGuarded_StatusMatches_Succeeds() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()
	now := testOrder.CreatedAt()

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(testOrder.TransitionTo(order.Pending, "", "system", now.Add(time.Minute)))
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.Require().NoError(testOrder.Take("worker-1", now.Add(2*time.Minute)))
	suite.Require().NoError(suite.repository.UpdateGuarded(ctx, testOrder, order.Pending))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Cooking, restored.Status())
	suite.Require().NotNil(restored.AssignedWorkerID())
	suite.Equal("worker-1", *restored.AssignedWorkerID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateGuarded_StatusMoved_ReturnsStaleStatus() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()
	now := testOrder.CreatedAt()

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(testOrder.TransitionTo(order.Pending, "", "system", now.Add(time.Minute)))
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	// Another writer cancels the order behind our back.
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).
		Where("id = ?", testOrder.ID().Bytes()).
		Update("status", int(order.Cancelled)).Error)

	suite.Require().NoError(testOrder.Take("worker-1", now.Add(2*time.Minute)))
	err := suite.repository.UpdateGuarded(ctx, testOrder, order.Pending)
	suite.Require().Error(err)
	suite.ErrorIs(err, ports.ErrStaleStatus)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateGuarded_ConcurrentClaims_ExactlyOneWins() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()
	now := testOrder.CreatedAt()

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(testOrder.TransitionTo(order.Pending, "", "system", now.Add(time.Minute)))
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	const claimers = 8
	var wg sync.WaitGroup
	results := make(chan error, claimers)

	for range claimers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			repo := orderrepo.NewGormOrderRepository(suite.db, nopTracker{})
			claimed, err := repo.Get(ctx, testOrder.ID())
			if err != nil {
				results <- err
				return
			}
			if err = claimed.Take("worker", now.Add(2*time.Minute)); err != nil {
				results <- err
				return
			}
			results <- repo.UpdateGuarded(ctx, claimed, order.Pending)
		}()
	}

	wg.Wait()
	close(results)

	winners := 0
	for err := range results {
		if err == nil {
			winners++
		}
	}
	suite.Equal(1, winners, "exactly one concurrent claim must succeed")

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Cooking, restored.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllByCustomerPhone_ReturnsHistoryInOrder() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	first := suite.createTestOrder()
	second := suite.createTestOrder()
	suite.Require().NoError(suite.repository.Add(ctx, first))
	suite.Require().NoError(suite.repository.Add(ctx, second))

	other, err := order.NewOrder(
		kernel.NewUUID(), second.OrderNumber()+1, "+56987654321", nil,
		first.Items(), 15, time.Now().UTC(),
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, other))

	history, err := suite.repository.GetAllByCustomerPhone(ctx, "+56912345678")
	suite.Require().NoError(err)
	suite.Require().Len(history, 2)
	suite.Equal(first.OrderNumber(), history[0].OrderNumber())
	suite.Equal(second.OrderNumber(), history[1].OrderNumber())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllActive_ExcludesFinishedOrders() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	active := suite.createTestOrder()
	suite.Require().NoError(suite.repository.Add(ctx, active))

	cancelled := suite.createTestOrder()
	suite.Require().NoError(cancelled.TransitionTo(order.Cancelled, "", "admin", cancelled.CreatedAt()))
	suite.Require().NoError(suite.repository.Add(ctx, cancelled))

	result, err := suite.repository.GetAllActive(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.True(result[0].ID().IsEqual(active.ID()))
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
