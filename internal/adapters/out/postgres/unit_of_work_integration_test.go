package postgres_test

import (
	"context"
	"testing"
	"time"

	"restaurant/internal/adapters/out/postgres"
	"restaurant/internal/adapters/out/postgres/customerrepo"
	"restaurant/internal/adapters/out/postgres/orderrepo"
	"restaurant/internal/core/domain/model/customer"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies transactional behavior across the
// order and customer repositories.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *pgcontainer.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory

	nextNumber int64
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
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

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &customerrepo.CustomerDTO{}))
	suite.factory = postgres.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, customers").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(customerID *kernel.UUID) *order.Order {
	suite.nextNumber++

	item, err := order.NewItem(kernel.NewUUID(), 1, decimal.NewFromInt(5990), nil, "")
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(), suite.nextNumber, "+56912345678", customerID,
		[]order.Item{item}, 15, time.Now().UTC(),
	)
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsBothAggregates() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	newCustomer, err := customer.NewCustomer(kernel.NewUUID(), "+56912345678", time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.CustomerRepository().Add(ctx, newCustomer))

	customerID := newCustomer.ID()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, suite.newOrder(&customerID)))

	suite.Require().NoError(uow.Commit(ctx))

	var orderCount, customerCount int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&orderCount).Error)
	suite.Require().NoError(suite.db.Model(&customerrepo.CustomerDTO{}).Count(&customerCount).Error)
	suite.Equal(int64(1), orderCount)
	suite.Equal(int64(1), customerCount)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsBothAggregates() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	newCustomer, err := customer.NewCustomer(kernel.NewUUID(), "+56912345678", time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.CustomerRepository().Add(ctx, newCustomer))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, suite.newOrder(nil)))

	suite.Require().NoError(uow.Rollback(ctx))

	var orderCount, customerCount int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&orderCount).Error)
	suite.Require().NoError(suite.db.Model(&customerrepo.CustomerDTO{}).Count(&customerCount).Error)
	suite.Zero(orderCount)
	suite.Zero(customerCount)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitWithoutBegin_ReturnsError() {
	uow := suite.factory.Create()
	suite.Require().Error(uow.Commit(context.Background()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackWithoutBegin_ReturnsError() {
	uow := suite.factory.Create()
	suite.Require().Error(uow.Rollback(context.Background()))
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
