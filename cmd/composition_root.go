package cmd

import (
	"log/slog"

	"restaurant/internal/adapters/out/postgres"
	"restaurant/internal/adapters/out/postgres/customerrepo"
	"restaurant/internal/adapters/out/postgres/menurepo"
	"restaurant/internal/adapters/out/postgres/sequencerepo"
	"restaurant/internal/adapters/out/postgres/tagcatalogrepo"
	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/application/usecases/queries"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/services"
	"restaurant/internal/core/ports"
	"restaurant/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	recalcHandler commands.RecalculateCustomerTagsCommandHandler
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	root := CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}

	// One shared instance: the per-customer locks that serialize tag
	// recalculation live inside the handler.
	root.recalcHandler = commands.NewRecalculateCustomerTagsCommandHandler(
		root.uowFactoryFor(), root.CreateTagCatalog(), services.NewTagRuleEngine(),
	)

	return root
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	recalc := c.CreateRecalculateCustomerTagsCommandHandler()
	return commands.NewCreateOrderCommandHandler(
		c.uowFactoryFor(),
		c.CreateMenuCatalog(),
		c.CreateOrderNumberSequencer(),
		&recalc,
		c.logger,
	)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	recalc := c.CreateRecalculateCustomerTagsCommandHandler()
	return commands.NewChangeOrderStatusCommandHandler(f, &recalc, c.logger)
}

func (c *CompositionRoot) CreateTakeOrderCommandHandler() commands.TakeOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewTakeOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateRecalculateCustomerTagsCommandHandler() commands.RecalculateCustomerTagsCommandHandler {
	return c.recalcHandler
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCustomerTagsQueryHandler() queries.GetCustomerTagsQueryHandler {
	return queries.NewGetCustomerTagsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateMenuCatalog() ports.MenuCatalog {
	return menurepo.NewGormMenuCatalog(c.gormDB)
}

func (c *CompositionRoot) CreateTagCatalog() ports.TagCatalog {
	return tagcatalogrepo.NewGormTagCatalog(c.gormDB)
}

func (c *CompositionRoot) CreateOrderNumberSequencer() ports.OrderNumberSequencer {
	return sequencerepo.NewGormOrderNumberSequencer(c.gormDB)
}

func (c *CompositionRoot) CreateCustomerRepository() ports.CustomerRepository {
	return customerrepo.NewGormCustomerRepository(c.gormDB, nopTracker{})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateCustomerRepository(), c.recalcHandler, c.logger)
}

func (c *CompositionRoot) uowFactoryFor() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

// nopTracker satisfies the repositories' tracker dependency for repositories
// used outside a unit of work.
type nopTracker struct{}

func (nopTracker) TrackAggregate(kernel.UUID, any) {}
