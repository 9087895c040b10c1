package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"restaurant/cmd"
	httpserver "restaurant/internal/adapters/in/http"
	"restaurant/internal/adapters/out/postgres/customerrepo"
	"restaurant/internal/adapters/out/postgres/menurepo"
	"restaurant/internal/adapters/out/postgres/orderrepo"
	"restaurant/internal/adapters/out/postgres/sequencerepo"
	"restaurant/internal/adapters/out/postgres/tagcatalogrepo"
	"restaurant/internal/core/domain/model/customer"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustOpenDB(configs)
	mustMigrate(gormDB)
	mustSeedTagCatalog(gormDB)

	app := cmd.NewCompositionRoot(configs, gormDB, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		logger.Error("failed to start background jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustOpenDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	return gormDB
}

func mustMigrate(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&customerrepo.CustomerDTO{},
		&menurepo.MenuItemDTO{},
		&tagcatalogrepo.TagDefinitionDTO{},
		&sequencerepo.SequenceDTO{},
	)
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
}

// mustSeedTagCatalog registers the system-managed tag definitions. Upserts
// keep operator changes to is_enabled intact across restarts.
func mustSeedTagCatalog(gormDB *gorm.DB) {
	catalog := tagcatalogrepo.NewGormTagCatalog(gormDB)
	managed := []string{
		customer.TagPagoFallido,
		customer.TagCancelacionesFrecuentes,
		customer.TagProblemasEntrega,
		customer.TagReembolsos,
		customer.TagPrimerPedido,
		customer.TagClienteActivo,
		customer.TagEnRiesgo,
		customer.TagNuevo,
	}

	for _, name := range managed {
		var count int64
		err := gormDB.Model(&tagcatalogrepo.TagDefinitionDTO{}).
			Where("name = ?", name).Count(&count).Error
		if err != nil {
			log.Fatalf("Error seeding tag catalog: %v", err)
		}
		if count > 0 {
			continue
		}

		err = catalog.Upsert(context.Background(), tagcatalogrepo.TagDefinitionDTO{
			Name:            name,
			IsSystemManaged: true,
			IsEnabled:       true,
		})
		if err != nil {
			log.Fatalf("Error seeding tag catalog: %v", err)
		}
	}
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpserver.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateChangeOrderStatusCommandHandler(),
		app.CreateTakeOrderCommandHandler(),
		app.CreateRecalculateCustomerTagsCommandHandler(),
		app.CreateGetActiveOrdersQueryHandler(),
		app.CreateGetCustomerTagsQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
