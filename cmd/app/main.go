package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"checkout/cmd"
	httpadapter "checkout/internal/adapters/in/http"
	postgresadapter "checkout/internal/adapters/out/postgres"
	"checkout/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := mustConnectDB(configs)
	if err := postgresadapter.AutoMigrate(gormDB); err != nil {
		log.Fatalf("Error migrating database schema: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB)
	if err != nil {
		log.Fatalf("Error building composition root: %v", err)
	}

	jobManager := jobs.NewJobManager(
		app.CreateCancelStaleCartsCommandHandler(),
		app.StaleCartTTL(),
		app.Logger(),
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:                  goDotEnvVariable("HTTP_PORT"),
		DBHost:                    goDotEnvVariable("DB_HOST"),
		DBPort:                    goDotEnvVariable("DB_PORT"),
		DBUser:                    goDotEnvVariable("DB_USER"),
		DBPassword:                goDotEnvVariable("DB_PASSWORD"),
		DBName:                    goDotEnvVariable("DB_NAME"),
		DBSslMode:                 goDotEnvVariable("DB_SSLMODE"),
		StoreCurrency:             goDotEnvVariable("STORE_CURRENCY"),
		AddressRequiresRegion:     goDotEnvBool("STORE_ADDRESS_REQUIRES_REGION"),
		AddressRequiresPostalCode: goDotEnvBool("STORE_ADDRESS_REQUIRES_POSTAL_CODE"),
		AllowBackorderShipping:    goDotEnvBool("STORE_ALLOW_BACKORDER_SHIPPING"),
		PricesIncludeTax:          goDotEnvBool("STORE_PRICES_INCLUDE_TAX"),
		TaxRate:                   goDotEnvVariable("TAX_RATE"),
		TaxLabel:                  goDotEnvVariable("TAX_LABEL"),
		StaleCartTTL:              goDotEnvDuration("STALE_CART_TTL"),
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

func goDotEnvBool(key string) bool {
	value, err := strconv.ParseBool(goDotEnvVariable(key))
	if err != nil {
		log.Fatalf("Error parsing %s as bool: %v", key, err)
	}
	return value
}

func goDotEnvDuration(key string) time.Duration {
	value, err := time.ParseDuration(goDotEnvVariable(key))
	if err != nil {
		log.Fatalf("Error parsing %s as duration: %v", key, err)
	}
	return value
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	return db
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpadapter.NewServer(
		app.StoreConfig().DefaultCurrency(),
		app.CreateCreateOrderCommandHandler(),
		app.CreateAddLineItemCommandHandler(),
		app.CreateAdvanceCheckoutCommandHandler(),
		app.CreateCompleteCheckoutCommandHandler(),
		app.CreateUpdateCheckoutCommandHandler(),
		app.CreateCancelOrderCommandHandler(),
		app.CreateResumeOrderCommandHandler(),
		app.CreateAddPaymentCommandHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateGetIncompleteOrdersQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
