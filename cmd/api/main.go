package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/distribuidora-api/docs"
	"github.com/jhoicas/distribuidora-api/internal/application/auth"
	"github.com/jhoicas/distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/distribuidora-api/internal/application/logistics"
	"github.com/jhoicas/distribuidora-api/internal/application/sales"
	"github.com/jhoicas/distribuidora-api/internal/application/usecase"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	infradespatch "github.com/jhoicas/distribuidora-api/internal/infrastructure/despatch"
	"github.com/jhoicas/distribuidora-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/distribuidora-api/internal/infrastructure/pdf"
	"github.com/jhoicas/distribuidora-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/distribuidora-api/internal/interfaces/http"
	"github.com/jhoicas/distribuidora-api/pkg/config"
	"github.com/jhoicas/distribuidora-api/pkg/logger"
	"github.com/swaggo/swag"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		App:   cfg.App.Name,
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner repository.TxRunner
		repos    repository.Repos
	)
	switch cfg.Store.Driver {
	case "memory":
		store := memory.NewStore()
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	ledger := inventory.NewLedger(txRunner, repos, log.Component("ledger"))
	orderUC := sales.NewOrderUseCase(txRunner, repos, ledger, sales.Config{
		DefaultWarehouseID: cfg.Sales.DefaultWarehouseID,
		TaxRate:            cfg.Sales.TaxRate,
	}, log.Component("sales"))

	// Documentos: hoja de ruta (PDF) y guía de remisión (UBL)
	manifest := infrapdf.NewRouteManifestRenderer(cfg.Company.Name)
	despatch := infradespatch.NewBuilder(cfg.Company.TaxID, cfg.Company.Name)
	logisticsUC := logistics.NewLogisticsUseCase(txRunner, repos, orderUC, manifest, despatch, log.Component("logistics"))

	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	// Sin swagger.json en disco se sirve la especificación registrada por el paquete docs.
	specPath := cfg.Docs.SwaggerPath
	if _, err := os.Stat(specPath); err != nil {
		specPath, err = writeRegisteredSpec()
		if err != nil {
			log.Warn().Err(err).Msg("especificación OpenAPI no disponible, /docs deshabilitado")
		}
	}
	if specPath != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: specPath,
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		WarehouseUC: usecase.NewWarehouseUseCase(repos.Warehouses),
		ProductUC:   usecase.NewProductUseCase(repos.Products),
		CustomerUC:  usecase.NewCustomerUseCase(repos.Customers),
		FleetUC:     usecase.NewFleetUseCase(repos.Vehicles, repos.Drivers, repos.Zones),
		Ledger:      ledger,
		OrderUC:     orderUC,
		LogisticsUC: logisticsUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// writeRegisteredSpec vuelca la especificación de swag a un archivo temporal para contrib/swagger.
func writeRegisteredSpec() (string, error) {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp("", "swagger-*.json")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.WriteString(doc); err != nil {
		return "", err
	}
	return f.Name(), nil
}
