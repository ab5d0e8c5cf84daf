package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tu-usuario/cargoflow-api/internal/application/auth"
	"github.com/tu-usuario/cargoflow-api/internal/application/cargoflow"
	"github.com/tu-usuario/cargoflow-api/internal/application/usecase"
	"github.com/tu-usuario/cargoflow-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/cargoflow-api/internal/interfaces/http"
	"github.com/tu-usuario/cargoflow-api/pkg/config"
	"github.com/tu-usuario/cargoflow-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos atados al pool (lecturas y master data); las escrituras del motor
	// pasan por el TxRunner con repos atados a la transacción.
	userRepo := postgres.NewUserRepository(pool)
	shipRepo := postgres.NewShipRepository(pool)
	lineRepo := postgres.NewCargoLineRepository(pool)
	dispatchRepo := postgres.NewDispatchRepository(pool)
	rotationRepo := postgres.NewRotationRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	balanceRepo := postgres.NewBalanceRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	carrierRepo := postgres.NewCarrierRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	registry := prometheus.NewRegistry()
	metrics := cargoflow.NewMetrics(registry)
	tracker := cargoflow.NewAllocationTracker(metrics)

	intakeUC := cargoflow.NewIntakeUseCase(txRunner, shipRepo, lineRepo, productRepo)
	dispatchUC := cargoflow.NewDispatchUseCase(txRunner, tracker, dispatchRepo, warehouseRepo, clientRepo, productRepo)
	rotationUC := cargoflow.NewRotationUseCase(txRunner, tracker, rotationRepo, carrierRepo)
	receptionUC := cargoflow.NewReceptionUseCase(txRunner, metrics)
	balanceUC := cargoflow.NewBalanceUseCase(txRunner, balanceRepo, ledgerRepo, metrics, log)

	productUC := usecase.NewProductUseCase(productRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	clientUC := usecase.NewClientUseCase(clientRepo)
	carrierUC := usecase.NewCarrierUseCase(carrierRepo)
	authUC := auth.NewAuthUseCase(userRepo, warehouseRepo, auth.JWTConfig{
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
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "CargoFlow API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		IntakeUC:    intakeUC,
		DispatchUC:  dispatchUC,
		RotationUC:  rotationUC,
		ReceptionUC: receptionUC,
		BalanceUC:   balanceUC,
		ProductUC:   productUC,
		WarehouseUC: warehouseUC,
		ClientUC:    clientUC,
		CarrierUC:   carrierUC,
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
