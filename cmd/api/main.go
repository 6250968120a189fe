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
	"github.com/jhoicas/caja-registradora/internal/application/analytics"
	"github.com/jhoicas/caja-registradora/internal/application/auth"
	"github.com/jhoicas/caja-registradora/internal/application/inventory"
	"github.com/jhoicas/caja-registradora/internal/application/pos"
	"github.com/jhoicas/caja-registradora/internal/domain/entity"
	infrapdf "github.com/jhoicas/caja-registradora/internal/infrastructure/pdf"
	"github.com/jhoicas/caja-registradora/internal/infrastructure/records"
	"github.com/jhoicas/caja-registradora/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/caja-registradora/internal/interfaces/http"
	"github.com/jhoicas/caja-registradora/pkg/config"
	"github.com/jhoicas/caja-registradora/pkg/logger"
	"github.com/jhoicas/caja-registradora/pkg/metrics"
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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	policy, err := inventory.ParseMissingItemPolicy(cfg.Store.ReversalPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("REVERSAL_POLICY")
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer store.Close()

	m := metrics.New("caja")
	session := pos.NewSession(
		records.NewInventoryRepository(store, cfg.Store.InventoryResource),
		records.NewSalesRepository(store, cfg.Store.SalesResource),
		pos.Options{
			Policy: policy,
			Pricing: entity.PricingConfiguration{
				TaxPercentage:      cfg.Pricing.TaxPercentage,
				DiscountPercentage: cfg.Pricing.DiscountPercentage,
			},
		},
		log,
		m,
	)
	if err := session.Open(ctx); err != nil {
		log.Fatal().Err(err).Msg("cargar inventario y ventas")
	}

	var authUC *auth.AuthUseCase
	if cfg.Auth.Enabled() {
		authUC = auth.NewAuthUseCase(cfg.Auth.OperatorPINHash, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		})
	} else {
		log.Warn().Msg("OPERATOR_PIN_HASH vacío: API sin autenticación")
	}

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
		Title:    "Caja Registradora API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Session:     session,
		ReportUC:    analytics.NewReportUseCase(session),
		AuthUC:      authUC,
		Receipts:    infrapdf.NewMarotoPDFGenerator(cfg.App.Name),
		Metrics:     m,
		JWTSecret:   cfg.JWT.Secret,
		AuthEnabled: cfg.Auth.Enabled(),
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
