package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/caja-registradora/internal/application/analytics"
	"github.com/jhoicas/caja-registradora/internal/application/auth"
	"github.com/jhoicas/caja-registradora/internal/application/pos"
	"github.com/jhoicas/caja-registradora/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Session  *pos.Session
	ReportUC *analytics.ReportUseCase
	AuthUC   *auth.AuthUseCase // nil = sin login
	Receipts ReceiptRenderer   // nil = sin PDF
	Metrics  *metrics.Metrics  // nil = sin /metrics

	JWTSecret   string
	AuthEnabled bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")

	// Auth (público)
	if deps.AuthUC != nil {
		authHandler := NewAuthHandler(deps.AuthUC)
		api.Post("/auth/login", authHandler.Login)
	}

	// Resto de la API: con Bearer Token solo si hay PIN configurado
	protected := api
	if deps.AuthEnabled {
		protected = api.Group("/", AuthMiddleware(deps.JWTSecret))
	}

	invHandler := NewInventoryHandler(deps.Session)
	inv := protected.Group("/inventory")
	inv.Get("/", invHandler.List)
	inv.Post("/", invHandler.Create)
	inv.Put("/:id", invHandler.Update)
	inv.Patch("/:id/stock", invHandler.AdjustStock)
	inv.Delete("/:id", invHandler.Delete)

	cartHandler := NewCartHandler(deps.Session)
	cart := protected.Group("/cart")
	cart.Get("/", cartHandler.Get)
	cart.Post("/", cartHandler.Add)
	cart.Post("/checkout", cartHandler.Checkout)
	cart.Delete("/:id", cartHandler.Remove)

	salesHandler := NewSalesHandler(deps.Session, deps.ReportUC, deps.Receipts)
	sales := protected.Group("/sales")
	sales.Get("/", salesHandler.List)
	sales.Get("/report", salesHandler.Report)
	sales.Get("/:id/receipt", salesHandler.Receipt)
	sales.Delete("/:id", salesHandler.Reverse)

	prefHandler := NewPreferencesHandler(deps.Session)
	protected.Get("/preferences", prefHandler.Get)
	protected.Put("/preferences", prefHandler.Update)
}
