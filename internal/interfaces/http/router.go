package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Semerokozlyat/drom-de/internal/application/analytics"
	"github.com/Semerokozlyat/drom-de/internal/application/auth"
	"github.com/Semerokozlyat/drom-de/internal/application/billing"
	"github.com/Semerokozlyat/drom-de/internal/application/dto"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Authenticator *auth.Authenticator
	Sessions      *auth.Sessions
	Gate          *auth.Gate
	Pipeline      *billing.MutationPipeline
	Invoices      *billing.InvoiceQueries
	CustomerUC    *billing.CustomerUseCase
	InvoicePDF    *billing.PDFUseCase
	DashboardUC   *analytics.DashboardUseCase
	ViewCache     billing.ViewCache
	Cookie        CookieConfig
	Log           zerolog.Logger
}

// Router registra las rutas. AccessGate corre antes de /login y de todo /dashboard.
func Router(app *fiber.App, deps RouterDeps) {
	gate := AccessGate(deps.Gate, deps.Sessions, deps.Cookie, deps.Log)

	authHandler := NewAuthHandler(deps.Authenticator, deps.Sessions, deps.Gate.Config(), deps.Cookie, deps.Log)
	app.Get("/login", gate, authHandler.Page)
	app.Post("/login", gate, authHandler.Login)
	app.Post("/logout", authHandler.Logout)

	dashboard := app.Group("/dashboard", gate)
	dashboard.Get("/", NewDashboardHandler(deps.DashboardUC).Overview)

	invoices := dashboard.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Pipeline, deps.Invoices, deps.InvoicePDF, deps.ViewCache, deps.Log)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id/edit", invoiceHandler.Edit)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Post("/:id/delete", invoiceHandler.DeleteForm)
	invoices.Post("/:id", invoiceHandler.Update)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)

	customers := dashboard.Group("/customers")
	customers.Get("/", NewCustomerHandler(deps.CustomerUC).List)
}

// ErrorHandler responde cualquier error no manejado con dto.ErrorResponse.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("error no manejado")
		}
		return c.Status(code).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
