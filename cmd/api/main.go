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

	_ "github.com/Semerokozlyat/drom-de/docs"
	appanalytics "github.com/Semerokozlyat/drom-de/internal/application/analytics"
	"github.com/Semerokozlyat/drom-de/internal/application/auth"
	"github.com/Semerokozlyat/drom-de/internal/application/billing"
	"github.com/Semerokozlyat/drom-de/internal/domain/repository"
	"github.com/Semerokozlyat/drom-de/internal/infrastructure/backendapi"
	"github.com/Semerokozlyat/drom-de/internal/infrastructure/cache"
	infrapdf "github.com/Semerokozlyat/drom-de/internal/infrastructure/pdf"
	"github.com/Semerokozlyat/drom-de/internal/infrastructure/postgres"
	httpRouter "github.com/Semerokozlyat/drom-de/internal/interfaces/http"
	"github.com/Semerokozlyat/drom-de/pkg/config"
	"github.com/Semerokozlyat/drom-de/pkg/logger"
)

// stores repositorios del backend elegido.
type stores struct {
	invoices  repository.InvoiceRepository
	customers repository.CustomerRepository
	users     repository.UserRepository
	revenue   repository.RevenueRepository
	close     func()
}

// @title        Invoices Admin API
// @version      1.0
// @description  Panel de administración de facturas y clientes: alta, edición y borrado de facturas, búsqueda paginada, login por credenciales.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Backend.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Backend.Driver).Msg("conexión al backend")
	}
	defer st.close()

	// Redis opcional: sin REDIS_ADDR la cache y la revocación viven en memoria del proceso.
	var (
		viewCache billing.ViewCache
		revoker   auth.SessionRevoker
	)
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		viewCache = cache.NewRedisViewCache(rdb, cache.DefaultViewTTL)
		revoker = cache.NewRedisRevoker(rdb)
	} else {
		viewCache = cache.NewMemoryViewCache(cache.DefaultViewTTL)
		revoker = cache.NewMemoryRevoker()
	}

	pipeline := billing.NewMutationPipeline(st.invoices, viewCache, log.Component("billing"))
	queries := billing.NewInvoiceQueries(st.invoices, st.customers)
	customerUC := billing.NewCustomerUseCase(st.customers)
	invoicePDFUC := billing.NewPDFUseCase(st.invoices, st.customers, infrapdf.NewMarotoPDFGenerator(), cfg.App.Name)
	dashboardUC := appanalytics.NewDashboardUseCase(st.invoices, st.customers, st.revenue)

	authn := auth.NewAuthenticator(st.users, auth.Config{
		Secret:     cfg.Session.Secret,
		ExpMinutes: cfg.Session.Expiration,
		Issuer:     cfg.Session.Issuer,
	}, log.Component("auth"))
	sessions := auth.NewSessions(cfg.Session.Secret, cfg.Session.Issuer, revoker)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Invoices Admin API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Authenticator: authn,
		Sessions:      sessions,
		Gate:          auth.NewGate(auth.DefaultGateConfig()),
		Pipeline:      pipeline,
		Invoices:      queries,
		CustomerUC:    customerUC,
		InvoicePDF:    invoicePDFUC,
		DashboardUC:   dashboardUC,
		ViewCache:     viewCache,
		Cookie: httpRouter.CookieConfig{
			Name:       cfg.Session.CookieName,
			Secure:     cfg.Session.Secure,
			Expiration: time.Duration(cfg.Session.Expiration) * time.Minute,
		},
		Log: log.Component("http"),
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

// openStores construye los repositorios según BACKEND_DRIVER.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Backend.Driver == config.BackendPostgres {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &stores{
			invoices:  postgres.NewInvoiceRepository(pool),
			customers: postgres.NewCustomerRepository(pool),
			users:     postgres.NewUserRepository(pool),
			revenue:   postgres.NewRevenueRepository(pool),
			close:     pool.Close,
		}, nil
	}

	client := backendapi.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	return &stores{
		invoices:  backendapi.NewInvoiceRepo(client),
		customers: backendapi.NewCustomerRepo(client),
		users:     backendapi.NewUserRepo(client),
		revenue:   backendapi.NewRevenueRepo(client),
		close:     func() {},
	}, nil
}
