package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/grupocodev/facturas-api/internal/application/auth"
	"github.com/grupocodev/facturas-api/internal/application/dashboard"
	"github.com/grupocodev/facturas-api/internal/application/emisores"
	"github.com/grupocodev/facturas-api/internal/application/empresas"
	"github.com/grupocodev/facturas-api/internal/application/facturas"
	"github.com/grupocodev/facturas-api/internal/application/reportes"
	"github.com/grupocodev/facturas-api/internal/infrastructure/postgres"
	httpRouter "github.com/grupocodev/facturas-api/internal/interfaces/http"
	"github.com/grupocodev/facturas-api/pkg/config"
	"github.com/grupocodev/facturas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Montos como números JSON, no strings (el frontend opera con ellos).
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	facturaRepo := postgres.NewFacturaRepository(pool)
	emisorRepo := postgres.NewEmisorRepository(pool)
	empresaRepo := postgres.NewEmpresaRepository(pool)
	usuarioRepo := postgres.NewUsuarioRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	reporteRepo := postgres.NewReporteRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewUseCase(usuarioRepo, txRunner, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, auth.Policy{
		MaxIntentosFallidos: cfg.Auth.MaxIntentosFallidos,
		BloqueoMinutos:      cfg.Auth.BloqueoMinutos,
		ProcesamientoDomain: cfg.Auth.ProcesamientoDomain,
	})
	facturaUC := facturas.NewUseCase(facturaRepo, txRunner)
	emisorUC := emisores.NewUseCase(emisorRepo)
	empresaUC := empresas.NewUseCase(empresaRepo, usuarioRepo, cfg.Auth.ProcesamientoDomain)
	dashboardUC := dashboard.NewUseCase(dashboardRepo)
	reporteUC := reportes.NewUseCase(reporteRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	if cfg.HTTP.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.HTTP.RateLimit,
			Expiration: time.Minute,
		}))
	}

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		FacturaUC:   facturaUC,
		EmisorUC:    emisorUC,
		EmpresaUC:   empresaUC,
		DashboardUC: dashboardUC,
		ReporteUC:   reporteUC,
		UsuarioRepo: usuarioRepo,
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
