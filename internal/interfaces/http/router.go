package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grupocodev/facturas-api/internal/application/auth"
	"github.com/grupocodev/facturas-api/internal/application/dashboard"
	"github.com/grupocodev/facturas-api/internal/application/emisores"
	"github.com/grupocodev/facturas-api/internal/application/empresas"
	"github.com/grupocodev/facturas-api/internal/application/facturas"
	"github.com/grupocodev/facturas-api/internal/application/reportes"
	"github.com/grupocodev/facturas-api/internal/domain/entity"
	"github.com/grupocodev/facturas-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	FacturaUC   *facturas.UseCase
	EmisorUC    *emisores.UseCase
	EmpresaUC   *empresas.UseCase
	DashboardUC *dashboard.UseCase
	ReporteUC   *reportes.UseCase
	UsuarioRepo repository.UsuarioRepository
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", authHandler.Register)

	// Rutas protegidas: Bearer Token + usuario activo + alcance de empresa
	protected := api.Group("/",
		AuthMiddleware(deps.JWTSecret),
		RequireActivo(deps.UsuarioRepo),
		EmpresaFilter(),
	)

	// Auth (protegido)
	authGroup.Get("/verify", AuthMiddleware(deps.JWTSecret), RequireActivo(deps.UsuarioRepo), authHandler.Verify)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), RequireActivo(deps.UsuarioRepo), authHandler.Profile)
	authGroup.Put("/password", AuthMiddleware(deps.JWTSecret), RequireActivo(deps.UsuarioRepo), authHandler.ChangePassword)
	authGroup.Post("/logout", AuthMiddleware(deps.JWTSecret), authHandler.Logout)
	authGroup.Post("/usuarios",
		AuthMiddleware(deps.JWTSecret), RequireActivo(deps.UsuarioRepo), RequireRol(entity.RolAdmin),
		authHandler.CreateUser)

	// Facturas
	facturasGroup := protected.Group("/facturas")
	facturaHandler := NewFacturaHandler(deps.FacturaUC)
	facturasGroup.Get("/", facturaHandler.List)
	facturasGroup.Get("/search", facturaHandler.Search)
	facturasGroup.Get("/search/suggestions", facturaHandler.Suggestions)
	facturasGroup.Get("/:id", facturaHandler.GetByID)
	facturasGroup.Get("/:id/items", facturaHandler.Items)
	facturasGroup.Get("/:id/archivos", facturaHandler.Archivos)
	facturasGroup.Put("/:id/estado", RequireRol(entity.RolAdmin, entity.RolUsuario), facturaHandler.UpdateEstado)
	facturasGroup.Delete("/:id", RequireRol(entity.RolAdmin), facturaHandler.Delete)

	// Emisores
	emisoresGroup := protected.Group("/emisores")
	emisorHandler := NewEmisorHandler(deps.EmisorUC)
	emisoresGroup.Get("/", emisorHandler.List)
	emisoresGroup.Get("/top", emisorHandler.Top)
	emisoresGroup.Get("/:ruc", emisorHandler.GetByRUC)
	emisoresGroup.Get("/:ruc/facturas", emisorHandler.Facturas)

	// Empresas
	empresasGroup := protected.Group("/empresas")
	empresaHandler := NewEmpresaHandler(deps.EmpresaUC)
	empresasGroup.Get("/", empresaHandler.List)
	empresasGroup.Post("/", RequireRol(entity.RolSuperAdmin), empresaHandler.Create)
	empresasGroup.Get("/count", empresaHandler.Count)
	empresasGroup.Get("/ruc/:ruc", empresaHandler.GetByRUC)
	empresasGroup.Get("/:id", empresaHandler.GetByID)
	empresasGroup.Put("/:id", RequireRol(entity.RolAdmin), empresaHandler.Update)
	empresasGroup.Get("/:id/usuarios", RequireRol(entity.RolAdmin), empresaHandler.Usuarios)
	empresasGroup.Post("/:id/usuarios", RequireRol(entity.RolAdmin), empresaHandler.Invite)

	// Admin (solo super_admin)
	adminGroup := protected.Group("/admin", RequireRol(entity.RolSuperAdmin))
	adminGroup.Get("/empresas", empresaHandler.List)
	adminGroup.Get("/estadisticas", empresaHandler.Estadisticas)

	// Dashboard
	dashboardGroup := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboardGroup.Get("/overview", dashboardHandler.Overview)
	dashboardGroup.Get("/data", dashboardHandler.Data)
	dashboardGroup.Get("/alertas", dashboardHandler.Alertas)
	dashboardGroup.Get("/charts", dashboardHandler.Charts)
	dashboardGroup.Get("/metrics", dashboardHandler.Metrics)
	dashboardGroup.Get("/performance", dashboardHandler.Performance)

	// Reportes
	reportesGroup := protected.Group("/reportes")
	reporteHandler := NewReporteHandler(deps.ReporteUC)
	reportesGroup.Get("/dashboard", reporteHandler.Dashboard)
	reportesGroup.Get("/ventas", reporteHandler.Ventas)
	reportesGroup.Get("/itbms", reporteHandler.ITBMS)
	reportesGroup.Get("/performance-ocr", reporteHandler.PerformanceOCR)
	reportesGroup.Get("/actividad-emisores", reporteHandler.Actividad)
	reportesGroup.Post("/export", reporteHandler.Export)
}
