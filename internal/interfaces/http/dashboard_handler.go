package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grupocodev/facturas-api/internal/application/dashboard"
	"github.com/grupocodev/facturas-api/internal/application/dto"
)

// DashboardHandler maneja las peticiones del panel principal.
type DashboardHandler struct {
	uc *dashboard.UseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *dashboard.UseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Overview métricas principales y alertas.
// GET /api/dashboard/overview
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.uc.Overview(c.Context(), GetEmpresaScope(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, overview)
}

// Data carga combinada de la pantalla principal.
// GET /api/dashboard/data
func (h *DashboardHandler) Data(c *fiber.Ctx) error {
	data, err := h.uc.Data(c.Context(), GetEmpresaScope(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, data)
}

// Alertas solo las alertas activas.
// GET /api/dashboard/alertas
func (h *DashboardHandler) Alertas(c *fiber.Ctx) error {
	alertas, err := h.uc.Alertas(c.Context(), GetEmpresaScope(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, alertas)
}

// Charts series para gráficos; meses controla la profundidad de la serie
// mensual.
// GET /api/dashboard/charts
func (h *DashboardHandler) Charts(c *fiber.Ctx) error {
	charts, err := h.uc.Charts(c.Context(), GetEmpresaScope(c), c.QueryInt("meses"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, charts)
}

// Metrics agregado bajo filtros de período y emisor.
// GET /api/dashboard/metrics
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	var in dto.MetricsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("parámetros inválidos"))
	}
	metrics, err := h.uc.Metrics(c.Context(), GetEmpresaScope(c), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, metrics)
}

// Performance estadísticas del pipeline de procesamiento.
// GET /api/dashboard/performance
func (h *DashboardHandler) Performance(c *fiber.Ctx) error {
	stats, err := h.uc.Performance(c.Context(), GetEmpresaScope(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, stats)
}
