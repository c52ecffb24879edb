package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/application/reportes"
)

// ReporteHandler maneja las peticiones de reportes y exportación.
type ReporteHandler struct {
	uc *reportes.UseCase
}

// NewReporteHandler construye el handler.
func NewReporteHandler(uc *reportes.UseCase) *ReporteHandler {
	return &ReporteHandler{uc: uc}
}

func periodoRequest(c *fiber.Ctx) dto.PeriodoRequest {
	return dto.PeriodoRequest{
		FechaInicio: c.Query("fechaInicio"),
		FechaFin:    c.Query("fechaFin"),
		EmisorRUC:   c.Query("emisorRuc"),
	}
}

// Dashboard reporte general del período.
// GET /api/reportes/dashboard
func (h *ReporteHandler) Dashboard(c *fiber.Ctx) error {
	rep, err := h.uc.Dashboard(c.Context(), GetEmpresaScope(c), periodoRequest(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, rep)
}

// Ventas reporte de ventas agrupado por período.
// GET /api/reportes/ventas
func (h *ReporteHandler) Ventas(c *fiber.Ctx) error {
	var in dto.VentasRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("parámetros inválidos"))
	}
	rep, err := h.uc.Ventas(c.Context(), GetEmpresaScope(c), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, rep)
}

// ITBMS reporte del impuesto en el período.
// GET /api/reportes/itbms
func (h *ReporteHandler) ITBMS(c *fiber.Ctx) error {
	rep, err := h.uc.ITBMS(c.Context(), GetEmpresaScope(c), periodoRequest(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, rep)
}

// PerformanceOCR reporte de performance del OCR.
// GET /api/reportes/performance-ocr
func (h *ReporteHandler) PerformanceOCR(c *fiber.Ctx) error {
	rep, err := h.uc.PerformanceOCR(c.Context(), GetEmpresaScope(c), periodoRequest(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, rep)
}

// Actividad reporte de actividad y altas de emisores.
// GET /api/reportes/actividad-emisores
func (h *ReporteHandler) Actividad(c *fiber.Ctx) error {
	rep, err := h.uc.Actividad(c.Context(), GetEmpresaScope(c), periodoRequest(c), c.QueryInt("minFacturas"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, rep)
}

// Export exportación de datos tabulares. Con formato=csv responde el archivo
// con Content-Disposition; en cualquier otro caso, el sobre JSON habitual.
// POST /api/reportes/export
func (h *ReporteHandler) Export(c *fiber.Ctx) error {
	var in dto.ExportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("cuerpo inválido"))
	}
	result, err := h.uc.Export(c.Context(), GetEmpresaScope(c), in)
	if err != nil {
		return fail(c, err)
	}
	if result.Formato != reportes.FormatoCSV {
		return ok(c, result)
	}

	archivo, err := reportes.CSV(result)
	if err != nil {
		return fail(c, err)
	}
	nombre := fmt.Sprintf("%s_%s.csv", result.Tipo, time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+nombre+`"`)
	return c.Send(archivo)
}
