package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/application/emisores"
)

// EmisorHandler maneja las peticiones de emisores (protegido).
type EmisorHandler struct {
	uc *emisores.UseCase
}

// NewEmisorHandler construye el handler.
func NewEmisorHandler(uc *emisores.UseCase) *EmisorHandler {
	return &EmisorHandler{uc: uc}
}

// List listado agregado de emisores.
// GET /api/emisores
func (h *EmisorHandler) List(c *fiber.Ctx) error {
	var in dto.EmisorListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("parámetros inválidos"))
	}
	lista, meta, err := h.uc.List(c.Context(), GetEmpresaScope(c), in)
	if err != nil {
		return fail(c, err)
	}
	return okList(c, lista, meta, in)
}

// Top ranking de emisores por monto.
// GET /api/emisores/top
func (h *EmisorHandler) Top(c *fiber.Ctx) error {
	top, err := h.uc.Top(c.Context(), GetEmpresaScope(c),
		c.QueryInt("limit"), c.Query("fechaInicio"), c.Query("fechaFin"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, top)
}

// GetByRUC detalle agregado del emisor con estadísticas mensuales y top de
// productos.
// GET /api/emisores/:ruc
func (h *EmisorHandler) GetByRUC(c *fiber.Ctx) error {
	detalle, err := h.uc.GetByRUC(c.Context(), GetEmpresaScope(c), c.Params("ruc"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, detalle)
}

// Facturas listado de facturas del emisor.
// GET /api/emisores/:ruc/facturas
func (h *EmisorHandler) Facturas(c *fiber.Ctx) error {
	var in dto.EmisorFacturasRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("parámetros inválidos"))
	}
	lista, meta, err := h.uc.Facturas(c.Context(), GetEmpresaScope(c), c.Params("ruc"), in)
	if err != nil {
		return fail(c, err)
	}
	return okList(c, lista, meta, in)
}
