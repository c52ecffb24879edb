package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/application/facturas"
)

// FacturaHandler maneja las peticiones de facturas (protegido).
type FacturaHandler struct {
	uc *facturas.UseCase
}

// NewFacturaHandler construye el handler.
func NewFacturaHandler(uc *facturas.UseCase) *FacturaHandler {
	return &FacturaHandler{uc: uc}
}

// List listado filtrado y paginado.
// GET /api/facturas
func (h *FacturaHandler) List(c *fiber.Ctx) error {
	var in dto.FacturaListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("parámetros inválidos"))
	}
	lista, meta, err := h.uc.List(c.Context(), GetEmpresaScope(c), in)
	if err != nil {
		return fail(c, err)
	}
	return okList(c, lista, meta, in)
}

// GetByID detalle completo: cabecera, items, adjuntos y últimos eventos.
// GET /api/facturas/:id
func (h *FacturaHandler) GetByID(c *fiber.Ctx) error {
	detalle, err := h.uc.GetByID(c.Context(), GetEmpresaScope(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, detalle)
}

// Items líneas de detalle de la factura.
// GET /api/facturas/:id/items
func (h *FacturaHandler) Items(c *fiber.Ctx) error {
	items, err := h.uc.Items(c.Context(), GetEmpresaScope(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, items)
}

// Archivos adjuntos de la factura.
// GET /api/facturas/:id/archivos
func (h *FacturaHandler) Archivos(c *fiber.Ctx) error {
	archivos, err := h.uc.Archivos(c.Context(), GetEmpresaScope(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, archivos)
}

// UpdateEstado transición de estado con registro del evento.
// PUT /api/facturas/:id/estado
func (h *FacturaHandler) UpdateEstado(c *fiber.Ctx) error {
	var in dto.UpdateEstadoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("cuerpo inválido"))
	}
	result, err := h.uc.UpdateEstado(c.Context(), GetEmpresaScope(c), c.Params("id"), GetClaims(c).UserID, in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, result)
}

// Delete borrado lógico: la factura queda en estado eliminado.
// DELETE /api/facturas/:id
func (h *FacturaHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetEmpresaScope(c), c.Params("id"), GetClaims(c).UserID); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"mensaje": "factura eliminada"})
}

// Search búsqueda avanzada con orden por relevancia.
// GET /api/facturas/search
func (h *FacturaHandler) Search(c *fiber.Ctx) error {
	var in dto.SearchRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("parámetros inválidos"))
	}
	lista, meta, err := h.uc.Search(c.Context(), GetEmpresaScope(c), in)
	if err != nil {
		return fail(c, err)
	}
	return okList(c, lista, meta, in)
}

// Suggestions autocompletado del buscador.
// GET /api/facturas/search/suggestions
func (h *FacturaHandler) Suggestions(c *fiber.Ctx) error {
	sug, err := h.uc.Suggestions(c.Context(), GetEmpresaScope(c), c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, sug)
}
