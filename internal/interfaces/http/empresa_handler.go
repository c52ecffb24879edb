package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/application/empresas"
)

// EmpresaHandler maneja las peticiones de empresas y sus usuarios.
type EmpresaHandler struct {
	uc *empresas.UseCase
}

// NewEmpresaHandler construye el handler.
func NewEmpresaHandler(uc *empresas.UseCase) *EmpresaHandler {
	return &EmpresaHandler{uc: uc}
}

// List listado de empresas. super_admin ve todas; un admin solo la suya.
// GET /api/empresas
func (h *EmpresaHandler) List(c *fiber.Ctx) error {
	var in dto.EmpresaListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("parámetros inválidos"))
	}
	lista, meta, err := h.uc.List(c.Context(), GetClaims(c), in)
	if err != nil {
		return fail(c, err)
	}
	return okList(c, lista, meta, in)
}

// GetByID detalle de una empresa.
// GET /api/empresas/:id
func (h *EmpresaHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.GetByID(c.Context(), GetClaims(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, resp)
}

// Count total de empresas bajo filtros simples (activo, plan).
// GET /api/empresas/count
func (h *EmpresaHandler) Count(c *fiber.Ctx) error {
	var in dto.EmpresaCountRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("parámetros inválidos"))
	}
	total, err := h.uc.Count(c.Context(), GetClaims(c), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"total": total})
}

// GetByRUC detalle de una empresa por su RUC.
// GET /api/empresas/ruc/:ruc
func (h *EmpresaHandler) GetByRUC(c *fiber.Ctx) error {
	resp, err := h.uc.GetByRUC(c.Context(), GetClaims(c), c.Params("ruc"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, resp)
}

// Create alta de empresa (solo super_admin, garantizado en la ruta).
// POST /api/empresas
func (h *EmpresaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEmpresaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("cuerpo inválido"))
	}
	resp, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(resp))
}

// Update actualización parcial de empresa.
// PUT /api/empresas/:id
func (h *EmpresaHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateEmpresaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("cuerpo inválido"))
	}
	resp, err := h.uc.Update(c.Context(), GetClaims(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, resp)
}

// Usuarios listado de usuarios de la empresa.
// GET /api/empresas/:id/usuarios
func (h *EmpresaHandler) Usuarios(c *fiber.Ctx) error {
	var in dto.UsuariosEmpresaRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("parámetros inválidos"))
	}
	lista, meta, err := h.uc.Usuarios(c.Context(), GetClaims(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return okList(c, lista, meta, in)
}

// Invite crea un usuario dentro de la empresa.
// POST /api/empresas/:id/usuarios
func (h *EmpresaHandler) Invite(c *fiber.Ctx) error {
	var in dto.InviteUsuarioRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("cuerpo inválido"))
	}
	resp, err := h.uc.Invite(c.Context(), GetClaims(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(resp))
}

// Estadisticas métricas globales de la plataforma (solo super_admin).
// GET /api/admin/estadisticas
func (h *EmpresaHandler) Estadisticas(c *fiber.Ctx) error {
	stats, err := h.uc.Estadisticas(c.Context(), GetClaims(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, stats)
}
