package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/domain"
	"github.com/grupocodev/facturas-api/internal/listquery"
)

// fail traduce los errores de dominio al status HTTP y al sobre
// {success:false, message}. Los errores no clasificados son fallos de
// infraestructura: se registran y salen como 500 genérico sin detalle.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("credenciales inválidas"))
	case errors.Is(err, domain.ErrUserLocked):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("cuenta bloqueada temporalmente por intentos fallidos"))
	case errors.Is(err, domain.ErrUserInactive):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("cuenta desactivada"))
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("no autorizado"))
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.Error("acceso denegado"))
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Error(err.Error()))
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.Error(err.Error()))
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("error no clasificado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("error interno"))
	}
}

// ok responde 200 con el sobre {success:true, data}.
func ok(c *fiber.Ctx, data any) error {
	return c.JSON(dto.OK(data))
}

// okList responde 200 con el sobre de listado paginado.
func okList(c *fiber.Ctx, data any, meta listquery.Meta, filtros any) error {
	return c.JSON(dto.ListResponse{Success: true, Data: data, Pagination: meta, Filtros: filtros})
}
