package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grupocodev/facturas-api/internal/application/auth"
	"github.com/grupocodev/facturas-api/internal/application/dto"
)

// AuthHandler maneja las peticiones de autenticación.
type AuthHandler struct {
	uc *auth.UseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func requestInfo(c *fiber.Ctx) auth.RequestInfo {
	return auth.RequestInfo{IP: c.IP(), UserAgent: c.Get("User-Agent")}
}

// Login inicia sesión y devuelve el token.
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("cuerpo inválido"))
	}
	resp, err := h.uc.Login(c.Context(), in, requestInfo(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, resp)
}

// Register registro público: crea empresa + admin y devuelve sesión iniciada.
// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("cuerpo inválido"))
	}
	resp, err := h.uc.Register(c.Context(), in, requestInfo(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(resp))
}

// Verify confirma que la sesión sigue siendo válida. La verificación real la
// hace la cadena de middleware; aquí solo se devuelven los claims.
// GET /api/auth/verify
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	return ok(c, fiber.Map{"mensaje": "token válido", "user": GetClaims(c)})
}

// Profile devuelve el perfil del usuario autenticado.
// GET /api/auth/me
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	claims := GetClaims(c)
	resp, err := h.uc.Profile(c.Context(), claims.UserID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, resp)
}

// ChangePassword cambia el password del usuario autenticado.
// PUT /api/auth/password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims := GetClaims(c)
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("cuerpo inválido"))
	}
	if err := h.uc.ChangePassword(c.Context(), claims.UserID, in); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"mensaje": "password actualizado"})
}

// CreateUser alta de usuario por un admin.
// POST /api/auth/usuarios
func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	claims := GetClaims(c)
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("cuerpo inválido"))
	}
	resp, err := h.uc.CreateUser(c.Context(), claims, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(resp))
}

// Logout deja el registro de auditoría; el token JWT no se invalida.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims := GetClaims(c)
	h.uc.Logout(c.Context(), claims.UserID, claims.Email, requestInfo(c))
	return ok(c, fiber.Map{"mensaje": "sesión cerrada"})
}
