package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/domain/entity"
	"github.com/grupocodev/facturas-api/pkg/jwt"
)

// Locals keys para los claims y el alcance de empresa en Fiber.
const (
	LocalClaims       = "claims"
	LocalEmpresaScope = "empresa_scope"
)

// AuthMiddleware valida el Bearer Token JWT y deja los claims en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Authorization header requerido"))
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("formato: Bearer <token>"))
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("token vacío"))
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("token inválido o expirado"))
		}
		c.Locals(LocalClaims, claims)
		return c.Next()
	}
}

// usuarioChecker contrato mínimo para re-verificar al usuario contra la DB.
// Lo implementa repository.UsuarioRepository; la interfaz local evita el
// import del puerto completo.
type usuarioChecker interface {
	GetByID(ctx context.Context, id string) (*entity.Usuario, error)
}

// RequireActivo re-verifica contra la DB que el usuario del token sigue
// existiendo y activo. Un token válido de una cuenta desactivada deja de
// servir de inmediato. Debe usarse después de AuthMiddleware.
func RequireActivo(checker usuarioChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := GetClaims(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("token requerido"))
		}
		user, err := checker.GetByID(c.Context(), claims.UserID)
		if err != nil || !user.Activo {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("cuenta inexistente o desactivada"))
		}
		return c.Next()
	}
}

// RequireRol autoriza solo a los roles indicados. super_admin pasa siempre.
func RequireRol(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := GetClaims(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("token requerido"))
		}
		if claims.Rol == entity.RolSuperAdmin {
			return c.Next()
		}
		for _, rol := range roles {
			if claims.Rol == rol {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.Error("rol sin permiso para esta operación"))
	}
}

// EmpresaFilter resuelve el alcance multi-tenant de la petición: super_admin
// consulta sin alcance (cadena vacía), cualquier otro rol queda limitado a su
// propia empresa. Debe usarse después de AuthMiddleware.
func EmpresaFilter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := GetClaims(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("token requerido"))
		}
		scope := claims.EmpresaID
		if claims.Rol == entity.RolSuperAdmin {
			scope = ""
		}
		c.Locals(LocalEmpresaScope, scope)
		return c.Next()
	}
}

// GetClaims devuelve los claims del contexto (después del middleware de auth).
func GetClaims(c *fiber.Ctx) *jwt.Claims {
	v := c.Locals(LocalClaims)
	if v == nil {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}

// GetEmpresaScope devuelve el alcance de empresa resuelto por EmpresaFilter.
// Cadena vacía significa acceso global (super_admin).
func GetEmpresaScope(c *fiber.Ctx) string {
	v := c.Locals(LocalEmpresaScope)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
