package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/grupocodev/facturas-api/internal/interfaces/http"
	pkgjwt "github.com/grupocodev/facturas-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testEmpresaID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "facturas-api-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - EmpresaFilter para resolver el alcance multi-tenant
//   - RequireRol para autorizar el acceso
//   - Un handler dummy que devuelve el alcance resuelto si pasa los middlewares
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.EmpresaFilter(),
		apphttp.RequireRol(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":            true,
				"rol":           apphttp.GetClaims(c).Rol,
				"empresa_scope": apphttp.GetEmpresaScope(c),
			})
		},
	)
	return app
}

// tokenForRol genera un JWT con el rol indicado.
func tokenForRol(t *testing.T, rol string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testEmpresaID, "user@test.com", rol, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRol
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: El usuario tiene el rol requerido → debe pasar (HTTP 200).
func TestRequireRol_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, tokenForRol(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin debe poder acceder a ruta restringida a admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["rol"])
}

// Caso 1b: El usuario tiene uno de los roles permitidos (multi-rol) → HTTP 200.
func TestRequireRol_UsuarioAccedeRutaAdminOUsuario(t *testing.T) {
	app := buildTestApp("admin", "usuario")
	resp := doRequest(t, app, tokenForRol(t, "usuario"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"usuario debe poder acceder a ruta que permite admin o usuario")
}

// Caso 2: El usuario tiene un rol diferente al requerido → HTTP 403 Forbidden.
func TestRequireRol_VisualizadorBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, tokenForRol(t, "visualizador"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"visualizador no debe poder acceder a ruta restringida a admin")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"success":false`,
		"la respuesta de error debe usar el sobre estándar")
}

// Caso 3: super_admin pasa cualquier RequireRol.
func TestRequireRol_SuperAdminPasaSiempre(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, tokenForRol(t, "super_admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"super_admin debe pasar cualquier restricción de rol")
}

// Caso 4: Sin header Authorization → HTTP 401.
func TestRequireRol_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 5: Token inválido / malformado → HTTP 401.
func TestRequireRol_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

/// Caso 6: Token expirado → HTTP 401.
func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	app := buildTestApp("admin")
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testEmpresaID, "user@test.com", "admin", testIssuer, -5)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"un token vencido debe rechazarse")
}

// Caso 7: Header sin esquema Bearer → HTTP 401.
func TestAuthMiddleware_EsquemaIncorrecto_Retorna401(t *testing.T) {
	app := buildTestApp("admin")
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testEmpresaID, "user@test.com", "admin", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Basic "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests EmpresaFilter — resolución del alcance multi-tenant
// ──────────────────────────────────────────────────────────────────────────────

// Un usuario normal queda limitado a su propia empresa.
func TestEmpresaFilter_UsuarioQuedaLimitadoASuEmpresa(t *testing.T) {
	app := buildTestApp("admin", "usuario", "visualizador")
	resp := doRequest(t, app, tokenForRol(t, "usuario"))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testEmpresaID, body["empresa_scope"],
		"el alcance debe ser la empresa del token")
}

// super_admin consulta sin alcance: el scope resuelto es cadena vacía.
func TestEmpresaFilter_SuperAdminSinAlcance(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, tokenForRol(t, "super_admin"))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "", body["empresa_scope"],
		"super_admin debe consultar sin alcance de empresa")
}
