package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/grupocodev/facturas-api/internal/interfaces/http"
	pkgjwt "github.com/grupocodev/facturas-api/pkg/jwt"
)

// buildVerifyApp monta solo /api/auth/verify: el handler no toca el use case,
// toda la verificación la hace el middleware.
func buildVerifyApp() *fiber.App {
	app := fiber.New()
	handler := apphttp.NewAuthHandler(nil)
	app.Get("/api/auth/verify", apphttp.AuthMiddleware(testJWTSecret), handler.Verify)
	return app
}

func TestVerify_TokenValido(t *testing.T) {
	app := buildVerifyApp()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.Header.Set("Authorization", tokenForRol(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Mensaje string `json:"mensaje"`
			User    struct {
				UserID string `json:"user_id"`
				Email  string `json:"email"`
				Rol    string `json:"rol"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, testUserID, body.Data.User.UserID)
	assert.Equal(t, "admin", body.Data.User.Rol)
}

func TestVerify_SinToken(t *testing.T) {
	app := buildVerifyApp()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestVerify_TokenExpirado(t *testing.T) {
	app := buildVerifyApp()

	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testEmpresaID, "user@test.com", "admin", testIssuer, -5)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
