package jwt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupocodev/facturas-api/pkg/jwt"
)

const (
	secret    = "secreto-de-prueba"
	userID    = "00000000-0000-0000-0000-0000000000aa"
	empresaID = "00000000-0000-0000-0000-0000000000bb"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := jwt.Generate(secret, userID, empresaID, "ana@test.com", "admin", "facturas-api", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, empresaID, claims.EmpresaID)
	assert.Equal(t, "ana@test.com", claims.Email)
	assert.Equal(t, "admin", claims.Rol)
	assert.Equal(t, userID, claims.Subject)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", userID, empresaID, "ana@test.com", "admin", "facturas-api", 60)
	assert.Error(t, err)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := jwt.Generate(secret, userID, empresaID, "ana@test.com", "admin", "facturas-api", 60)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secreto", tok)
	assert.Error(t, err, "un token firmado con otro secreto debe rechazarse")
}

func TestParse_TokenManipulado(t *testing.T) {
	tok, err := jwt.Generate(secret, userID, empresaID, "ana@test.com", "usuario", "facturas-api", 60)
	require.NoError(t, err)

	// Alterar el payload (segunda sección) invalida la firma.
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	parts[1] = parts[1][:len(parts[1])-2] + "xx"

	_, err = jwt.Parse(secret, strings.Join(parts, "."))
	assert.Error(t, err, "un token con payload alterado debe rechazarse")
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := jwt.Generate(secret, userID, empresaID, "ana@test.com", "admin", "facturas-api", -1)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, tok)
	assert.Error(t, err, "un token vencido debe rechazarse")
}

// EmpresaID vacío es válido: super_admin sin empresa asignada.
func TestGenerateParse_SinEmpresa(t *testing.T) {
	tok, err := jwt.Generate(secret, userID, "", "root@test.com", "super_admin", "facturas-api", 60)
	require.NoError(t, err)

	claims, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "", claims.EmpresaID)
	assert.Equal(t, "super_admin", claims.Rol)
}
