package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/grupocodev/facturas-api/internal/application/auth"
	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/domain"
	"github.com/grupocodev/facturas-api/internal/domain/entity"
	"github.com/grupocodev/facturas-api/internal/domain/repository"
	"github.com/grupocodev/facturas-api/pkg/jwt"
)

// usuarioRepoFake implementación en memoria del puerto para los tests de auth.
// Registra las llamadas de auditoría y de la política de bloqueo.
type usuarioRepoFake struct {
	usuarios map[string]*entity.Usuario // clave: email

	intentosRegistrados int
	bloqueadoHasta      *time.Time
	intentosReseteados  bool
	accesos             []entity.LogAcceso
}

func newUsuarioRepoFake(usuarios ...*entity.Usuario) *usuarioRepoFake {
	f := &usuarioRepoFake{usuarios: map[string]*entity.Usuario{}}
	for _, u := range usuarios {
		f.usuarios[u.Email] = u
	}
	return f
}

func (f *usuarioRepoFake) GetByEmail(_ context.Context, email string) (*entity.Usuario, error) {
	u, ok := f.usuarios[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *usuarioRepoFake) GetByID(_ context.Context, id string) (*entity.Usuario, error) {
	for _, u := range f.usuarios {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *usuarioRepoFake) Create(_ context.Context, u *entity.Usuario) error {
	f.usuarios[u.Email] = u
	return nil
}

func (f *usuarioRepoFake) ListByEmpresa(context.Context, dto.UsuarioFilter) ([]entity.Usuario, int64, error) {
	return nil, 0, nil
}

func (f *usuarioRepoFake) UpdatePassword(context.Context, string, string) error { return nil }

func (f *usuarioRepoFake) RegistrarIntentoFallido(_ context.Context, _ string, bloquearHasta *time.Time) error {
	f.intentosRegistrados++
	f.bloqueadoHasta = bloquearHasta
	return nil
}

func (f *usuarioRepoFake) ResetearIntentos(_ context.Context, _ string, _ time.Time) error {
	f.intentosReseteados = true
	return nil
}

func (f *usuarioRepoFake) ExistsEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.usuarios[email]
	return ok, nil
}

func (f *usuarioRepoFake) RegistrarAcceso(_ context.Context, log *entity.LogAcceso) error {
	f.accesos = append(f.accesos, *log)
	return nil
}

var _ repository.UsuarioRepository = (*usuarioRepoFake)(nil)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func usuarioActivo(t *testing.T) *entity.Usuario {
	return &entity.Usuario{
		ID:           "u-1",
		EmpresaID:    "e-1",
		Nombre:       "Ana",
		Email:        "ana@test.com",
		PasswordHash: hashPassword(t, "password-correcto"),
		Rol:          entity.RolAdmin,
		Activo:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func newUseCase(repo *usuarioRepoFake) *auth.UseCase {
	return auth.NewUseCase(repo, nil,
		auth.JWTConfig{Secret: "secreto", ExpMinutes: 60, Issuer: "test"},
		auth.Policy{MaxIntentosFallidos: 5, BloqueoMinutos: 30, ProcesamientoDomain: "facturas.test"},
	)
}

func TestLogin_Exitoso(t *testing.T) {
	repo := newUsuarioRepoFake(usuarioActivo(t))
	uc := newUseCase(repo)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "  ANA@test.com ", // el email se normaliza
		Password: "password-correcto",
	}, auth.RequestInfo{IP: "10.0.0.1"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ana@test.com", resp.User.Email)
	assert.True(t, repo.intentosReseteados, "el login exitoso debe resetear los intentos fallidos")
	require.Len(t, repo.accesos, 1)
	assert.Equal(t, entity.AccionLoginExitoso, repo.accesos[0].Accion)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	repo := newUsuarioRepoFake(usuarioActivo(t))
	uc := newUseCase(repo)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "ana@test.com",
		Password: "password-equivocado",
	}, auth.RequestInfo{})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, 1, repo.intentosRegistrados)
	assert.Nil(t, repo.bloqueadoHasta, "por debajo del máximo no debe fijarse bloqueo")
}

// El mismo error para email inexistente y password incorrecto: la respuesta
// no revela si el email está registrado.
func TestLogin_EmailInexistente_MismoError(t *testing.T) {
	repo := newUsuarioRepoFake(usuarioActivo(t))
	uc := newUseCase(repo)

	_, errEmail := uc.Login(context.Background(), dto.LoginRequest{
		Email: "nadie@test.com", Password: "da igual",
	}, auth.RequestInfo{})
	_, errPassword := uc.Login(context.Background(), dto.LoginRequest{
		Email: "ana@test.com", Password: "incorrecto",
	}, auth.RequestInfo{})

	assert.ErrorIs(t, errEmail, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errPassword, domain.ErrInvalidCredentials)
	assert.Equal(t, errEmail.Error(), errPassword.Error())
}

// Al alcanzar el máximo de intentos fallidos se fija la ventana de bloqueo.
func TestLogin_UltimoIntentoFijaBloqueo(t *testing.T) {
	user := usuarioActivo(t)
	user.IntentosFallidos = 4 // el siguiente fallo llega al máximo (5)
	repo := newUsuarioRepoFake(user)
	uc := newUseCase(repo)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "ana@test.com", Password: "incorrecto",
	}, auth.RequestInfo{})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	require.NotNil(t, repo.bloqueadoHasta, "el quinto fallo debe fijar bloqueado_hasta")
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), *repo.bloqueadoHasta, time.Minute)
}

func TestLogin_CuentaBloqueada(t *testing.T) {
	user := usuarioActivo(t)
	hasta := time.Now().Add(10 * time.Minute)
	user.BloqueadoHasta = &hasta
	repo := newUsuarioRepoFake(user)
	uc := newUseCase(repo)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "ana@test.com", Password: "password-correcto",
	}, auth.RequestInfo{})

	assert.ErrorIs(t, err, domain.ErrUserLocked,
		"dentro de la ventana de bloqueo ni el password correcto entra")
}

// Una ventana de bloqueo vencida no impide el login.
func TestLogin_BloqueoVencido(t *testing.T) {
	user := usuarioActivo(t)
	hasta := time.Now().Add(-time.Minute)
	user.BloqueadoHasta = &hasta
	repo := newUsuarioRepoFake(user)
	uc := newUseCase(repo)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "ana@test.com", Password: "password-correcto",
	}, auth.RequestInfo{})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_CuentaInactiva(t *testing.T) {
	user := usuarioActivo(t)
	user.Activo = false
	repo := newUsuarioRepoFake(user)
	uc := newUseCase(repo)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "ana@test.com", Password: "password-correcto",
	}, auth.RequestInfo{})

	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestChangePassword_VerificaActual(t *testing.T) {
	repo := newUsuarioRepoFake(usuarioActivo(t))
	uc := newUseCase(repo)

	err := uc.ChangePassword(context.Background(), "u-1", dto.ChangePasswordRequest{
		CurrentPassword: "password-equivocado",
		NewPassword:     "nuevo-password-123",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	err = uc.ChangePassword(context.Background(), "u-1", dto.ChangePasswordRequest{
		CurrentPassword: "password-correcto",
		NewPassword:     "corto",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = uc.ChangePassword(context.Background(), "u-1", dto.ChangePasswordRequest{
		CurrentPassword: "password-correcto",
		NewPassword:     "nuevo-password-123",
	})
	assert.NoError(t, err)
}

func TestCreateUser_AdminSoloSuEmpresa(t *testing.T) {
	repo := newUsuarioRepoFake(usuarioActivo(t))
	uc := newUseCase(repo)

	actor := &jwt.Claims{UserID: "u-1", EmpresaID: "e-1", Rol: entity.RolAdmin}
	resp, err := uc.CreateUser(context.Background(), actor, dto.CreateUserRequest{
		Nombre:    "Luis",
		Email:     "luis@test.com",
		Password:  "password-seguro",
		Rol:       entity.RolUsuario,
		EmpresaID: "e-otra", // un admin no puede elegir empresa
	})

	require.NoError(t, err)
	assert.Equal(t, "e-1", resp.EmpresaID, "el usuario debe quedar en la empresa del actor")
}
