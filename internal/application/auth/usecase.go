// Package auth implementa los casos de uso de autenticación: login con
// bloqueo por intentos fallidos, registro público (empresa + admin en una
// transacción), perfil, cambio de password y alta de usuarios por un admin.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/domain"
	"github.com/grupocodev/facturas-api/internal/domain/entity"
	"github.com/grupocodev/facturas-api/internal/domain/repository"
	"github.com/grupocodev/facturas-api/pkg/jwt"
)

// TxRunner puerto de transacciones para el registro público.
type TxRunner interface {
	RunRegistro(ctx context.Context, fn func(
		empresaRepo repository.EmpresaRepository,
		usuarioRepo repository.UsuarioRepository,
	) error) error
}

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Policy política de bloqueo de cuentas y dominio de procesamiento.
type Policy struct {
	MaxIntentosFallidos int
	BloqueoMinutos      int
	ProcesamientoDomain string
}

// Contexto de la petición para los registros de auditoría.
type RequestInfo struct {
	IP        string
	UserAgent string
}

// UseCase casos de uso de autenticación.
type UseCase struct {
	usuarioRepo repository.UsuarioRepository
	txRunner    TxRunner
	jwtCfg      JWTConfig
	policy      Policy
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(usuarioRepo repository.UsuarioRepository, txRunner TxRunner, jwtCfg JWTConfig, policy Policy) *UseCase {
	return &UseCase{usuarioRepo: usuarioRepo, txRunner: txRunner, jwtCfg: jwtCfg, policy: policy}
}

// Login verifica credenciales aplicando la política de bloqueo: tras
// MaxIntentosFallidos seguidos la cuenta queda bloqueada BloqueoMinutos.
// Toda salida (éxito o fallo) deja registro de auditoría.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest, req RequestInfo) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := uc.usuarioRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			uc.auditar(ctx, "", email, entity.AccionLoginFallido, req, "usuario inexistente")
			// Mismo error que password incorrecto: no revelar si el email existe.
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now()
	if user.Bloqueado(now) {
		uc.auditar(ctx, user.ID, email, entity.AccionLoginFallido, req, "cuenta bloqueada")
		return nil, domain.ErrUserLocked
	}
	if !user.Activo {
		uc.auditar(ctx, user.ID, email, entity.AccionLoginFallido, req, "cuenta inactiva")
		return nil, domain.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		var bloquearHasta *time.Time
		if user.IntentosFallidos+1 >= uc.policy.MaxIntentosFallidos {
			t := now.Add(time.Duration(uc.policy.BloqueoMinutos) * time.Minute)
			bloquearHasta = &t
		}
		if err := uc.usuarioRepo.RegistrarIntentoFallido(ctx, user.ID, bloquearHasta); err != nil {
			log.Warn().Err(err).Str("usuario", user.ID).Msg("no se pudo registrar intento fallido")
		}
		uc.auditar(ctx, user.ID, email, entity.AccionLoginFallido, req, "password incorrecto")
		return nil, domain.ErrInvalidCredentials
	}

	if err := uc.usuarioRepo.ResetearIntentos(ctx, user.ID, now); err != nil {
		log.Warn().Err(err).Str("usuario", user.ID).Msg("no se pudo resetear intentos")
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.EmpresaID, user.Email, user.Rol, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.auditar(ctx, user.ID, email, entity.AccionLoginExitoso, req, "")

	user.UltimoAcceso = &now
	return &dto.LoginResponse{Token: token, User: *ToUsuarioResponse(user)}, nil
}

// Register registro público: crea la empresa y su usuario administrador en
// una sola transacción y devuelve sesión iniciada.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest, req RequestInfo) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" || strings.TrimSpace(in.Nombre) == "" ||
		strings.TrimSpace(in.EmpresaNombre) == "" || strings.TrimSpace(in.EmpresaRUC) == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: el password debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	}

	exists, err := uc.usuarioRepo.ExistsEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	ruc := strings.TrimSpace(in.EmpresaRUC)
	empresa := &entity.Empresa{
		Nombre:             strings.TrimSpace(in.EmpresaNombre),
		RUC:                ruc,
		EmailProcesamiento: strings.ToLower(ruc) + "@" + uc.policy.ProcesamientoDomain,
		Direccion:          strings.TrimSpace(in.EmpresaDireccion),
		Telefono:           strings.TrimSpace(in.EmpresaTelefono),
		Activo:             true,
		Plan:               entity.PlanBasico,
	}
	admin := &entity.Usuario{
		Nombre:       strings.TrimSpace(in.Nombre),
		Apellido:     strings.TrimSpace(in.Apellido),
		Email:        email,
		PasswordHash: string(hash),
		Rol:          entity.RolAdmin,
		Activo:       true,
	}

	err = uc.txRunner.RunRegistro(ctx, func(empresaRepo repository.EmpresaRepository, usuarioRepo repository.UsuarioRepository) error {
		if err := empresaRepo.Create(ctx, empresa); err != nil {
			return err
		}
		admin.EmpresaID = empresa.ID
		return usuarioRepo.Create(ctx, admin)
	})
	if err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, admin.ID, admin.EmpresaID, admin.Email, admin.Rol, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.auditar(ctx, admin.ID, email, entity.AccionRegistroExitoso, req, "")

	return &dto.LoginResponse{Token: token, User: *ToUsuarioResponse(admin)}, nil
}

// Profile devuelve el perfil del usuario autenticado.
func (uc *UseCase) Profile(ctx context.Context, userID string) (*dto.UsuarioResponse, error) {
	user, err := uc.usuarioRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUsuarioResponse(user), nil
}

// ChangePassword verifica el password actual y guarda el nuevo.
func (uc *UseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	if len(in.NewPassword) < 8 {
		return fmt.Errorf("%w: el password debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	}
	user, err := uc.usuarioRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.usuarioRepo.UpdatePassword(ctx, userID, string(hash))
}

// CreateUser alta de usuario por un admin. Un admin solo crea usuarios de su
// propia empresa; super_admin puede indicar cualquier empresa.
func (uc *UseCase) CreateUser(ctx context.Context, actor *jwt.Claims, in dto.CreateUserRequest) (*dto.UsuarioResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" || strings.TrimSpace(in.Nombre) == "" {
		return nil, domain.ErrInvalidInput
	}
	rol := in.Rol
	if rol == "" {
		rol = entity.RolUsuario
	}
	if rol != entity.RolAdmin && rol != entity.RolUsuario && rol != entity.RolVisualizador {
		return nil, fmt.Errorf("%w: rol desconocido", domain.ErrInvalidInput)
	}

	empresaID := in.EmpresaID
	if actor.Rol != entity.RolSuperAdmin {
		empresaID = actor.EmpresaID
	}
	if empresaID == "" {
		return nil, fmt.Errorf("%w: empresa requerida", domain.ErrInvalidInput)
	}

	exists, err := uc.usuarioRepo.ExistsEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.Usuario{
		EmpresaID:    empresaID,
		Nombre:       strings.TrimSpace(in.Nombre),
		Apellido:     strings.TrimSpace(in.Apellido),
		Email:        email,
		PasswordHash: string(hash),
		Rol:          rol,
		Activo:       true,
	}
	if err := uc.usuarioRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUsuarioResponse(user), nil
}

// Logout no invalida el token (JWT stateless); deja el registro de auditoría.
func (uc *UseCase) Logout(ctx context.Context, userID, email string, req RequestInfo) {
	uc.auditar(ctx, userID, email, entity.AccionLogout, req, "")
}

// auditar registra el evento de acceso; los fallos no interrumpen el flujo.
func (uc *UseCase) auditar(ctx context.Context, userID, email, accion string, req RequestInfo, motivo string) {
	detalles := ""
	if motivo != "" {
		detalles = fmt.Sprintf(`{"motivo":%q}`, motivo)
	}
	err := uc.usuarioRepo.RegistrarAcceso(ctx, &entity.LogAcceso{
		UsuarioID: userID,
		Email:     email,
		Accion:    accion,
		IPAddress: req.IP,
		UserAgent: req.UserAgent,
		Detalles:  detalles,
	})
	if err != nil {
		log.Warn().Err(err).Str("email", email).Str("accion", accion).Msg("no se pudo registrar acceso")
	}
}

// ToUsuarioResponse convierte la entidad al DTO expuesto por la API.
func ToUsuarioResponse(u *entity.Usuario) *dto.UsuarioResponse {
	resp := &dto.UsuarioResponse{
		ID:        u.ID,
		EmpresaID: u.EmpresaID,
		Nombre:    u.Nombre,
		Apellido:  u.Apellido,
		Email:     u.Email,
		Rol:       u.Rol,
		Activo:    u.Activo,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if !u.UpdatedAt.IsZero() {
		resp.UpdatedAt = u.UpdatedAt.Format(time.RFC3339)
	}
	if u.UltimoAcceso != nil {
		resp.UltimoAcceso = u.UltimoAcceso.Format(time.RFC3339)
	}
	return resp
}
