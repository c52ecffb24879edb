package entity

import "time"

// Roles de usuario.
const (
	RolSuperAdmin   = "super_admin"
	RolAdmin        = "admin"
	RolUsuario      = "usuario"
	RolVisualizador = "visualizador"
)

// Usuario cuenta de acceso. Pertenece a lo sumo a una empresa
// (super_admin puede no tener empresa asignada).
type Usuario struct {
	ID           string
	EmpresaID    string // vacío = sin empresa (super_admin)
	Nombre       string
	Apellido     string
	Email        string
	PasswordHash string
	Rol          string
	Activo       bool

	// Política de bloqueo por intentos fallidos (mutado solo por el flujo de auth)
	IntentosFallidos int
	BloqueadoHasta   *time.Time
	UltimoAcceso     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Bloqueado indica si la cuenta está dentro de una ventana de bloqueo temporal.
func (u *Usuario) Bloqueado(now time.Time) bool {
	return u.BloqueadoHasta != nil && now.Before(*u.BloqueadoHasta)
}

// Acciones registradas en logs_acceso.
const (
	AccionLoginExitoso    = "login_exitoso"
	AccionLoginFallido    = "login_fallido"
	AccionLogout          = "logout"
	AccionRegistroExitoso = "registro_exitoso"
)

// LogAcceso evento de autenticación (auditoría).
type LogAcceso struct {
	ID        string
	UsuarioID string // vacío si el email no correspondía a ningún usuario
	Email     string
	Accion    string
	IPAddress string
	UserAgent string
	Detalles  string // JSON serializado
	CreatedAt time.Time
}
