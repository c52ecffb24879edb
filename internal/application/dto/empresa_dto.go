package dto

import "github.com/grupocodev/facturas-api/internal/listquery"

// EmpresaListRequest parámetros crudos del listado de empresas.
type EmpresaListRequest struct {
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
	Search    string `query:"search"`
	Activo    string `query:"activo"` // "true" | "false" | vacío
	Plan      string `query:"plan"`
	SortBy    string `query:"sortBy"`
	SortOrder string `query:"sortOrder"`
}

// EmpresaCountRequest parámetros crudos del conteo de empresas.
type EmpresaCountRequest struct {
	Activo string `query:"activo"`
	Plan   string `query:"plan"`
}

// EmpresaFilter filtros normalizados del listado de empresas.
type EmpresaFilter struct {
	EmpresaID string // admin no super: solo su propia empresa
	Search    string // patrón %...%
	Activo    *bool
	Plan      string
	SortBy    string
	SortOrder string
	Page      listquery.Page
}

// EmpresaResponse empresa con conteo de usuarios.
type EmpresaResponse struct {
	ID                 string `json:"id"`
	Nombre             string `json:"nombre"`
	RUC                string `json:"ruc"`
	EmailProcesamiento string `json:"email_procesamiento"`
	Direccion          string `json:"direccion,omitempty"`
	Telefono           string `json:"telefono,omitempty"`
	Activo             bool   `json:"activo"`
	Plan               string `json:"plan"`
	TotalUsuarios      int64  `json:"total_usuarios"`
	UsuariosActivos    int64  `json:"usuarios_activos"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

// CreateEmpresaRequest alta de empresa.
type CreateEmpresaRequest struct {
	Nombre             string `json:"nombre"`
	RUC                string `json:"ruc"`
	EmailProcesamiento string `json:"email_procesamiento"`
	Direccion          string `json:"direccion"`
	Telefono           string `json:"telefono"`
	Plan               string `json:"plan"`
}

// UpdateEmpresaRequest actualización parcial de empresa. Punteros nil = sin cambio.
type UpdateEmpresaRequest struct {
	Nombre             *string `json:"nombre"`
	RUC                *string `json:"ruc"`
	EmailProcesamiento *string `json:"email_procesamiento"`
	Direccion          *string `json:"direccion"`
	Telefono           *string `json:"telefono"`
	Plan               *string `json:"plan"`
	Activo             *bool   `json:"activo"`
}

// UsuarioResponse usuario expuesto por la API (sin hash de password).
type UsuarioResponse struct {
	ID           string `json:"id"`
	EmpresaID    string `json:"empresa_id,omitempty"`
	Nombre       string `json:"nombre"`
	Apellido     string `json:"apellido"`
	Email        string `json:"email"`
	Rol          string `json:"rol"`
	Activo       bool   `json:"activo"`
	UltimoAcceso string `json:"ultimo_acceso,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// UsuariosEmpresaRequest listado de usuarios de una empresa.
type UsuariosEmpresaRequest struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Activo string `query:"activo"`
	Rol    string `query:"rol"`
	Search string `query:"search"`
}

// UsuarioFilter filtros normalizados del listado de usuarios.
type UsuarioFilter struct {
	EmpresaID string
	Activo    *bool
	Rol       string
	Search    string // patrón %...%
	Page      listquery.Page
}

// ConteoPorClave par (clave, cantidad) de un GROUP BY.
type ConteoPorClave struct {
	Clave    string `json:"clave"`
	Cantidad int64  `json:"cantidad"`
}

// EstadisticasGlobales métricas de toda la plataforma (solo super_admin).
type EstadisticasGlobales struct {
	TotalEmpresas     int64            `json:"total_empresas"`
	EmpresasActivas   int64            `json:"empresas_activas"`
	TotalUsuarios     int64            `json:"total_usuarios"`
	UsuariosActivos   int64            `json:"usuarios_activos"`
	TotalFacturas     int64            `json:"total_facturas"`
	FacturasUltimo24h int64            `json:"facturas_ultimo_24h"`
	UsuariosPorRol    []ConteoPorClave `json:"usuarios_por_rol"`
	EmpresasPorPlan   []ConteoPorClave `json:"empresas_por_plan"`
}

// InviteUsuarioRequest invitación de usuario a una empresa.
type InviteUsuarioRequest struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Rol      string `json:"rol"`
}
