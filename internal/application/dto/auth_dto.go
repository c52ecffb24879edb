package dto

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token + usuario autenticado.
type LoginResponse struct {
	Token string          `json:"token"`
	User  UsuarioResponse `json:"user"`
}

// RegisterRequest registro público: crea empresa + usuario admin.
type RegisterRequest struct {
	Nombre           string `json:"nombre"`
	Apellido         string `json:"apellido"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	EmpresaNombre    string `json:"empresa_nombre"`
	EmpresaRUC       string `json:"empresa_ruc"`
	EmpresaDireccion string `json:"empresa_direccion"`
	EmpresaTelefono  string `json:"empresa_telefono"`
}

// CreateUserRequest alta de usuario por un admin.
type CreateUserRequest struct {
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Rol       string `json:"rol"`
	EmpresaID string `json:"empresa_id"`
}

// ChangePasswordRequest cambio de password del usuario autenticado.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
