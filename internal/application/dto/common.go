package dto

import "github.com/grupocodev/facturas-api/internal/listquery"

// Response sobre genérico de la API: {success, message?, data?}.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ListResponse sobre de listados paginados. El shape de pagination es
// idéntico en todos los endpoints de listado, sea cual sea la entidad.
type ListResponse struct {
	Success    bool           `json:"success"`
	Data       any            `json:"data"`
	Pagination listquery.Meta `json:"pagination"`
	Filtros    any            `json:"filtros,omitempty"`
}

// ErrorResponse cuerpo de error HTTP: {success:false, message}.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Error construye un ErrorResponse con success=false.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Success: false, Message: msg}
}

// OK construye un Response exitoso con datos.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}
