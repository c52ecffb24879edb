package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Los específicos envuelven
// a su base (ErrNotFound, ErrDuplicate) para que errors.Is clasifique por
// familia en la capa HTTP.
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrFacturaNotFound = fmt.Errorf("factura no encontrada: %w", ErrNotFound)
	ErrEmisorNotFound  = fmt.Errorf("emisor no encontrado: %w", ErrNotFound)
	ErrEmpresaNotFound = fmt.Errorf("empresa no encontrada: %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("usuario no encontrado: %w", ErrNotFound)

	ErrDuplicate          = errors.New("recurso duplicado")
	ErrEmailAlreadyExists = fmt.Errorf("el email ya está registrado: %w", ErrDuplicate)
	ErrRUCAlreadyExists   = fmt.Errorf("el RUC ya está registrado: %w", ErrDuplicate)

	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrUserInactive       = errors.New("usuario inactivo")
	ErrUserLocked         = errors.New("usuario temporalmente bloqueado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)
