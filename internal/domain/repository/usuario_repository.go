package repository

import (
	"context"
	"time"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/domain/entity"
)

// UsuarioRepository define el puerto de persistencia para usuarios y sus
// registros de acceso.
type UsuarioRepository interface {
	GetByEmail(ctx context.Context, email string) (*entity.Usuario, error)
	GetByID(ctx context.Context, id string) (*entity.Usuario, error)
	Create(ctx context.Context, usuario *entity.Usuario) error

	ListByEmpresa(ctx context.Context, filtro dto.UsuarioFilter) ([]entity.Usuario, int64, error)

	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// RegistrarIntentoFallido incrementa el contador de intentos y, si
	// bloquearHasta no es nil, fija la fecha de desbloqueo.
	RegistrarIntentoFallido(ctx context.Context, id string, bloquearHasta *time.Time) error

	// ResetearIntentos limpia el contador tras un login exitoso y actualiza
	// el último acceso.
	ResetearIntentos(ctx context.Context, id string, ultimoAcceso time.Time) error

	ExistsEmail(ctx context.Context, email string) (bool, error)

	// RegistrarAcceso inserta un registro de auditoría de login/logout.
	// Los errores se registran pero no interrumpen la operación principal.
	RegistrarAcceso(ctx context.Context, log *entity.LogAcceso) error
}
