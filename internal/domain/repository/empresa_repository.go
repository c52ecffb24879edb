package repository

import (
	"context"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/domain/entity"
)

// EmpresaConUsuarios empresa más el conteo de usuarios, tal como lo produce
// el LEFT JOIN del listado. El use case lo convierte en DTO.
type EmpresaConUsuarios struct {
	entity.Empresa
	TotalUsuarios   int64
	UsuariosActivos int64
}

// EmpresaRepository define el puerto de persistencia para empresas.
type EmpresaRepository interface {
	List(ctx context.Context, filtro dto.EmpresaFilter) ([]EmpresaConUsuarios, int64, error)

	// Count total de empresas bajo los mismos predicados del listado, sin
	// traer la página.
	Count(ctx context.Context, filtro dto.EmpresaFilter) (int64, error)
	GetByID(ctx context.Context, id string) (*EmpresaConUsuarios, error)
	GetByRUC(ctx context.Context, ruc string) (*EmpresaConUsuarios, error)
	Create(ctx context.Context, empresa *entity.Empresa) error
	Update(ctx context.Context, empresa *entity.Empresa) error

	// ExistsRUC indica si otra empresa ya usa el RUC dado. excludeID permite
	// excluir la propia empresa al actualizar.
	ExistsRUC(ctx context.Context, ruc, excludeID string) (bool, error)

	// GlobalStats métricas de toda la plataforma, sin alcance de empresa.
	// Solo lo consume la ruta de administración (super_admin).
	GlobalStats(ctx context.Context) (*dto.EstadisticasGlobales, error)
}
