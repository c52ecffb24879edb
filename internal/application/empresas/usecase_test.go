package empresas_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/application/empresas"
	"github.com/grupocodev/facturas-api/internal/domain"
	"github.com/grupocodev/facturas-api/internal/domain/entity"
	"github.com/grupocodev/facturas-api/internal/domain/repository"
	"github.com/grupocodev/facturas-api/pkg/jwt"
)

// empresaRepoFake registra el filtro con el que se invoca el puerto; las
// demás operaciones devuelven cero.
type empresaRepoFake struct {
	countFiltro dto.EmpresaFilter
	countTotal  int64
}

func (f *empresaRepoFake) List(context.Context, dto.EmpresaFilter) ([]repository.EmpresaConUsuarios, int64, error) {
	return nil, 0, nil
}

func (f *empresaRepoFake) Count(_ context.Context, filtro dto.EmpresaFilter) (int64, error) {
	f.countFiltro = filtro
	return f.countTotal, nil
}

func (f *empresaRepoFake) GetByID(context.Context, string) (*repository.EmpresaConUsuarios, error) {
	return nil, domain.ErrEmpresaNotFound
}

func (f *empresaRepoFake) GetByRUC(context.Context, string) (*repository.EmpresaConUsuarios, error) {
	return nil, domain.ErrEmpresaNotFound
}

func (f *empresaRepoFake) Create(context.Context, *entity.Empresa) error { return nil }
func (f *empresaRepoFake) Update(context.Context, *entity.Empresa) error { return nil }

func (f *empresaRepoFake) ExistsRUC(context.Context, string, string) (bool, error) {
	return false, nil
}

func (f *empresaRepoFake) GlobalStats(context.Context) (*dto.EstadisticasGlobales, error) {
	return &dto.EstadisticasGlobales{}, nil
}

var _ repository.EmpresaRepository = (*empresaRepoFake)(nil)

func newCountUseCase(repo *empresaRepoFake) *empresas.UseCase {
	return empresas.NewUseCase(repo, nil, "facturas.test")
}

// Sin filtros explícitos el conteo cae a las empresas activas.
func TestCount_SinFiltrosCuentaActivas(t *testing.T) {
	repo := &empresaRepoFake{countTotal: 7}
	uc := newCountUseCase(repo)

	total, err := uc.Count(context.Background(), &jwt.Claims{Rol: entity.RolSuperAdmin}, dto.EmpresaCountRequest{})

	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Empty(t, repo.countFiltro.EmpresaID, "super_admin cuenta sin alcance")
	require.NotNil(t, repo.countFiltro.Activo)
	assert.True(t, *repo.countFiltro.Activo)
}

// Un admin solo cuenta dentro de su propia empresa.
func TestCount_AdminSoloSuEmpresa(t *testing.T) {
	repo := &empresaRepoFake{}
	uc := newCountUseCase(repo)

	_, err := uc.Count(context.Background(),
		&jwt.Claims{EmpresaID: "e-1", Rol: entity.RolAdmin}, dto.EmpresaCountRequest{})

	require.NoError(t, err)
	assert.Equal(t, "e-1", repo.countFiltro.EmpresaID)
}

// Con un filtro explícito no se aplica el default de activas.
func TestCount_FiltroPlanSinDefault(t *testing.T) {
	repo := &empresaRepoFake{}
	uc := newCountUseCase(repo)

	_, err := uc.Count(context.Background(),
		&jwt.Claims{Rol: entity.RolSuperAdmin}, dto.EmpresaCountRequest{Plan: entity.PlanBasico})

	require.NoError(t, err)
	assert.Equal(t, entity.PlanBasico, repo.countFiltro.Plan)
	assert.Nil(t, repo.countFiltro.Activo)
}

func TestCount_ActivoFalse(t *testing.T) {
	repo := &empresaRepoFake{}
	uc := newCountUseCase(repo)

	_, err := uc.Count(context.Background(),
		&jwt.Claims{Rol: entity.RolSuperAdmin}, dto.EmpresaCountRequest{Activo: "false"})

	require.NoError(t, err)
	require.NotNil(t, repo.countFiltro.Activo)
	assert.False(t, *repo.countFiltro.Activo)
}
