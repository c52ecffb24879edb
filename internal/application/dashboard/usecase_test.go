package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupocodev/facturas-api/internal/application/dashboard"
	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/domain/repository"
)

// dashboardRepoFake devuelve agregados fijos y registra la profundidad en
// meses pedida a Charts.
type dashboardRepoFake struct {
	mesesPedidos int
}

func (f *dashboardRepoFake) Overview(context.Context, string) (*dto.DashboardOverview, error) {
	return &dto.DashboardOverview{TotalFacturas: 3}, nil
}

func (f *dashboardRepoFake) Alertas(context.Context, string) ([]dto.Alerta, error) {
	return []dto.Alerta{{Tipo: "error"}}, nil
}

func (f *dashboardRepoFake) Charts(_ context.Context, _ string, meses int) (*dto.DashboardCharts, error) {
	f.mesesPedidos = meses
	return &dto.DashboardCharts{}, nil
}

func (f *dashboardRepoFake) Metrics(context.Context, dto.PeriodoFilter) (*dto.DashboardMetrics, error) {
	return &dto.DashboardMetrics{}, nil
}

func (f *dashboardRepoFake) Performance(context.Context, string) (*dto.PerformanceStats, error) {
	return &dto.PerformanceStats{}, nil
}

var _ repository.DashboardRepository = (*dashboardRepoFake)(nil)

// La carga combinada trae overview, gráficos y alertas de una sola vez, con
// la profundidad de serie por defecto.
func TestData_CargaCombinada(t *testing.T) {
	repo := &dashboardRepoFake{}
	uc := dashboard.NewUseCase(repo)

	data, err := uc.Data(context.Background(), "e-1")

	require.NoError(t, err)
	require.NotNil(t, data.Overview)
	assert.Equal(t, int64(3), data.Overview.TotalFacturas)
	require.NotNil(t, data.Charts)
	require.Len(t, data.Alertas, 1)
	assert.Equal(t, 6, repo.mesesPedidos)

	_, err = time.Parse(time.RFC3339, data.Timestamp)
	assert.NoError(t, err, "el timestamp debe ser RFC3339")
}

// meses fuera de [1, 24] cae a la profundidad por defecto.
func TestCharts_ClampMeses(t *testing.T) {
	repo := &dashboardRepoFake{}
	uc := dashboard.NewUseCase(repo)

	_, err := uc.Charts(context.Background(), "e-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 6, repo.mesesPedidos)

	_, err = uc.Charts(context.Background(), "e-1", 99)
	require.NoError(t, err)
	assert.Equal(t, 6, repo.mesesPedidos)

	_, err = uc.Charts(context.Background(), "e-1", 12)
	require.NoError(t, err)
	assert.Equal(t, 12, repo.mesesPedidos)
}
