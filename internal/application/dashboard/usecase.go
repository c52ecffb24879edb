// Package dashboard expone las métricas y series del panel principal.
package dashboard

import (
	"context"
	"time"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/domain/repository"
	"github.com/grupocodev/facturas-api/internal/listquery"
)

const (
	chartsDefaultMeses = 6
	chartsMaxMeses     = 24
)

// UseCase casos de uso del dashboard.
type UseCase struct {
	dashboardRepo repository.DashboardRepository
}

// NewUseCase construye el caso de uso del dashboard.
func NewUseCase(dashboardRepo repository.DashboardRepository) *UseCase {
	return &UseCase{dashboardRepo: dashboardRepo}
}

// Overview métricas principales y alertas activas.
func (uc *UseCase) Overview(ctx context.Context, empresaID string) (*dto.DashboardOverview, error) {
	return uc.dashboardRepo.Overview(ctx, empresaID)
}

// Alertas solo las alertas, para refresco independiente del panel.
func (uc *UseCase) Alertas(ctx context.Context, empresaID string) ([]dto.Alerta, error) {
	return uc.dashboardRepo.Alertas(ctx, empresaID)
}

// Charts series para gráficos. meses fuera de [1, 24] cae al valor por defecto.
func (uc *UseCase) Charts(ctx context.Context, empresaID string, meses int) (*dto.DashboardCharts, error) {
	if meses < 1 || meses > chartsMaxMeses {
		meses = chartsDefaultMeses
	}
	return uc.dashboardRepo.Charts(ctx, empresaID, meses)
}

// Data carga combinada de la pantalla principal: overview, gráficos con la
// profundidad por defecto y alertas, en una sola llamada.
func (uc *UseCase) Data(ctx context.Context, empresaID string) (*dto.DashboardData, error) {
	overview, err := uc.dashboardRepo.Overview(ctx, empresaID)
	if err != nil {
		return nil, err
	}
	charts, err := uc.dashboardRepo.Charts(ctx, empresaID, chartsDefaultMeses)
	if err != nil {
		return nil, err
	}
	alertas, err := uc.dashboardRepo.Alertas(ctx, empresaID)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardData{
		Overview:  overview,
		Charts:    charts,
		Alertas:   alertas,
		Timestamp: time.Now().Format(time.RFC3339),
	}, nil
}

// Metrics agregado bajo filtros de período y emisor.
func (uc *UseCase) Metrics(ctx context.Context, empresaID string, in dto.MetricsRequest) (*dto.DashboardMetrics, error) {
	filtro := dto.PeriodoFilter{EmpresaID: empresaID}
	if fecha, ok := listquery.Date(in.FechaInicio); ok {
		filtro.FechaInicio = fecha
	}
	if fecha, ok := listquery.Date(in.FechaFin); ok {
		filtro.FechaFin = fecha
	}
	if ruc, ok := listquery.Text(in.EmisorRUC); ok {
		filtro.EmisorRUC = ruc
	}
	return uc.dashboardRepo.Metrics(ctx, filtro)
}

// Performance estadísticas de rendimiento del pipeline de procesamiento.
func (uc *UseCase) Performance(ctx context.Context, empresaID string) (*dto.PerformanceStats, error) {
	return uc.dashboardRepo.Performance(ctx, empresaID)
}
