package repository

import (
	"context"

	"github.com/grupocodev/facturas-api/internal/application/dto"
)

// DashboardRepository define las consultas de lectura del dashboard.
// Las implementaciones son read-only.
type DashboardRepository interface {
	Overview(ctx context.Context, empresaID string) (*dto.DashboardOverview, error)
	Alertas(ctx context.Context, empresaID string) ([]dto.Alerta, error)
	Charts(ctx context.Context, empresaID string, meses int) (*dto.DashboardCharts, error)
	Metrics(ctx context.Context, filtro dto.PeriodoFilter) (*dto.DashboardMetrics, error)
	Performance(ctx context.Context, empresaID string) (*dto.PerformanceStats, error)
}
