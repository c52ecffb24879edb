package repository

import (
	"context"

	"github.com/grupocodev/facturas-api/internal/application/dto"
)

// ReporteRepository define las consultas de lectura de los reportes.
// Todas agregan sobre facturas no eliminadas bajo un WHERE compartido que
// construye cada implementación a partir del filtro de período.
type ReporteRepository interface {
	Dashboard(ctx context.Context, filtro dto.PeriodoFilter) (*dto.ReporteDashboard, error)

	// Ventas agrupa por día, semana, mes o año según agruparPor (ya validado
	// contra la lista de agrupaciones permitidas).
	Ventas(ctx context.Context, filtro dto.PeriodoFilter, agruparPor string) (*dto.ReporteVentas, error)

	ITBMS(ctx context.Context, filtro dto.PeriodoFilter) (*dto.ReporteITBMS, error)
	PerformanceOCR(ctx context.Context, filtro dto.PeriodoFilter) (*dto.ReportePerformanceOCR, error)

	// ActividadEmisores filtra por actividad mínima sobre los agregados del
	// GROUP BY, con parámetros propios para la cláusula HAVING.
	ActividadEmisores(ctx context.Context, filtro dto.PeriodoFilter, minFacturas int) (*dto.ReporteActividadEmisores, error)

	ExportFacturas(ctx context.Context, filtro dto.PeriodoFilter, estado string) ([]dto.FacturaExport, error)
	ExportEmisores(ctx context.Context, filtro dto.PeriodoFilter) ([]dto.EmisorExport, error)
}
