package repository

import (
	"context"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/domain/entity"
)

// EmisorRepository define las consultas sobre emisores. Los emisores no
// tienen tabla propia: cada método agrega sobre facturas con GROUP BY
// emisor_ruc, por lo que las lecturas son solo eso, lecturas.
type EmisorRepository interface {
	List(ctx context.Context, filtro dto.EmisorFilter) ([]entity.Emisor, int64, error)

	// GetByRUC devuelve el agregado completo del emisor: estadísticas
	// generales, serie mensual y productos frecuentes.
	GetByRUC(ctx context.Context, empresaID, ruc string) (*dto.EmisorDetalle, error)

	// FacturasByEmisor lista las facturas de un emisor con los filtros de
	// estado y rango de fechas habituales.
	FacturasByEmisor(ctx context.Context, ruc string, filtro dto.FacturaFilter) ([]entity.Factura, int64, error)

	// Top devuelve el ranking de emisores por monto total en el período.
	Top(ctx context.Context, empresaID string, limite int, fechaInicio, fechaFin string) ([]dto.EmisorTop, error)
}
