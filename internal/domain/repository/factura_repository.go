package repository

import (
	"context"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/domain/entity"
)

// FacturaRepository define el puerto de persistencia para facturas.
// Todas las lecturas reciben el alcance de empresa ya resuelto en el filtro
// o como parámetro; empresaID vacío significa acceso global (super_admin).
type FacturaRepository interface {
	// List devuelve una página de facturas y el total de filas que
	// satisfacen los mismos filtros (dos consultas independientes).
	List(ctx context.Context, filtro dto.FacturaFilter) ([]entity.Factura, int64, error)

	// Search búsqueda avanzada: el término se compara también contra las
	// descripciones de los items y el resultado se ordena por relevancia
	// (número de factura > emisor > resto).
	Search(ctx context.Context, filtro dto.FacturaFilter) ([]entity.Factura, int64, error)

	GetByID(ctx context.Context, empresaID, id string) (*entity.Factura, error)
	GetItems(ctx context.Context, empresaID, facturaID string) ([]entity.FacturaItem, error)
	GetArchivos(ctx context.Context, empresaID, facturaID string) ([]entity.FacturaArchivo, error)
	GetLogs(ctx context.Context, empresaID, facturaID string, limite int) ([]entity.ProcesamientoLog, error)

	// UpdateEstado cambia el estado de la factura. La transición completa
	// (update + log de procesamiento) se compone dentro de una transacción
	// en la capa de aplicación.
	UpdateEstado(ctx context.Context, empresaID, id, estado string) error

	// InsertLog registra un evento de procesamiento de la factura.
	InsertLog(ctx context.Context, log *entity.ProcesamientoLog) error

	// Suggestions devuelve emisores y números de factura que empiezan por el
	// patrón dado, para autocompletado.
	Suggestions(ctx context.Context, empresaID, patron string, limite int) (*dto.Suggestions, error)
}
