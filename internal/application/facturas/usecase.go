// Package facturas implementa los casos de uso de consulta y ciclo de vida
// de facturas: listado filtrado, detalle, transiciones de estado, borrado
// lógico, búsqueda y sugerencias.
package facturas

import (
	"context"
	"fmt"
	"time"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/domain"
	"github.com/grupocodev/facturas-api/internal/domain/entity"
	"github.com/grupocodev/facturas-api/internal/domain/repository"
	"github.com/grupocodev/facturas-api/internal/listquery"
)

// Tamaño por defecto de la búsqueda avanzada (el listado usa el general).
const searchDefaultLimit = 20

const suggestionsLimit = 5

// TxRunner puerto de transacciones para las transiciones de estado.
type TxRunner interface {
	RunFacturas(ctx context.Context, fn func(facturaRepo repository.FacturaRepository) error) error
}

// UseCase casos de uso de facturas.
type UseCase struct {
	facturaRepo repository.FacturaRepository
	txRunner    TxRunner
}

// NewUseCase construye el caso de uso de facturas.
func NewUseCase(facturaRepo repository.FacturaRepository, txRunner TxRunner) *UseCase {
	return &UseCase{facturaRepo: facturaRepo, txRunner: txRunner}
}

// NormalizarFiltro convierte los parámetros crudos del query string en el
// filtro del listado. Los valores ausentes o inválidos se descartan en
// silencio; empresaID vacío significa acceso global (super_admin).
func NormalizarFiltro(empresaID string, in dto.FacturaListRequest) dto.FacturaFilter {
	f := dto.FacturaFilter{
		EmpresaID: empresaID,
		SortBy:    in.SortBy,
		SortOrder: in.SortOrder,
		Page:      listquery.NewPage(in.Page, in.Limit),
	}
	if p, ok := listquery.SearchPattern(in.Search); ok {
		f.Search = p
	}
	if estado, ok := listquery.Text(in.Estado); ok && entity.EstadoValido(estado) {
		f.Estado = estado
	}
	if ruc, ok := listquery.Text(in.EmisorRUC); ok {
		f.EmisorRUC = ruc
	}
	if fecha, ok := listquery.Date(in.FechaInicio); ok {
		f.FechaInicio = fecha
	}
	if fecha, ok := listquery.Date(in.FechaFin); ok {
		f.FechaFin = fecha
	}
	if n, ok := listquery.Number(in.MontoMin); ok {
		f.MontoMin = &n
	}
	if n, ok := listquery.Number(in.MontoMax); ok {
		f.MontoMax = &n
	}
	if n, ok := listquery.NumberMin(in.ConfianzaMin, 0); ok {
		f.ConfianzaMin = &n
	}
	return f
}

// List devuelve la página de facturas con su sobre de paginación.
func (uc *UseCase) List(ctx context.Context, empresaID string, in dto.FacturaListRequest) ([]dto.FacturaResumen, listquery.Meta, error) {
	filtro := NormalizarFiltro(empresaID, in)
	facturas, total, err := uc.facturaRepo.List(ctx, filtro)
	if err != nil {
		return nil, listquery.Meta{}, err
	}
	return ToResumenes(facturas), filtro.Page.Meta(int(total)), nil
}

// GetByID devuelve la factura completa: cabecera, items, adjuntos y los
// últimos eventos de procesamiento.
func (uc *UseCase) GetByID(ctx context.Context, empresaID, id string) (*dto.FacturaDetalle, error) {
	f, err := uc.facturaRepo.GetByID(ctx, empresaID, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.facturaRepo.GetItems(ctx, empresaID, id)
	if err != nil {
		return nil, err
	}
	archivos, err := uc.facturaRepo.GetArchivos(ctx, empresaID, id)
	if err != nil {
		return nil, err
	}
	logs, err := uc.facturaRepo.GetLogs(ctx, empresaID, id, 50)
	if err != nil {
		return nil, err
	}

	detalle := &dto.FacturaDetalle{
		FacturaResumen:    ToResumen(*f),
		EmailFrom:         f.EmailFrom,
		EmailSubject:      f.EmailSubject,
		S3Key:             f.S3Key,
		EmisorDireccion:   f.EmisorDireccion,
		EmisorTelefono:    f.EmisorTelefono,
		ReceptorRUC:       f.ReceptorRUC,
		ReceptorDireccion: f.ReceptorDireccion,
		Items:             []dto.FacturaItemResponse{},
		Archivos:          []dto.FacturaArchivoResponse{},
		Logs:              []dto.ProcesamientoLogResponse{},
	}
	for _, it := range items {
		detalle.Items = append(detalle.Items, toItemResponse(it))
	}
	for _, a := range archivos {
		detalle.Archivos = append(detalle.Archivos, toArchivoResponse(a))
	}
	for _, l := range logs {
		detalle.Logs = append(detalle.Logs, dto.ProcesamientoLogResponse{
			ID:         l.ID,
			FacturaID:  l.FacturaID,
			TipoEvento: l.TipoEvento,
			Mensaje:    l.Mensaje,
			Detalles:   l.Detalles,
			CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		})
	}
	return detalle, nil
}

func toItemResponse(it entity.FacturaItem) dto.FacturaItemResponse {
	return dto.FacturaItemResponse{
		ID:             it.ID,
		FacturaID:      it.FacturaID,
		Descripcion:    it.Descripcion,
		Codigo:         it.Codigo,
		Cantidad:       it.Cantidad,
		PrecioUnitario: it.PrecioUnitario,
		DescuentoItem:  it.DescuentoItem,
		ImpuestoItem:   it.ImpuestoItem,
		TotalItem:      it.TotalItem,
	}
}

func toArchivoResponse(a entity.FacturaArchivo) dto.FacturaArchivoResponse {
	return dto.FacturaArchivoResponse{
		ID:        a.ID,
		FacturaID: a.FacturaID,
		Nombre:    a.Nombre,
		MimeType:  a.MimeType,
		S3Key:     a.S3Key,
		TamanoB:   a.TamanoB,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

// Items devuelve las líneas de detalle de una factura. Verifica primero que
// la factura exista dentro del alcance del tenant.
func (uc *UseCase) Items(ctx context.Context, empresaID, id string) ([]dto.FacturaItemResponse, error) {
	if _, err := uc.facturaRepo.GetByID(ctx, empresaID, id); err != nil {
		return nil, err
	}
	items, err := uc.facturaRepo.GetItems(ctx, empresaID, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FacturaItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out, nil
}

// Archivos devuelve los adjuntos de una factura.
func (uc *UseCase) Archivos(ctx context.Context, empresaID, id string) ([]dto.FacturaArchivoResponse, error) {
	if _, err := uc.facturaRepo.GetByID(ctx, empresaID, id); err != nil {
		return nil, err
	}
	archivos, err := uc.facturaRepo.GetArchivos(ctx, empresaID, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FacturaArchivoResponse, 0, len(archivos))
	for _, a := range archivos {
		out = append(out, toArchivoResponse(a))
	}
	return out, nil
}

// UpdateEstado cambia el estado de la factura y registra el evento, todo en
// una transacción. "eliminado" no es destino válido: usar Delete.
func (uc *UseCase) UpdateEstado(ctx context.Context, empresaID, id, actorID string, in dto.UpdateEstadoRequest) (*dto.UpdateEstadoResult, error) {
	if !entity.EstadoValido(in.Estado) {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, in.Estado)
	}

	var result *dto.UpdateEstadoResult
	err := uc.txRunner.RunFacturas(ctx, func(repo repository.FacturaRepository) error {
		f, err := repo.GetByID(ctx, empresaID, id)
		if err != nil {
			return err
		}
		if err := repo.UpdateEstado(ctx, empresaID, id, in.Estado); err != nil {
			return err
		}
		detalles := fmt.Sprintf(`{"estado_anterior":%q,"estado_nuevo":%q,"usuario_id":%q,"comentario":%q}`,
			f.Estado, in.Estado, actorID, in.Comentario)
		if err := repo.InsertLog(ctx, &entity.ProcesamientoLog{
			FacturaID:  id,
			TipoEvento: entity.EventoCambioEstado,
			Mensaje:    fmt.Sprintf("Estado cambiado de %s a %s", f.Estado, in.Estado),
			Detalles:   detalles,
		}); err != nil {
			return err
		}
		result = &dto.UpdateEstadoResult{
			EstadoAnterior: f.Estado,
			EstadoNuevo:    in.Estado,
			Comentario:     in.Comentario,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete marca la factura como eliminada (borrado lógico) y registra el
// evento. La fila y sus items nunca se borran.
func (uc *UseCase) Delete(ctx context.Context, empresaID, id, actorID string) error {
	return uc.txRunner.RunFacturas(ctx, func(repo repository.FacturaRepository) error {
		f, err := repo.GetByID(ctx, empresaID, id)
		if err != nil {
			return err
		}
		if err := repo.UpdateEstado(ctx, empresaID, id, entity.EstadoEliminado); err != nil {
			return err
		}
		detalles := fmt.Sprintf(`{"estado_anterior":%q,"usuario_id":%q}`, f.Estado, actorID)
		return repo.InsertLog(ctx, &entity.ProcesamientoLog{
			FacturaID:  id,
			TipoEvento: entity.EventoFacturaEliminada,
			Mensaje:    "Factura eliminada",
			Detalles:   detalles,
		})
	})
}

// Search búsqueda avanzada: acepta q o search (q tiene prioridad) y pagina
// con un tamaño por defecto menor que el del listado.
func (uc *UseCase) Search(ctx context.Context, empresaID string, in dto.SearchRequest) ([]dto.FacturaResumen, listquery.Meta, error) {
	termino := in.Q
	if termino == "" {
		termino = in.Search
	}

	filtro := dto.FacturaFilter{
		EmpresaID: empresaID,
		Page:      listquery.NewPageSized(in.Page, in.Limit, searchDefaultLimit),
	}
	if p, ok := listquery.SearchPattern(termino); ok {
		filtro.Search = p
	}
	if estado, ok := listquery.Text(in.Estado); ok && entity.EstadoValido(estado) {
		filtro.Estado = estado
	}
	if ruc, ok := listquery.Text(in.EmisorRUC); ok {
		filtro.EmisorRUC = ruc
	}

	facturas, total, err := uc.facturaRepo.Search(ctx, filtro)
	if err != nil {
		return nil, listquery.Meta{}, err
	}
	return ToResumenes(facturas), filtro.Page.Meta(int(total)), nil
}

// Suggestions autocompletado del buscador: prefijos de emisor y número de
// factura. Términos de menos de 2 caracteres devuelven vacío.
func (uc *UseCase) Suggestions(ctx context.Context, empresaID, termino string) (*dto.Suggestions, error) {
	t, ok := listquery.Text(termino)
	if !ok || len(t) < 2 {
		return &dto.Suggestions{
			Emisores:       []dto.Suggestion{},
			NumerosFactura: []dto.Suggestion{},
		}, nil
	}
	return uc.facturaRepo.Suggestions(ctx, empresaID, t+"%", suggestionsLimit)
}

// ToResumen convierte la cabecera al DTO del listado.
func ToResumen(f entity.Factura) dto.FacturaResumen {
	r := dto.FacturaResumen{
		ID:             f.ID,
		NumeroFactura:  f.NumeroFactura,
		EmisorNombre:   f.EmisorNombre,
		EmisorRUC:      f.EmisorRUC,
		ReceptorNombre: f.ReceptorNombre,
		Subtotal:       f.Subtotal,
		Descuento:      f.Descuento,
		ITBMS:          f.ITBMS,
		Total:          f.Total,
		Estado:         f.Estado,
		ConfianzaOCR:   f.ConfianzaOCR,
		ProcesadoPor:   f.ProcesadoPor,
		CreatedAt:      f.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      f.UpdatedAt.Format(time.RFC3339),
	}
	if f.FechaFactura != nil {
		r.FechaFactura = f.FechaFactura.Format("2006-01-02")
	}
	return r
}

// ToResumenes aplica ToResumen a una página completa.
func ToResumenes(facturas []entity.Factura) []dto.FacturaResumen {
	out := make([]dto.FacturaResumen, 0, len(facturas))
	for _, f := range facturas {
		out = append(out, ToResumen(f))
	}
	return out
}
