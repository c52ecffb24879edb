// Package emisores implementa los casos de uso de consulta de emisores:
// proyecciones agregadas sobre facturas identificadas por RUC.
package emisores

import (
	"context"
	"time"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/application/facturas"
	"github.com/grupocodev/facturas-api/internal/domain"
	"github.com/grupocodev/facturas-api/internal/domain/entity"
	"github.com/grupocodev/facturas-api/internal/domain/repository"
	"github.com/grupocodev/facturas-api/internal/listquery"
)

const (
	topDefaultLimit = 10
	topMaxLimit     = 50
)

// UseCase casos de uso de emisores.
type UseCase struct {
	emisorRepo repository.EmisorRepository
}

// NewUseCase construye el caso de uso de emisores.
func NewUseCase(emisorRepo repository.EmisorRepository) *UseCase {
	return &UseCase{emisorRepo: emisorRepo}
}

// List devuelve la página de emisores agregados.
func (uc *UseCase) List(ctx context.Context, empresaID string, in dto.EmisorListRequest) ([]dto.EmisorResumen, listquery.Meta, error) {
	filtro := dto.EmisorFilter{
		EmpresaID: empresaID,
		SortBy:    in.SortBy,
		SortOrder: in.SortOrder,
		Page:      listquery.NewPage(in.Page, in.Limit),
	}
	if p, ok := listquery.SearchPattern(in.Search); ok {
		filtro.Search = p
	}

	emisores, total, err := uc.emisorRepo.List(ctx, filtro)
	if err != nil {
		return nil, listquery.Meta{}, err
	}

	out := make([]dto.EmisorResumen, 0, len(emisores))
	for _, e := range emisores {
		out = append(out, toResumen(e))
	}
	return out, filtro.Page.Meta(int(total)), nil
}

// GetByRUC devuelve el detalle agregado del emisor.
func (uc *UseCase) GetByRUC(ctx context.Context, empresaID, ruc string) (*dto.EmisorDetalle, error) {
	r, ok := listquery.Text(ruc)
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	return uc.emisorRepo.GetByRUC(ctx, empresaID, r)
}

// Facturas lista las facturas del emisor con los filtros habituales.
func (uc *UseCase) Facturas(ctx context.Context, empresaID, ruc string, in dto.EmisorFacturasRequest) ([]dto.FacturaResumen, listquery.Meta, error) {
	r, ok := listquery.Text(ruc)
	if !ok {
		return nil, listquery.Meta{}, domain.ErrInvalidInput
	}

	filtro := dto.FacturaFilter{
		EmpresaID: empresaID,
		SortBy:    in.SortBy,
		SortOrder: in.SortOrder,
		Page:      listquery.NewPage(in.Page, in.Limit),
	}
	if estado, ok := listquery.Text(in.Estado); ok && entity.EstadoValido(estado) {
		filtro.Estado = estado
	}
	if fecha, ok := listquery.Date(in.FechaInicio); ok {
		filtro.FechaInicio = fecha
	}
	if fecha, ok := listquery.Date(in.FechaFin); ok {
		filtro.FechaFin = fecha
	}

	lista, total, err := uc.emisorRepo.FacturasByEmisor(ctx, r, filtro)
	if err != nil {
		return nil, listquery.Meta{}, err
	}
	return facturas.ToResumenes(lista), filtro.Page.Meta(int(total)), nil
}

// Top devuelve el ranking de emisores por monto en el período.
func (uc *UseCase) Top(ctx context.Context, empresaID string, limite int, fechaInicio, fechaFin string) ([]dto.EmisorTop, error) {
	if limite < 1 || limite > topMaxLimit {
		limite = topDefaultLimit
	}
	inicio, _ := listquery.Date(fechaInicio)
	fin, _ := listquery.Date(fechaFin)
	return uc.emisorRepo.Top(ctx, empresaID, limite, inicio, fin)
}

func fechaISO(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func toResumen(e entity.Emisor) dto.EmisorResumen {
	return dto.EmisorResumen{
		EmisorRUC:           e.RUC,
		EmisorNombre:        e.Nombre,
		EmisorDireccion:     e.Direccion,
		EmisorTelefono:      e.Telefono,
		TotalFacturas:       e.TotalFacturas,
		MontoTotal:          e.MontoTotal,
		PromedioFactura:     e.PromedioFactura,
		PrimeraFactura:      fechaISO(e.PrimeraFactura),
		UltimaFactura:       fechaISO(e.UltimaFactura),
		UltimoProcesamiento: fechaISO(e.UltimoProcesamiento),
		FacturasPendientes:  e.FacturasPendientes,
		FacturasError:       e.FacturasError,
		ConfianzaPromedio:   e.ConfianzaPromedio,
	}
}
