// Package reportes implementa los reportes agregados (ventas, ITBMS,
// performance de OCR, actividad de emisores) y la exportación a CSV.
package reportes

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/domain"
	"github.com/grupocodev/facturas-api/internal/domain/repository"
	"github.com/grupocodev/facturas-api/internal/listquery"
)

// FormatoCSV valor del parámetro formato que produce CSV; cualquier otro
// valor produce JSON.
const FormatoCSV = "csv"

const actividadMinFacturasDefault = 1

// UseCase casos de uso de reportes.
type UseCase struct {
	reporteRepo repository.ReporteRepository
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(reporteRepo repository.ReporteRepository) *UseCase {
	return &UseCase{reporteRepo: reporteRepo}
}

func normalizarPeriodo(empresaID, fechaInicio, fechaFin, emisorRUC string) dto.PeriodoFilter {
	f := dto.PeriodoFilter{EmpresaID: empresaID}
	if fecha, ok := listquery.Date(fechaInicio); ok {
		f.FechaInicio = fecha
	}
	if fecha, ok := listquery.Date(fechaFin); ok {
		f.FechaFin = fecha
	}
	if ruc, ok := listquery.Text(emisorRUC); ok {
		f.EmisorRUC = ruc
	}
	return f
}

// Dashboard reporte general del período.
func (uc *UseCase) Dashboard(ctx context.Context, empresaID string, in dto.PeriodoRequest) (*dto.ReporteDashboard, error) {
	return uc.reporteRepo.Dashboard(ctx, normalizarPeriodo(empresaID, in.FechaInicio, in.FechaFin, in.EmisorRUC))
}

// Ventas reporte de ventas agrupado. agruparPor fuera de la allow-list cae a mes.
func (uc *UseCase) Ventas(ctx context.Context, empresaID string, in dto.VentasRequest) (*dto.ReporteVentas, error) {
	agrupar := in.AgruparPor
	if _, ok := agrupacionValida(agrupar); !ok {
		agrupar = dto.AgruparMes
	}
	filtro := normalizarPeriodo(empresaID, in.FechaInicio, in.FechaFin, in.EmisorRUC)
	return uc.reporteRepo.Ventas(ctx, filtro, agrupar)
}

func agrupacionValida(g string) (string, bool) {
	switch g {
	case dto.AgruparDia, dto.AgruparSemana, dto.AgruparMes, dto.AgruparAnio:
		return g, true
	}
	return "", false
}

// ITBMS reporte del impuesto en el período.
func (uc *UseCase) ITBMS(ctx context.Context, empresaID string, in dto.PeriodoRequest) (*dto.ReporteITBMS, error) {
	return uc.reporteRepo.ITBMS(ctx, normalizarPeriodo(empresaID, in.FechaInicio, in.FechaFin, in.EmisorRUC))
}

// PerformanceOCR reporte de performance del OCR en el período.
func (uc *UseCase) PerformanceOCR(ctx context.Context, empresaID string, in dto.PeriodoRequest) (*dto.ReportePerformanceOCR, error) {
	return uc.reporteRepo.PerformanceOCR(ctx, normalizarPeriodo(empresaID, in.FechaInicio, in.FechaFin, in.EmisorRUC))
}

// Actividad reporte de actividad de emisores. Sin período explícito se
// reportan los últimos 30 días.
func (uc *UseCase) Actividad(ctx context.Context, empresaID string, in dto.PeriodoRequest, minFacturas int) (*dto.ReporteActividadEmisores, error) {
	filtro := normalizarPeriodo(empresaID, in.FechaInicio, in.FechaFin, in.EmisorRUC)
	if filtro.FechaInicio == "" && filtro.FechaFin == "" {
		hoy := time.Now()
		filtro.FechaInicio = hoy.AddDate(0, 0, -30).Format("2006-01-02")
		filtro.FechaFin = hoy.Format("2006-01-02")
	}
	if minFacturas < 1 {
		minFacturas = actividadMinFacturasDefault
	}
	return uc.reporteRepo.ActividadEmisores(ctx, filtro, minFacturas)
}

// Export devuelve los datos del tipo pedido. Con formato json el resultado
// va en el sobre estándar; con formato csv el handler envía el archivo.
func (uc *UseCase) Export(ctx context.Context, empresaID string, in dto.ExportRequest) (*dto.ExportResult, error) {
	filtro := normalizarPeriodo(empresaID, in.FechaInicio, in.FechaFin, in.EmisorRUC)

	var datos any
	var cantidad int
	switch in.Tipo {
	case dto.ExportFacturas:
		rows, err := uc.reporteRepo.ExportFacturas(ctx, filtro, in.Estado)
		if err != nil {
			return nil, err
		}
		datos, cantidad = rows, len(rows)
	case dto.ExportEmisores:
		rows, err := uc.reporteRepo.ExportEmisores(ctx, filtro)
		if err != nil {
			return nil, err
		}
		datos, cantidad = rows, len(rows)
	case dto.ExportVentas:
		rep, err := uc.reporteRepo.Ventas(ctx, filtro, dto.AgruparMes)
		if err != nil {
			return nil, err
		}
		datos, cantidad = rep.Detalle, len(rep.Detalle)
	case dto.ExportITBMS:
		rep, err := uc.reporteRepo.ITBMS(ctx, filtro)
		if err != nil {
			return nil, err
		}
		datos, cantidad = rep.PorMes, len(rep.PorMes)
	default:
		return nil, fmt.Errorf("%w: tipo de exportación desconocido %q", domain.ErrInvalidInput, in.Tipo)
	}

	return &dto.ExportResult{
		Tipo:              in.Tipo,
		Formato:           in.Formato,
		CantidadRegistros: cantidad,
		Datos:             datos,
		GeneradoEn:        time.Now().Format(time.RFC3339),
	}, nil
}

// CSV serializa el resultado de Export como CSV con cabecera. El orden de
// columnas es fijo por tipo.
func CSV(result *dto.ExportResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	switch rows := result.Datos.(type) {
	case []dto.FacturaExport:
		if err := w.Write([]string{
			"numero_factura", "emisor_nombre", "emisor_ruc", "receptor_nombre", "fecha_factura",
			"subtotal", "descuento", "itbms", "total", "estado", "confianza_ocr", "created_at",
		}); err != nil {
			return nil, err
		}
		for _, r := range rows {
			if err := w.Write([]string{
				r.NumeroFactura, r.EmisorNombre, r.EmisorRUC, r.ReceptorNombre, r.FechaFactura,
				r.Subtotal.String(), r.Descuento.String(), r.ITBMS.String(), r.Total.String(),
				r.Estado, r.ConfianzaOCR.String(), r.CreatedAt,
			}); err != nil {
				return nil, err
			}
		}
	case []dto.EmisorExport:
		if err := w.Write([]string{
			"emisor_ruc", "emisor_nombre", "emisor_direccion", "emisor_telefono",
			"total_facturas", "monto_total", "promedio_factura", "primera_factura", "ultima_factura",
		}); err != nil {
			return nil, err
		}
		for _, r := range rows {
			if err := w.Write([]string{
				r.EmisorRUC, r.EmisorNombre, r.EmisorDireccion, r.EmisorTelefono,
				fmt.Sprintf("%d", r.TotalFacturas), r.MontoTotal.String(), r.PromedioFactura.String(),
				r.PrimeraFactura, r.UltimaFactura,
			}); err != nil {
				return nil, err
			}
		}
	case []dto.VentasPeriodo:
		if err := w.Write([]string{
			"periodo", "total_facturas", "total_subtotal", "total_descuento", "total_itbms",
			"total_ventas", "promedio_factura", "venta_minima", "venta_maxima", "emisores_activos",
		}); err != nil {
			return nil, err
		}
		for _, r := range rows {
			if err := w.Write([]string{
				r.Periodo, fmt.Sprintf("%d", r.TotalFacturas),
				r.TotalSubtotal.String(), r.TotalDescuento.String(), r.TotalITBMS.String(),
				r.TotalVentas.String(), r.PromedioFactura.String(),
				r.VentaMinima.String(), r.VentaMaxima.String(),
				fmt.Sprintf("%d", r.EmisoresActivos),
			}); err != nil {
				return nil, err
			}
		}
	case []dto.ITBMSPeriodo:
		if err := w.Write([]string{"mes", "facturas", "base_gravable", "total_itbms", "tasa_promedio"}); err != nil {
			return nil, err
		}
		for _, r := range rows {
			if err := w.Write([]string{
				r.Mes, fmt.Sprintf("%d", r.Facturas),
				r.BaseGravable.String(), r.TotalITBMS.String(), r.TasaPromedio.String(),
			}); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("%w: datos no exportables a CSV", domain.ErrInvalidInput)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
