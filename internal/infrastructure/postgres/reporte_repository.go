package postgres

import (
	"context"
	"fmt"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/domain/repository"
	"github.com/grupocodev/facturas-api/internal/listquery"
)

var _ repository.ReporteRepository = (*ReporteRepo)(nil)

// periodoPredicados WHERE compartido de reportes y métricas: alcance de
// empresa, facturas no eliminadas y filtros de período/emisor opcionales.
func periodoPredicados(f dto.PeriodoFilter) *listquery.Builder {
	b := listquery.NewBuilder()
	if f.EmpresaID != "" {
		b.Scope("empresa_id", f.EmpresaID)
	}
	b.And("estado != 'eliminado'")
	if f.FechaInicio != "" {
		b.And("fecha_factura >= ?", f.FechaInicio)
	}
	if f.FechaFin != "" {
		b.And("fecha_factura <= ?", f.FechaFin)
	}
	if f.EmisorRUC != "" {
		b.And("emisor_ruc = ?", f.EmisorRUC)
	}
	return b
}

// ventasAgrupaciones expresión de período por agrupación. La clave viene ya
// validada contra la allow-list; ante cualquier otra cosa se agrupa por mes.
var ventasAgrupaciones = map[string]string{
	dto.AgruparDia:    "to_char(fecha_factura, 'YYYY-MM-DD')",
	dto.AgruparSemana: "to_char(fecha_factura, 'IYYY-IW')",
	dto.AgruparMes:    "to_char(fecha_factura, 'YYYY-MM')",
	dto.AgruparAnio:   "to_char(fecha_factura, 'YYYY')",
}

// ReporteRepo consultas de lectura de reportes.
type ReporteRepo struct {
	q Querier
}

// NewReporteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReporteRepository(q Querier) *ReporteRepo {
	return &ReporteRepo{q: q}
}

// Dashboard reporte general: métricas, serie mensual y top de emisores, todo
// bajo el mismo WHERE de período.
func (r *ReporteRepo) Dashboard(ctx context.Context, filtro dto.PeriodoFilter) (*dto.ReporteDashboard, error) {
	b := periodoPredicados(filtro)

	query := `
	SELECT COUNT(*),
	       COUNT(*) FILTER (WHERE estado = 'pendiente'),
	       COUNT(*) FILTER (WHERE estado = 'procesado'),
	       COUNT(*) FILTER (WHERE estado = 'error'),
	       COUNT(*) FILTER (WHERE estado = 'revision'),
	       COALESCE(SUM(total), 0),
	       COALESCE(AVG(total), 0),
	       COALESCE(AVG(confianza_ocr), 0),
	       COUNT(DISTINCT emisor_ruc)
	FROM facturas ` + b.Where()

	rep := &dto.ReporteDashboard{
		FacturasPorMes: []dto.PuntoMensual{},
		TopEmisores:    []dto.EmisorChart{},
	}
	err := r.q.QueryRow(ctx, query, b.Args()...).Scan(
		&rep.Metricas.TotalFacturas,
		&rep.Metricas.FacturasPendientes, &rep.Metricas.FacturasProcesadas,
		&rep.Metricas.FacturasError, &rep.Metricas.FacturasRevisadas,
		&rep.Metricas.TotalMonto, &rep.Metricas.PromedioFactura,
		&rep.Metricas.ConfianzaPromedio, &rep.Metricas.EmisoresUnicos,
	)
	if err != nil {
		return nil, fmt.Errorf("reporte dashboard metricas: %w", err)
	}

	mb := periodoPredicados(filtro)
	mensual := `
	SELECT to_char(fecha_factura, 'YYYY-MM') AS mes, COUNT(*), COALESCE(SUM(total), 0)
	FROM facturas ` + mb.Where() + `
	GROUP BY to_char(fecha_factura, 'YYYY-MM')
	ORDER BY mes`

	rows, err := r.q.Query(ctx, mensual, mb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("reporte dashboard mensual: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p dto.PuntoMensual
		if err := rows.Scan(&p.Mes, &p.Cantidad, &p.MontoTotal); err != nil {
			return nil, fmt.Errorf("scan punto mensual: %w", err)
		}
		rep.FacturasPorMes = append(rep.FacturasPorMes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tb := periodoPredicados(filtro)
	tb.And("emisor_ruc IS NOT NULL")
	top := `
	SELECT MAX(COALESCE(emisor_nombre, '')), emisor_ruc, COUNT(*), COALESCE(SUM(total), 0) AS monto
	FROM facturas ` + tb.Where() + `
	GROUP BY emisor_ruc
	ORDER BY monto DESC
	LIMIT 10`

	trows, err := r.q.Query(ctx, top, tb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("reporte dashboard top: %w", err)
	}
	defer trows.Close()
	for trows.Next() {
		var e dto.EmisorChart
		if err := trows.Scan(&e.Emisor, &e.RUC, &e.Cantidad, &e.Monto); err != nil {
			return nil, fmt.Errorf("scan emisor chart: %w", err)
		}
		rep.TopEmisores = append(rep.TopEmisores, e)
	}
	return rep, trows.Err()
}

// Ventas agrega por el período pedido y calcula además el resumen global.
func (r *ReporteRepo) Ventas(ctx context.Context, filtro dto.PeriodoFilter, agruparPor string) (*dto.ReporteVentas, error) {
	expr, ok := ventasAgrupaciones[agruparPor]
	if !ok {
		expr = ventasAgrupaciones[dto.AgruparMes]
	}

	b := periodoPredicados(filtro)
	b.And("fecha_factura IS NOT NULL")

	detalle := `
	SELECT ` + expr + ` AS periodo,
	       COUNT(*),
	       COALESCE(SUM(subtotal), 0),
	       COALESCE(SUM(descuento), 0),
	       COALESCE(SUM(itbms), 0),
	       COALESCE(SUM(total), 0),
	       COALESCE(AVG(total), 0),
	       COALESCE(MIN(total), 0),
	       COALESCE(MAX(total), 0),
	       COUNT(DISTINCT emisor_ruc)
	FROM facturas ` + b.Where() + `
	GROUP BY ` + expr + `
	ORDER BY periodo`

	rep := &dto.ReporteVentas{Detalle: []dto.VentasPeriodo{}}
	rows, err := r.q.Query(ctx, detalle, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("reporte ventas detalle: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v dto.VentasPeriodo
		if err := rows.Scan(
			&v.Periodo, &v.TotalFacturas,
			&v.TotalSubtotal, &v.TotalDescuento, &v.TotalITBMS, &v.TotalVentas,
			&v.PromedioFactura, &v.VentaMinima, &v.VentaMaxima, &v.EmisoresActivos,
		); err != nil {
			return nil, fmt.Errorf("scan ventas periodo: %w", err)
		}
		rep.Detalle = append(rep.Detalle, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rb := periodoPredicados(filtro)
	resumen := `
	SELECT COUNT(*),
	       COALESCE(SUM(subtotal), 0),
	       COALESCE(SUM(descuento), 0),
	       COALESCE(SUM(itbms), 0),
	       COALESCE(SUM(total), 0),
	       COALESCE(AVG(total), 0)
	FROM facturas ` + rb.Where()

	err = r.q.QueryRow(ctx, resumen, rb.Args()...).Scan(
		&rep.Resumen.TotalFacturas, &rep.Resumen.TotalSubtotal, &rep.Resumen.TotalDescuento,
		&rep.Resumen.TotalITBMS, &rep.Resumen.TotalVentas, &rep.Resumen.PromedioFactura,
	)
	if err != nil {
		return nil, fmt.Errorf("reporte ventas resumen: %w", err)
	}
	return rep, nil
}

// ITBMS reporta el impuesto: resumen, serie mensual y desglose por emisor.
// Solo cuentan las facturas con ITBMS mayor a cero.
func (r *ReporteRepo) ITBMS(ctx context.Context, filtro dto.PeriodoFilter) (*dto.ReporteITBMS, error) {
	b := periodoPredicados(filtro)
	b.And("itbms > 0")

	resumen := `
	SELECT COUNT(*),
	       COALESCE(SUM(subtotal), 0),
	       COALESCE(SUM(itbms), 0),
	       COALESCE(AVG(itbms), 0),
	       COALESCE(SUM(total), 0),
	       COALESCE(AVG(itbms * 100.0 / NULLIF(subtotal, 0)), 0)
	FROM facturas ` + b.Where()

	rep := &dto.ReporteITBMS{
		PorMes:    []dto.ITBMSPeriodo{},
		PorEmisor: []dto.ITBMSEmisor{},
	}
	err := r.q.QueryRow(ctx, resumen, b.Args()...).Scan(
		&rep.Resumen.FacturasConITBMS, &rep.Resumen.BaseGravable,
		&rep.Resumen.TotalITBMS, &rep.Resumen.PromedioITBMS,
		&rep.Resumen.TotalConITBMS, &rep.Resumen.TasaPromedioITBMS,
	)
	if err != nil {
		return nil, fmt.Errorf("reporte itbms resumen: %w", err)
	}

	mb := periodoPredicados(filtro)
	mb.And("itbms > 0")
	mb.And("fecha_factura IS NOT NULL")
	mensual := `
	SELECT to_char(fecha_factura, 'YYYY-MM') AS mes,
	       COUNT(*), COALESCE(SUM(subtotal), 0), COALESCE(SUM(itbms), 0),
	       COALESCE(AVG(itbms * 100.0 / NULLIF(subtotal, 0)), 0)
	FROM facturas ` + mb.Where() + `
	GROUP BY to_char(fecha_factura, 'YYYY-MM')
	ORDER BY mes`

	rows, err := r.q.Query(ctx, mensual, mb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("reporte itbms mensual: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p dto.ITBMSPeriodo
		if err := rows.Scan(&p.Mes, &p.Facturas, &p.BaseGravable, &p.TotalITBMS, &p.TasaPromedio); err != nil {
			return nil, fmt.Errorf("scan itbms periodo: %w", err)
		}
		rep.PorMes = append(rep.PorMes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	eb := periodoPredicados(filtro)
	eb.And("itbms > 0")
	eb.And("emisor_ruc IS NOT NULL")
	porEmisor := `
	SELECT emisor_ruc, MAX(COALESCE(emisor_nombre, '')),
	       COUNT(*), COALESCE(SUM(subtotal), 0), COALESCE(SUM(itbms), 0) AS total_itbms,
	       COALESCE(AVG(itbms * 100.0 / NULLIF(subtotal, 0)), 0)
	FROM facturas ` + eb.Where() + `
	GROUP BY emisor_ruc
	ORDER BY total_itbms DESC
	LIMIT 20`

	erows, err := r.q.Query(ctx, porEmisor, eb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("reporte itbms por emisor: %w", err)
	}
	defer erows.Close()
	for erows.Next() {
		var e dto.ITBMSEmisor
		if err := erows.Scan(&e.EmisorRUC, &e.EmisorNombre, &e.Facturas, &e.BaseGravable, &e.TotalITBMS, &e.TasaPromedio); err != nil {
			return nil, fmt.Errorf("scan itbms emisor: %w", err)
		}
		rep.PorEmisor = append(rep.PorEmisor, e)
	}
	return rep, erows.Err()
}

// PerformanceOCR estadísticas del OCR: cortes de confianza en 70 y 90,
// tendencia diaria de los últimos 30 días y desglose por procesador.
func (r *ReporteRepo) PerformanceOCR(ctx context.Context, filtro dto.PeriodoFilter) (*dto.ReportePerformanceOCR, error) {
	b := periodoPredicados(filtro)

	stats := `
	SELECT COUNT(*) FILTER (WHERE confianza_ocr IS NOT NULL),
	       COALESCE(AVG(confianza_ocr), 0),
	       COALESCE(MIN(confianza_ocr), 0),
	       COALESCE(MAX(confianza_ocr), 0),
	       COUNT(*) FILTER (WHERE confianza_ocr >= 90),
	       COUNT(*) FILTER (WHERE confianza_ocr >= 70 AND confianza_ocr < 90),
	       COUNT(*) FILTER (WHERE confianza_ocr < 70),
	       COUNT(*) FILTER (WHERE estado = 'error'),
	       COALESCE(COUNT(*) FILTER (WHERE estado != 'error') * 100.0 / NULLIF(COUNT(*), 0), 0)
	FROM facturas ` + b.Where()

	rep := &dto.ReportePerformanceOCR{
		TendenciaDiaria: []dto.OCRDia{},
		PorProcesador:   []dto.OCRProcesador{},
	}
	err := r.q.QueryRow(ctx, stats, b.Args()...).Scan(
		&rep.Estadisticas.TotalProcesadas,
		&rep.Estadisticas.ConfianzaPromedio, &rep.Estadisticas.ConfianzaMinima, &rep.Estadisticas.ConfianzaMaxima,
		&rep.Estadisticas.AltaConfianza, &rep.Estadisticas.MediaConfianza, &rep.Estadisticas.BajaConfianza,
		&rep.Estadisticas.ErroresProcesamiento, &rep.Estadisticas.TasaExito,
	)
	if err != nil {
		return nil, fmt.Errorf("reporte ocr stats: %w", err)
	}

	db := periodoPredicados(filtro)
	db.And("created_at >= NOW() - INTERVAL '30 days'")
	diaria := `
	SELECT to_char(created_at, 'YYYY-MM-DD') AS fecha,
	       COUNT(*), COALESCE(AVG(confianza_ocr), 0),
	       COUNT(*) FILTER (WHERE confianza_ocr >= 90),
	       COUNT(*) FILTER (WHERE estado = 'error')
	FROM facturas ` + db.Where() + `
	GROUP BY to_char(created_at, 'YYYY-MM-DD')
	ORDER BY fecha`

	rows, err := r.q.Query(ctx, diaria, db.Args()...)
	if err != nil {
		return nil, fmt.Errorf("reporte ocr tendencia: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d dto.OCRDia
		if err := rows.Scan(&d.Fecha, &d.TotalProcesadas, &d.ConfianzaPromedio, &d.AltaConfianza, &d.Errores); err != nil {
			return nil, fmt.Errorf("scan ocr dia: %w", err)
		}
		rep.TendenciaDiaria = append(rep.TendenciaDiaria, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pb := periodoPredicados(filtro)
	pb.And("procesado_por IS NOT NULL")
	procesador := `
	SELECT procesado_por,
	       COUNT(*), COALESCE(AVG(confianza_ocr), 0),
	       COUNT(*) FILTER (WHERE confianza_ocr >= 90),
	       COUNT(*) FILTER (WHERE estado = 'error'),
	       COALESCE(COUNT(*) FILTER (WHERE estado != 'error') * 100.0 / NULLIF(COUNT(*), 0), 0)
	FROM facturas ` + pb.Where() + `
	GROUP BY procesado_por
	ORDER BY COUNT(*) DESC`

	prows, err := r.q.Query(ctx, procesador, pb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("reporte ocr procesador: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		var p dto.OCRProcesador
		if err := prows.Scan(&p.ProcesadoPor, &p.TotalProcesadas, &p.ConfianzaPromedio, &p.AltaConfianza, &p.Errores, &p.TasaExito); err != nil {
			return nil, fmt.Errorf("scan ocr procesador: %w", err)
		}
		rep.PorProcesador = append(rep.PorProcesador, p)
	}
	return rep, prows.Err()
}

// ActividadEmisores agrega la actividad por emisor en el período y detecta
// emisores nuevos. El umbral de actividad va en HAVING con parámetros propios,
// numerados a continuación de los del WHERE.
func (r *ReporteRepo) ActividadEmisores(ctx context.Context, filtro dto.PeriodoFilter, minFacturas int) (*dto.ReporteActividadEmisores, error) {
	b := periodoPredicados(filtro)
	b.And("emisor_ruc IS NOT NULL")
	h := b.Extend()
	h.And("COUNT(*) >= ?", minFacturas)

	actividad := `
	SELECT emisor_ruc, MAX(COALESCE(emisor_nombre, '')),
	       COUNT(*),
	       COALESCE(SUM(total), 0),
	       COALESCE(AVG(total), 0),
	       to_char(MIN(fecha_factura), 'YYYY-MM-DD'),
	       to_char(MAX(fecha_factura), 'YYYY-MM-DD'),
	       COALESCE(MAX(fecha_factura) - MIN(fecha_factura) + 1, 0),
	       COUNT(DISTINCT fecha_factura),
	       COALESCE(COUNT(DISTINCT fecha_factura) * 100.0 / NULLIF(MAX(fecha_factura) - MIN(fecha_factura) + 1, 0), 0),
	       COALESCE(AVG(confianza_ocr), 0),
	       COUNT(*) FILTER (WHERE estado = 'error')
	FROM facturas ` + b.Where() + `
	GROUP BY emisor_ruc ` + h.Having() + `
	ORDER BY COUNT(*) DESC`

	rep := &dto.ReporteActividadEmisores{
		ActividadEmisores: []dto.EmisorActividad{},
		EmisoresNuevos:    []dto.EmisorNuevo{},
	}
	rows, err := r.q.Query(ctx, actividad, append(b.Args(), h.Args()...)...)
	if err != nil {
		return nil, fmt.Errorf("actividad emisores: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a dto.EmisorActividad
		var primera, ultima *string
		if err := rows.Scan(
			&a.EmisorRUC, &a.EmisorNombre, &a.TotalFacturas, &a.MontoTotal, &a.PromedioFactura,
			&primera, &ultima, &a.DiasActivo, &a.DiasConFacturas, &a.FrecuenciaFacturacion,
			&a.ConfianzaPromedio, &a.FacturasError,
		); err != nil {
			return nil, fmt.Errorf("scan actividad emisor: %w", err)
		}
		a.PrimeraFactura = derefStr(primera)
		a.UltimaFactura = derefStr(ultima)
		rep.ActividadEmisores = append(rep.ActividadEmisores, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Emisores nuevos: su primera factura histórica cae dentro del período.
	// El WHERE no filtra por fecha (se necesita el MIN histórico); el corte
	// de período va en HAVING.
	nb := listquery.NewBuilder()
	if filtro.EmpresaID != "" {
		nb.Scope("empresa_id", filtro.EmpresaID)
	}
	nb.And("emisor_ruc IS NOT NULL")
	nb.And("estado != 'eliminado'")
	nh := nb.Extend()
	if filtro.FechaInicio != "" {
		nh.And("MIN(fecha_factura) >= ?", filtro.FechaInicio)
	}
	if filtro.FechaFin != "" {
		nh.And("MIN(fecha_factura) <= ?", filtro.FechaFin)
	}

	nuevos := `
	SELECT emisor_ruc, MAX(COALESCE(emisor_nombre, '')),
	       to_char(MIN(fecha_factura), 'YYYY-MM-DD'), COUNT(*)
	FROM facturas ` + nb.Where() + `
	GROUP BY emisor_ruc ` + nh.Having() + `
	ORDER BY MIN(fecha_factura) DESC`

	nrows, err := r.q.Query(ctx, nuevos, append(nb.Args(), nh.Args()...)...)
	if err != nil {
		return nil, fmt.Errorf("emisores nuevos: %w", err)
	}
	defer nrows.Close()
	for nrows.Next() {
		var n dto.EmisorNuevo
		var primera *string
		if err := nrows.Scan(&n.EmisorRUC, &n.EmisorNombre, &primera, &n.FacturasPeriodo); err != nil {
			return nil, fmt.Errorf("scan emisor nuevo: %w", err)
		}
		n.PrimeraFactura = derefStr(primera)
		rep.EmisoresNuevos = append(rep.EmisoresNuevos, n)
	}
	return rep, nrows.Err()
}

// ExportFacturas devuelve las filas de facturas para exportación, con las
// fechas ya formateadas.
func (r *ReporteRepo) ExportFacturas(ctx context.Context, filtro dto.PeriodoFilter, estado string) ([]dto.FacturaExport, error) {
	b := periodoPredicados(filtro)
	if estado != "" {
		b.And("estado = ?", estado)
	}

	query := `
	SELECT numero_factura,
	       COALESCE(emisor_nombre, ''), COALESCE(emisor_ruc, ''), COALESCE(receptor_nombre, ''),
	       COALESCE(to_char(fecha_factura, 'YYYY-MM-DD'), ''),
	       subtotal, descuento, itbms, total,
	       estado, confianza_ocr,
	       to_char(created_at, 'YYYY-MM-DD HH24:MI:SS')
	FROM facturas ` + b.Where() + `
	ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("export facturas: %w", err)
	}
	defer rows.Close()

	out := []dto.FacturaExport{}
	for rows.Next() {
		var f dto.FacturaExport
		if err := rows.Scan(
			&f.NumeroFactura, &f.EmisorNombre, &f.EmisorRUC, &f.ReceptorNombre,
			&f.FechaFactura, &f.Subtotal, &f.Descuento, &f.ITBMS, &f.Total,
			&f.Estado, &f.ConfianzaOCR, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan factura export: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ExportEmisores devuelve las filas agregadas de emisores para exportación.
func (r *ReporteRepo) ExportEmisores(ctx context.Context, filtro dto.PeriodoFilter) ([]dto.EmisorExport, error) {
	b := periodoPredicados(filtro)
	b.And("emisor_ruc IS NOT NULL")

	query := `
	SELECT emisor_ruc, MAX(COALESCE(emisor_nombre, '')),
	       MAX(COALESCE(emisor_direccion, '')), MAX(COALESCE(emisor_telefono, '')),
	       COUNT(*), COALESCE(SUM(total), 0) AS monto_total, COALESCE(AVG(total), 0),
	       COALESCE(to_char(MIN(fecha_factura), 'YYYY-MM-DD'), ''),
	       COALESCE(to_char(MAX(fecha_factura), 'YYYY-MM-DD'), '')
	FROM facturas ` + b.Where() + `
	GROUP BY emisor_ruc
	ORDER BY monto_total DESC`

	rows, err := r.q.Query(ctx, query, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("export emisores: %w", err)
	}
	defer rows.Close()

	out := []dto.EmisorExport{}
	for rows.Next() {
		var e dto.EmisorExport
		if err := rows.Scan(
			&e.EmisorRUC, &e.EmisorNombre, &e.EmisorDireccion, &e.EmisorTelefono,
			&e.TotalFacturas, &e.MontoTotal, &e.PromedioFactura,
			&e.PrimeraFactura, &e.UltimaFactura,
		); err != nil {
			return nil, fmt.Errorf("scan emisor export: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
