package postgres

import (
	"context"
	"fmt"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/domain/repository"
	"github.com/grupocodev/facturas-api/internal/listquery"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de lectura del dashboard. Solo agrega sobre
// facturas no eliminadas de la empresa.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// base WHERE de todas las consultas del dashboard.
func dashboardPredicados(empresaID string) *listquery.Builder {
	b := listquery.NewBuilder()
	if empresaID != "" {
		b.Scope("empresa_id", empresaID)
	}
	b.And("estado != 'eliminado'")
	return b
}

// Overview devuelve las métricas principales más las alertas activas.
func (r *DashboardRepo) Overview(ctx context.Context, empresaID string) (*dto.DashboardOverview, error) {
	b := dashboardPredicados(empresaID)

	query := `
	SELECT COUNT(*),
	       COUNT(*) FILTER (WHERE created_at >= date_trunc('month', NOW())),
	       COALESCE(SUM(total), 0),
	       COALESCE(SUM(total) FILTER (WHERE created_at >= date_trunc('month', NOW())), 0),
	       COALESCE(AVG(total), 0),
	       COUNT(*) FILTER (WHERE estado = 'pendiente'),
	       COUNT(*) FILTER (WHERE estado = 'procesado'),
	       COUNT(*) FILTER (WHERE estado = 'error'),
	       COUNT(*) FILTER (WHERE estado = 'revision'),
	       COALESCE(AVG(confianza_ocr), 0),
	       COUNT(DISTINCT emisor_ruc)
	FROM facturas ` + b.Where()

	var o dto.DashboardOverview
	err := r.q.QueryRow(ctx, query, b.Args()...).Scan(
		&o.TotalFacturas, &o.FacturasMesActual,
		&o.TotalMonto, &o.MontoMesActual, &o.PromedioFactura,
		&o.FacturasPendientes, &o.FacturasProcesadas, &o.FacturasError, &o.FacturasRevisadas,
		&o.ConfianzaOCRPromedio, &o.EmisoresActivos,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard overview: %w", err)
	}

	alertas, err := r.Alertas(ctx, empresaID)
	if err != nil {
		return nil, err
	}
	o.Alertas = alertas
	return &o, nil
}

// Alertas evalúa las condiciones de aviso: errores sin resolver, baja
// confianza de OCR y pendientes con más de una semana.
func (r *DashboardRepo) Alertas(ctx context.Context, empresaID string) ([]dto.Alerta, error) {
	b := dashboardPredicados(empresaID)

	query := `
	SELECT COUNT(*) FILTER (WHERE estado = 'error'),
	       COUNT(*) FILTER (WHERE estado = 'procesado' AND confianza_ocr < 70),
	       COUNT(*) FILTER (WHERE estado = 'pendiente' AND created_at < NOW() - INTERVAL '7 days')
	FROM facturas ` + b.Where()

	var errores, bajaConfianza, pendientesViejas int64
	if err := r.q.QueryRow(ctx, query, b.Args()...).Scan(&errores, &bajaConfianza, &pendientesViejas); err != nil {
		return nil, fmt.Errorf("dashboard alertas: %w", err)
	}

	alertas := []dto.Alerta{}
	if errores > 0 {
		alertas = append(alertas, dto.Alerta{
			Tipo:      "errores_procesamiento",
			Cantidad:  errores,
			Mensaje:   fmt.Sprintf("%d facturas con error de procesamiento", errores),
			Severidad: "error",
		})
	}
	if bajaConfianza > 0 {
		alertas = append(alertas, dto.Alerta{
			Tipo:      "baja_confianza",
			Cantidad:  bajaConfianza,
			Mensaje:   fmt.Sprintf("%d facturas procesadas con confianza OCR menor a 70%%", bajaConfianza),
			Severidad: "warning",
		})
	}
	if pendientesViejas > 0 {
		alertas = append(alertas, dto.Alerta{
			Tipo:      "pendientes_antiguas",
			Cantidad:  pendientesViejas,
			Mensaje:   fmt.Sprintf("%d facturas pendientes desde hace más de 7 días", pendientesViejas),
			Severidad: "warning",
		})
	}
	return alertas, nil
}

// Charts devuelve las series de los gráficos: serie mensual de los últimos
// `meses`, top de emisores, distribución por estado, actividad semanal y
// tendencia de confianza OCR de los últimos 30 días.
func (r *DashboardRepo) Charts(ctx context.Context, empresaID string, meses int) (*dto.DashboardCharts, error) {
	charts := &dto.DashboardCharts{
		FacturasPorMes:     []dto.PuntoMensual{},
		TopEmisores:        []dto.EmisorChart{},
		DistribucionEstado: []dto.EstadoChart{},
		ActividadSemanal:   []dto.DiaChart{},
		TendenciaOCR:       []dto.PuntoOCR{},
	}

	mb := dashboardPredicados(empresaID)
	mb.And("created_at >= NOW() - make_interval(months => ?)", meses)
	mensual := `
	SELECT to_char(created_at, 'YYYY-MM') AS mes, COUNT(*), COALESCE(SUM(total), 0)
	FROM facturas ` + mb.Where() + `
	GROUP BY to_char(created_at, 'YYYY-MM')
	ORDER BY mes`

	rows, err := r.q.Query(ctx, mensual, mb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("charts mensual: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p dto.PuntoMensual
		if err := rows.Scan(&p.Mes, &p.Cantidad, &p.MontoTotal); err != nil {
			return nil, fmt.Errorf("scan punto mensual: %w", err)
		}
		charts.FacturasPorMes = append(charts.FacturasPorMes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tb := dashboardPredicados(empresaID)
	tb.And("emisor_ruc IS NOT NULL")
	top := `
	SELECT MAX(COALESCE(emisor_nombre, '')), emisor_ruc, COUNT(*), COALESCE(SUM(total), 0) AS monto
	FROM facturas ` + tb.Where() + `
	GROUP BY emisor_ruc
	ORDER BY monto DESC
	LIMIT 5`

	trows, err := r.q.Query(ctx, top, tb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("charts top emisores: %w", err)
	}
	defer trows.Close()
	for trows.Next() {
		var e dto.EmisorChart
		if err := trows.Scan(&e.Emisor, &e.RUC, &e.Cantidad, &e.Monto); err != nil {
			return nil, fmt.Errorf("scan emisor chart: %w", err)
		}
		charts.TopEmisores = append(charts.TopEmisores, e)
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}

	eb := dashboardPredicados(empresaID)
	estados := `
	SELECT estado, COUNT(*),
	       ROUND(COUNT(*) * 100.0 / NULLIF(SUM(COUNT(*)) OVER (), 0), 2)
	FROM facturas ` + eb.Where() + `
	GROUP BY estado
	ORDER BY COUNT(*) DESC`

	erows, err := r.q.Query(ctx, estados, eb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("charts estados: %w", err)
	}
	defer erows.Close()
	for erows.Next() {
		var e dto.EstadoChart
		if err := erows.Scan(&e.Estado, &e.Cantidad, &e.Porcentaje); err != nil {
			return nil, fmt.Errorf("scan estado chart: %w", err)
		}
		charts.DistribucionEstado = append(charts.DistribucionEstado, e)
	}
	if err := erows.Err(); err != nil {
		return nil, err
	}

	db := dashboardPredicados(empresaID)
	db.And("created_at >= NOW() - INTERVAL '30 days'")
	dias := `
	SELECT trim(to_char(created_at, 'Day')), COUNT(*)
	FROM facturas ` + db.Where() + `
	GROUP BY trim(to_char(created_at, 'Day')), EXTRACT(DOW FROM created_at)
	ORDER BY EXTRACT(DOW FROM created_at)`

	drows, err := r.q.Query(ctx, dias, db.Args()...)
	if err != nil {
		return nil, fmt.Errorf("charts actividad semanal: %w", err)
	}
	defer drows.Close()
	for drows.Next() {
		var d dto.DiaChart
		if err := drows.Scan(&d.Dia, &d.Cantidad); err != nil {
			return nil, fmt.Errorf("scan dia chart: %w", err)
		}
		charts.ActividadSemanal = append(charts.ActividadSemanal, d)
	}
	if err := drows.Err(); err != nil {
		return nil, err
	}

	ob := dashboardPredicados(empresaID)
	ob.And("created_at >= NOW() - INTERVAL '30 days'")
	ob.And("confianza_ocr IS NOT NULL")
	ocr := `
	SELECT to_char(created_at, 'YYYY-MM-DD') AS fecha, COALESCE(AVG(confianza_ocr), 0), COUNT(*)
	FROM facturas ` + ob.Where() + `
	GROUP BY to_char(created_at, 'YYYY-MM-DD')
	ORDER BY fecha`

	orows, err := r.q.Query(ctx, ocr, ob.Args()...)
	if err != nil {
		return nil, fmt.Errorf("charts tendencia ocr: %w", err)
	}
	defer orows.Close()
	for orows.Next() {
		var p dto.PuntoOCR
		if err := orows.Scan(&p.Fecha, &p.Confianza, &p.Total); err != nil {
			return nil, fmt.Errorf("scan punto ocr: %w", err)
		}
		charts.TendenciaOCR = append(charts.TendenciaOCR, p)
	}
	return charts, orows.Err()
}

// Metrics devuelve el agregado de facturas bajo el filtro de período.
func (r *DashboardRepo) Metrics(ctx context.Context, filtro dto.PeriodoFilter) (*dto.DashboardMetrics, error) {
	b := periodoPredicados(filtro)

	query := `
	SELECT COUNT(*),
	       COALESCE(SUM(total), 0),
	       COALESCE(AVG(total), 0),
	       COALESCE(MIN(total), 0),
	       COALESCE(MAX(total), 0),
	       COALESCE(SUM(itbms), 0),
	       COALESCE(AVG(confianza_ocr), 0),
	       COUNT(DISTINCT emisor_ruc)
	FROM facturas ` + b.Where()

	var m dto.DashboardMetrics
	err := r.q.QueryRow(ctx, query, b.Args()...).Scan(
		&m.TotalFacturas, &m.MontoTotal, &m.PromedioFactura,
		&m.MontoMinimo, &m.MontoMaximo, &m.TotalITBMS,
		&m.ConfianzaPromedio, &m.EmisoresUnicos,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard metrics: %w", err)
	}
	return &m, nil
}

// Performance devuelve el tiempo promedio de procesamiento (creación a última
// actualización de las procesadas, en minutos) y los errores de los últimos 7 días.
func (r *DashboardRepo) Performance(ctx context.Context, empresaID string) (*dto.PerformanceStats, error) {
	b := dashboardPredicados(empresaID)
	b.And("estado = 'procesado'")

	query := `
	SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (updated_at - created_at)) / 60), 0), COUNT(*)
	FROM facturas ` + b.Where()

	var stats dto.PerformanceStats
	if err := r.q.QueryRow(ctx, query, b.Args()...).Scan(&stats.TiempoPromedioProcesamiento, &stats.TotalProcesadas); err != nil {
		return nil, fmt.Errorf("performance stats: %w", err)
	}
	stats.ErroresPorDia = []dto.ErroresDia{}

	eb := dashboardPredicados(empresaID)
	eb.And("estado = 'error'")
	eb.And("created_at >= NOW() - INTERVAL '7 days'")
	errores := `
	SELECT to_char(created_at, 'YYYY-MM-DD') AS fecha, COUNT(*)
	FROM facturas ` + eb.Where() + `
	GROUP BY to_char(created_at, 'YYYY-MM-DD')
	ORDER BY fecha`

	rows, err := r.q.Query(ctx, errores, eb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("errores por dia: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e dto.ErroresDia
		if err := rows.Scan(&e.Fecha, &e.Errores); err != nil {
			return nil, fmt.Errorf("scan errores dia: %w", err)
		}
		stats.ErroresPorDia = append(stats.ErroresPorDia, e)
	}
	return &stats, rows.Err()
}
