package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/domain"
	"github.com/grupocodev/facturas-api/internal/domain/entity"
	"github.com/grupocodev/facturas-api/internal/domain/repository"
	"github.com/grupocodev/facturas-api/internal/listquery"
)

var _ repository.EmisorRepository = (*EmisorRepo)(nil)

// emisorSort allow-list de orden del listado de emisores. Las columnas son
// alias de agregados del GROUP BY, válidos en ORDER BY.
var emisorSort = listquery.SortSet{
	Default: "total_facturas",
	Allowed: map[string]string{
		"emisor_nombre":    "emisor_nombre",
		"total_facturas":   "total_facturas",
		"monto_total":      "monto_total",
		"promedio_factura": "promedio_factura",
		"ultima_factura":   "ultima_factura",
	},
}

// emisorPredicados WHERE base de las consultas de emisores: solo facturas con
// RUC, nunca eliminadas, con alcance de empresa y búsqueda opcional.
func emisorPredicados(f dto.EmisorFilter) *listquery.Builder {
	b := listquery.NewBuilder()
	if f.EmpresaID != "" {
		b.Scope("empresa_id", f.EmpresaID)
	}
	b.And("emisor_ruc IS NOT NULL")
	b.And("estado != 'eliminado'")
	if f.Search != "" {
		b.And("(emisor_nombre ILIKE ? OR emisor_ruc ILIKE ?)", f.Search, f.Search)
	}
	return b
}

// EmisorRepo implementación de EmisorRepository sobre el GROUP BY de facturas.
type EmisorRepo struct {
	q Querier
}

// NewEmisorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEmisorRepository(q Querier) *EmisorRepo {
	return &EmisorRepo{q: q}
}

const emisorAgregados = `
	emisor_ruc,
	MAX(COALESCE(emisor_nombre, '')) AS emisor_nombre,
	MAX(COALESCE(emisor_direccion, '')) AS emisor_direccion,
	MAX(COALESCE(emisor_telefono, '')) AS emisor_telefono,
	COUNT(*) AS total_facturas,
	COALESCE(SUM(total), 0) AS monto_total,
	COALESCE(AVG(total), 0) AS promedio_factura,
	MIN(fecha_factura) AS primera_factura,
	MAX(fecha_factura) AS ultima_factura,
	MAX(created_at) AS ultimo_procesamiento,
	COUNT(*) FILTER (WHERE estado = 'pendiente') AS facturas_pendientes,
	COUNT(*) FILTER (WHERE estado = 'procesado') AS facturas_procesadas,
	COUNT(*) FILTER (WHERE estado = 'error') AS facturas_error,
	COUNT(*) FILTER (WHERE estado = 'revision') AS facturas_revisadas,
	COALESCE(AVG(confianza_ocr), 0) AS confianza_promedio,
	COALESCE(MIN(confianza_ocr), 0) AS confianza_minima,
	COALESCE(MAX(confianza_ocr), 0) AS confianza_maxima`

// List devuelve la página de emisores agregados y cuántos RUC distintos
// satisfacen los filtros.
func (r *EmisorRepo) List(ctx context.Context, filtro dto.EmisorFilter) ([]entity.Emisor, int64, error) {
	b := emisorPredicados(filtro)
	limitFrag, dataArgs := b.PageArgs(filtro.Page)

	query := "SELECT" + emisorAgregados + `
	FROM facturas ` + b.Where() + `
	GROUP BY emisor_ruc ` +
		emisorSort.OrderBy(filtro.SortBy, filtro.SortOrder) + " " + limitFrag

	rows, err := r.q.Query(ctx, query, dataArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list emisores: %w", err)
	}
	defer rows.Close()

	var emisores []entity.Emisor
	for rows.Next() {
		var e entity.Emisor
		if err := scanEmisor(rows, &e); err != nil {
			return nil, 0, err
		}
		emisores = append(emisores, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery := "SELECT COUNT(DISTINCT emisor_ruc) FROM facturas " + b.Where()
	if err := r.q.QueryRow(ctx, countQuery, b.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count emisores: %w", err)
	}
	return emisores, total, nil
}

func scanEmisor(row pgx.Row, e *entity.Emisor) error {
	if err := row.Scan(
		&e.RUC, &e.Nombre, &e.Direccion, &e.Telefono,
		&e.TotalFacturas, &e.MontoTotal, &e.PromedioFactura,
		&e.PrimeraFactura, &e.UltimaFactura, &e.UltimoProcesamiento,
		&e.FacturasPendientes, &e.FacturasProcesadas, &e.FacturasError, &e.FacturasRevisadas,
		&e.ConfianzaPromedio, &e.ConfianzaMinima, &e.ConfianzaMaxima,
	); err != nil {
		return fmt.Errorf("scan emisor: %w", err)
	}
	return nil
}

// GetByRUC devuelve el agregado completo del emisor: estadísticas generales,
// serie mensual de los últimos 12 meses y productos más frecuentes.
func (r *EmisorRepo) GetByRUC(ctx context.Context, empresaID, ruc string) (*dto.EmisorDetalle, error) {
	b := listquery.NewBuilder()
	if empresaID != "" {
		b.Scope("empresa_id", empresaID)
	}
	b.And("emisor_ruc = ?", ruc)
	b.And("estado != 'eliminado'")

	query := "SELECT" + emisorAgregados + `
	FROM facturas ` + b.Where() + `
	GROUP BY emisor_ruc`

	var e entity.Emisor
	if err := scanEmisor(r.q.QueryRow(ctx, query, b.Args()...), &e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmisorNotFound
		}
		return nil, err
	}

	detalle := &dto.EmisorDetalle{
		EmisorResumen: dto.EmisorResumen{
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
		},
		FacturasProcesadas:    e.FacturasProcesadas,
		FacturasRevisadas:     e.FacturasRevisadas,
		ConfianzaMinima:       e.ConfianzaMinima,
		ConfianzaMaxima:       e.ConfianzaMaxima,
		EstadisticasMensuales: []dto.EmisorEstadisticaMensual{},
		TopProductos:          []dto.EmisorTopProducto{},
	}

	mb := listquery.NewBuilder()
	if empresaID != "" {
		mb.Scope("empresa_id", empresaID)
	}
	mb.And("emisor_ruc = ?", ruc)
	mb.And("estado != 'eliminado'")
	mb.And("fecha_factura >= NOW() - INTERVAL '12 months'")

	mensual := `
	SELECT to_char(fecha_factura, 'YYYY-MM') AS mes,
	       COUNT(*), COALESCE(SUM(total), 0), COALESCE(AVG(total), 0)
	FROM facturas ` + mb.Where() + `
	GROUP BY to_char(fecha_factura, 'YYYY-MM')
	ORDER BY mes DESC`

	rows, err := r.q.Query(ctx, mensual, mb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("estadisticas mensuales: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m dto.EmisorEstadisticaMensual
		if err := rows.Scan(&m.Mes, &m.CantidadFacturas, &m.MontoTotal, &m.PromedioFactura); err != nil {
			return nil, fmt.Errorf("scan estadistica mensual: %w", err)
		}
		detalle.EstadisticasMensuales = append(detalle.EstadisticasMensuales, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pb := listquery.NewBuilder()
	if empresaID != "" {
		pb.Scope("f.empresa_id", empresaID)
	}
	pb.And("f.emisor_ruc = ?", ruc)
	pb.And("f.estado != 'eliminado'")
	pb.And("i.descripcion IS NOT NULL")

	productos := `
	SELECT i.descripcion, COUNT(*) AS frecuencia,
	       COALESCE(SUM(i.cantidad), 0), COALESCE(AVG(i.precio_unitario), 0)
	FROM factura_items i
	JOIN facturas f ON f.id = i.factura_id ` + pb.Where() + `
	GROUP BY i.descripcion
	ORDER BY frecuencia DESC
	LIMIT 10`

	prows, err := r.q.Query(ctx, productos, pb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("top productos: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		var p dto.EmisorTopProducto
		if err := prows.Scan(&p.Descripcion, &p.Frecuencia, &p.CantidadTotal, &p.PrecioPromedio); err != nil {
			return nil, fmt.Errorf("scan top producto: %w", err)
		}
		detalle.TopProductos = append(detalle.TopProductos, p)
	}
	return detalle, prows.Err()
}

// FacturasByEmisor lista las facturas de un emisor; mismos predicados y
// allow-list de orden que el listado general de facturas.
func (r *EmisorRepo) FacturasByEmisor(ctx context.Context, ruc string, filtro dto.FacturaFilter) ([]entity.Factura, int64, error) {
	filtro.EmisorRUC = ruc
	return NewFacturaRepository(r.q).List(ctx, filtro)
}

// Top devuelve el ranking de emisores por monto total en el período.
func (r *EmisorRepo) Top(ctx context.Context, empresaID string, limite int, fechaInicio, fechaFin string) ([]dto.EmisorTop, error) {
	b := listquery.NewBuilder()
	if empresaID != "" {
		b.Scope("empresa_id", empresaID)
	}
	b.And("emisor_ruc IS NOT NULL")
	b.And("estado != 'eliminado'")
	if fechaInicio != "" {
		b.And("fecha_factura >= ?", fechaInicio)
	}
	if fechaFin != "" {
		b.And("fecha_factura <= ?", fechaFin)
	}

	frag, args := b.PageArgs(listquery.NewPageSized(1, limite, limite))
	query := `
	SELECT emisor_ruc, MAX(COALESCE(emisor_nombre, '')),
	       COUNT(*), COALESCE(SUM(total), 0) AS monto_total,
	       COALESCE(AVG(total), 0), MAX(fecha_factura)
	FROM facturas ` + b.Where() + `
	GROUP BY emisor_ruc
	ORDER BY monto_total DESC ` + frag

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("top emisores: %w", err)
	}
	defer rows.Close()

	top := []dto.EmisorTop{}
	for rows.Next() {
		var t dto.EmisorTop
		var ultima *time.Time
		if err := rows.Scan(&t.EmisorRUC, &t.EmisorNombre, &t.TotalFacturas, &t.MontoTotal, &t.PromedioFactura, &ultima); err != nil {
			return nil, fmt.Errorf("scan top emisor: %w", err)
		}
		t.UltimaFactura = fechaISO(ultima)
		top = append(top, t)
	}
	return top, rows.Err()
}
