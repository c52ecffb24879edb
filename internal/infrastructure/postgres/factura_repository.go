package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/domain"
	"github.com/grupocodev/facturas-api/internal/domain/entity"
	"github.com/grupocodev/facturas-api/internal/domain/repository"
	"github.com/grupocodev/facturas-api/internal/listquery"
)

var _ repository.FacturaRepository = (*FacturaRepo)(nil)

// facturaSort allow-list de columnas de orden del listado de facturas.
var facturaSort = listquery.SortSet{
	Default: "created_at",
	Allowed: map[string]string{
		"created_at":     "created_at",
		"fecha_factura":  "fecha_factura",
		"numero_factura": "numero_factura",
		"emisor_nombre":  "emisor_nombre",
		"total":          "total",
		"estado":         "estado",
		"confianza_ocr":  "confianza_ocr",
	},
}

// facturaPredicados ensambla el WHERE del listado a partir del filtro ya
// normalizado. El alcance de empresa va primero; las facturas eliminadas
// quedan siempre fuera. Función pura: mismo filtro, mismo SQL y parámetros.
func facturaPredicados(f dto.FacturaFilter) *listquery.Builder {
	b := listquery.NewBuilder()
	if f.EmpresaID != "" {
		b.Scope("empresa_id", f.EmpresaID)
	}
	b.And("estado != 'eliminado'")
	if f.Estado != "" {
		b.And("estado = ?", f.Estado)
	}
	if f.EmisorRUC != "" {
		b.And("emisor_ruc = ?", f.EmisorRUC)
	}
	if f.FechaInicio != "" {
		b.And("fecha_factura >= ?", f.FechaInicio)
	}
	if f.FechaFin != "" {
		b.And("fecha_factura <= ?", f.FechaFin)
	}
	if f.MontoMin != nil {
		b.And("total >= ?", *f.MontoMin)
	}
	if f.MontoMax != nil {
		b.And("total <= ?", *f.MontoMax)
	}
	if f.ConfianzaMin != nil {
		b.And("confianza_ocr >= ?", *f.ConfianzaMin)
	}
	if f.Search != "" {
		b.And("(numero_factura ILIKE ? OR emisor_nombre ILIKE ? OR emisor_ruc ILIKE ? OR receptor_nombre ILIKE ? OR email_subject ILIKE ?)",
			f.Search, f.Search, f.Search, f.Search, f.Search)
	}
	return b
}

// FacturaRepo implementación de FacturaRepository (usable con pool o tx).
type FacturaRepo struct {
	q Querier
}

// NewFacturaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFacturaRepository(q Querier) *FacturaRepo {
	return &FacturaRepo{q: q}
}

const facturaColumnasResumen = `
	id, COALESCE(empresa_id::text, ''), numero_factura,
	COALESCE(emisor_nombre, ''), COALESCE(emisor_ruc, ''), COALESCE(receptor_nombre, ''),
	fecha_factura, subtotal, descuento, itbms, total,
	estado, confianza_ocr, COALESCE(procesado_por, ''), created_at, updated_at`

// List devuelve la página de facturas y el total bajo los mismos filtros.
// Página y conteo son dos consultas independientes sin transacción: el total
// puede variar entre ambas y el sobre de paginación lo tolera.
func (r *FacturaRepo) List(ctx context.Context, filtro dto.FacturaFilter) ([]entity.Factura, int64, error) {
	b := facturaPredicados(filtro)
	limitFrag, dataArgs := b.PageArgs(filtro.Page)

	query := "SELECT" + facturaColumnasResumen + `
	FROM facturas ` + b.Where() + " " +
		facturaSort.OrderBy(filtro.SortBy, filtro.SortOrder) + " " + limitFrag

	rows, err := r.q.Query(ctx, query, dataArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list facturas: %w", err)
	}
	defer rows.Close()

	facturas, err := scanFacturasResumen(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM facturas " + b.Where()
	if err := r.q.QueryRow(ctx, countQuery, b.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count facturas: %w", err)
	}
	return facturas, total, nil
}

// Search búsqueda avanzada. A diferencia del listado, el término entra en un
// grupo OR que incluye un EXISTS sobre las descripciones de los items, y el
// orden es por relevancia: número de factura, luego emisor, luego el resto.
// Los placeholders del CASE continúan la numeración del WHERE (Extend).
func (r *FacturaRepo) Search(ctx context.Context, filtro dto.FacturaFilter) ([]entity.Factura, int64, error) {
	b := listquery.NewBuilder()
	if filtro.EmpresaID != "" {
		b.Scope("empresa_id", filtro.EmpresaID)
	}
	b.And("estado != 'eliminado'")
	if filtro.Estado != "" {
		b.And("estado = ?", filtro.Estado)
	}
	if filtro.EmisorRUC != "" {
		b.And("emisor_ruc = ?", filtro.EmisorRUC)
	}
	if filtro.Search != "" {
		b.And(`(numero_factura ILIKE ? OR emisor_nombre ILIKE ? OR receptor_nombre ILIKE ? OR emisor_ruc ILIKE ?
		   OR EXISTS (SELECT 1 FROM factura_items i WHERE i.factura_id = facturas.id AND i.descripcion ILIKE ?))`,
			filtro.Search, filtro.Search, filtro.Search, filtro.Search, filtro.Search)
	}

	orden := "ORDER BY created_at DESC"
	o := b.Extend()
	if filtro.Search != "" {
		o.And("CASE WHEN numero_factura ILIKE ? THEN 1 WHEN emisor_nombre ILIKE ? THEN 2 ELSE 3 END",
			filtro.Search, filtro.Search)
		orden = "ORDER BY " + o.Conditions() + ", created_at DESC"
	}
	limitFrag, pageArgs := o.PageArgs(filtro.Page)

	query := "SELECT" + facturaColumnasResumen + `
	FROM facturas ` + b.Where() + " " + orden + " " + limitFrag

	rows, err := r.q.Query(ctx, query, append(b.Args(), pageArgs...)...)
	if err != nil {
		return nil, 0, fmt.Errorf("search facturas: %w", err)
	}
	defer rows.Close()

	facturas, err := scanFacturasResumen(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM facturas " + b.Where()
	if err := r.q.QueryRow(ctx, countQuery, b.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count search: %w", err)
	}
	return facturas, total, nil
}

func scanFacturasResumen(rows pgx.Rows) ([]entity.Factura, error) {
	var out []entity.Factura
	for rows.Next() {
		var f entity.Factura
		if err := rows.Scan(
			&f.ID, &f.EmpresaID, &f.NumeroFactura,
			&f.EmisorNombre, &f.EmisorRUC, &f.ReceptorNombre,
			&f.FechaFactura, &f.Subtotal, &f.Descuento, &f.ITBMS, &f.Total,
			&f.Estado, &f.ConfianzaOCR, &f.ProcesadoPor, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan factura: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetByID obtiene la factura completa. Las eliminadas no existen para esta consulta.
func (r *FacturaRepo) GetByID(ctx context.Context, empresaID, id string) (*entity.Factura, error) {
	b := listquery.NewBuilder()
	if empresaID != "" {
		b.Scope("empresa_id", empresaID)
	}
	b.And("id = ?", id)
	b.And("estado != 'eliminado'")

	query := `
	SELECT id, COALESCE(empresa_id::text, ''),
	       COALESCE(email_from, ''), COALESCE(email_subject, ''), email_date, COALESCE(s3_key, ''),
	       COALESCE(emisor_nombre, ''), COALESCE(emisor_ruc, ''), COALESCE(emisor_direccion, ''), COALESCE(emisor_telefono, ''),
	       COALESCE(receptor_nombre, ''), COALESCE(receptor_ruc, ''), COALESCE(receptor_direccion, ''),
	       numero_factura, fecha_factura,
	       subtotal, descuento, itbms, total,
	       estado, confianza_ocr, COALESCE(procesado_por, ''), created_at, updated_at
	FROM facturas ` + b.Where()

	var f entity.Factura
	err := r.q.QueryRow(ctx, query, b.Args()...).Scan(
		&f.ID, &f.EmpresaID,
		&f.EmailFrom, &f.EmailSubject, &f.EmailDate, &f.S3Key,
		&f.EmisorNombre, &f.EmisorRUC, &f.EmisorDireccion, &f.EmisorTelefono,
		&f.ReceptorNombre, &f.ReceptorRUC, &f.ReceptorDireccion,
		&f.NumeroFactura, &f.FechaFactura,
		&f.Subtotal, &f.Descuento, &f.ITBMS, &f.Total,
		&f.Estado, &f.ConfianzaOCR, &f.ProcesadoPor, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFacturaNotFound
		}
		return nil, fmt.Errorf("get factura: %w", err)
	}
	return &f, nil
}

// GetItems devuelve las líneas de detalle, verificando la pertenencia de la
// factura a la empresa en la misma consulta.
func (r *FacturaRepo) GetItems(ctx context.Context, empresaID, facturaID string) ([]entity.FacturaItem, error) {
	b := listquery.NewBuilder()
	if empresaID != "" {
		b.Scope("f.empresa_id", empresaID)
	}
	b.And("i.factura_id = ?", facturaID)

	query := `
	SELECT i.id, i.factura_id, COALESCE(i.descripcion, ''), COALESCE(i.codigo, ''),
	       i.cantidad, i.precio_unitario, i.descuento_item, i.impuesto_item, i.total_item
	FROM factura_items i
	JOIN facturas f ON f.id = i.factura_id ` + b.Where() + `
	ORDER BY i.id`

	rows, err := r.q.Query(ctx, query, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var out []entity.FacturaItem
	for rows.Next() {
		var it entity.FacturaItem
		if err := rows.Scan(
			&it.ID, &it.FacturaID, &it.Descripcion, &it.Codigo,
			&it.Cantidad, &it.PrecioUnitario, &it.DescuentoItem, &it.ImpuestoItem, &it.TotalItem,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// GetArchivos devuelve los adjuntos de la factura.
func (r *FacturaRepo) GetArchivos(ctx context.Context, empresaID, facturaID string) ([]entity.FacturaArchivo, error) {
	b := listquery.NewBuilder()
	if empresaID != "" {
		b.Scope("f.empresa_id", empresaID)
	}
	b.And("a.factura_id = ?", facturaID)

	query := `
	SELECT a.id, a.factura_id, COALESCE(a.nombre, ''), COALESCE(a.mime_type, ''),
	       COALESCE(a.s3_key, ''), COALESCE(a.tamano_bytes, 0), a.created_at
	FROM factura_archivos a
	JOIN facturas f ON f.id = a.factura_id ` + b.Where() + `
	ORDER BY a.created_at`

	rows, err := r.q.Query(ctx, query, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list archivos: %w", err)
	}
	defer rows.Close()

	var out []entity.FacturaArchivo
	for rows.Next() {
		var a entity.FacturaArchivo
		if err := rows.Scan(&a.ID, &a.FacturaID, &a.Nombre, &a.MimeType, &a.S3Key, &a.TamanoB, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan archivo: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetLogs devuelve los últimos eventos de procesamiento, el más reciente primero.
func (r *FacturaRepo) GetLogs(ctx context.Context, empresaID, facturaID string, limite int) ([]entity.ProcesamientoLog, error) {
	b := listquery.NewBuilder()
	if empresaID != "" {
		b.Scope("f.empresa_id", empresaID)
	}
	b.And("l.factura_id = ?", facturaID)

	query := `
	SELECT l.id, l.factura_id, l.tipo_evento, COALESCE(l.mensaje, ''), COALESCE(l.detalles::text, ''), l.created_at
	FROM procesamiento_logs l
	JOIN facturas f ON f.id = l.factura_id ` + b.Where() + `
	ORDER BY l.created_at DESC
	LIMIT ` + fmt.Sprintf("%d", limite)

	rows, err := r.q.Query(ctx, query, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var out []entity.ProcesamientoLog
	for rows.Next() {
		var l entity.ProcesamientoLog
		if err := rows.Scan(&l.ID, &l.FacturaID, &l.TipoEvento, &l.Mensaje, &l.Detalles, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// UpdateEstado cambia el estado de la factura. Devuelve ErrFacturaNotFound si
// la factura no existe, está eliminada o pertenece a otra empresa.
func (r *FacturaRepo) UpdateEstado(ctx context.Context, empresaID, id, estado string) error {
	query := `UPDATE facturas SET estado = $1, updated_at = NOW() WHERE id = $2 AND estado != 'eliminado'`
	args := []any{estado, id}
	if empresaID != "" {
		query += " AND empresa_id = $3"
		args = append(args, empresaID)
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update estado: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFacturaNotFound
	}
	return nil
}

// InsertLog registra un evento de procesamiento.
func (r *FacturaRepo) InsertLog(ctx context.Context, log *entity.ProcesamientoLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	query := `
	INSERT INTO procesamiento_logs (id, factura_id, tipo_evento, mensaje, detalles, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		log.ID, log.FacturaID, log.TipoEvento, log.Mensaje, nullIfEmpty(log.Detalles), log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

// Suggestions devuelve emisores y números de factura que empiezan por el patrón.
func (r *FacturaRepo) Suggestions(ctx context.Context, empresaID, patron string, limite int) (*dto.Suggestions, error) {
	sug := &dto.Suggestions{
		Emisores:       []dto.Suggestion{},
		NumerosFactura: []dto.Suggestion{},
	}

	b := listquery.NewBuilder()
	if empresaID != "" {
		b.Scope("empresa_id", empresaID)
	}
	b.And("estado != 'eliminado'")
	b.And("emisor_nombre ILIKE ?", patron)

	frag, args := b.PageArgs(listquery.NewPageSized(1, limite, limite))
	query := `
	SELECT DISTINCT emisor_nombre, COALESCE(emisor_ruc, '')
	FROM facturas ` + b.Where() + `
	ORDER BY emisor_nombre ` + frag

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("suggestions emisores: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var nombre, ruc string
		if err := rows.Scan(&nombre, &ruc); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		sug.Emisores = append(sug.Emisores, dto.Suggestion{Label: nombre, Value: ruc, Type: "emisor"})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	nb := listquery.NewBuilder()
	if empresaID != "" {
		nb.Scope("empresa_id", empresaID)
	}
	nb.And("estado != 'eliminado'")
	nb.And("numero_factura ILIKE ?", patron)

	nfrag, nargs := nb.PageArgs(listquery.NewPageSized(1, limite, limite))
	nquery := `
	SELECT DISTINCT numero_factura
	FROM facturas ` + nb.Where() + `
	ORDER BY numero_factura ` + nfrag

	nrows, err := r.q.Query(ctx, nquery, nargs...)
	if err != nil {
		return nil, fmt.Errorf("suggestions numeros: %w", err)
	}
	defer nrows.Close()
	for nrows.Next() {
		var numero string
		if err := nrows.Scan(&numero); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		sug.NumerosFactura = append(sug.NumerosFactura, dto.Suggestion{Label: numero, Value: numero, Type: "numero_factura"})
	}
	return sug, nrows.Err()
}
