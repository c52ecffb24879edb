package listquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sin filtros activos: WHERE vacío (tautología) y cero parámetros.
func TestBuilder_SinFiltros(t *testing.T) {
	b := NewBuilder()

	assert.True(t, b.Empty())
	assert.Equal(t, "", b.Where())
	assert.Empty(t, b.Args())

	frag, args := b.PageArgs(NewPage(1, 25))
	assert.Equal(t, "LIMIT $1 OFFSET $2", frag)
	assert.Equal(t, []any{25, 0}, args)
}

// Escenario del listado de facturas: estado + rango de fechas.
// Los parámetros de datos son los del COUNT más (limit, offset) al final.
func TestBuilder_EstadoYRangoFechas(t *testing.T) {
	b := NewBuilder()
	b.And("estado = ?", "procesado")
	b.And("fecha_factura >= ?", "2024-01-01")
	b.And("fecha_factura <= ?", "2025-12-31")

	require.Equal(t, "WHERE estado = $1 AND fecha_factura >= $2 AND fecha_factura <= $3", b.Where())
	assert.Equal(t, []any{"procesado", "2024-01-01", "2025-12-31"}, b.Args())

	frag, dataArgs := b.PageArgs(NewPage(1, 25))
	assert.Equal(t, "LIMIT $4 OFFSET $5", frag)
	assert.Equal(t, []any{"procesado", "2024-01-01", "2025-12-31", 25, 0}, dataArgs)

	// Paridad: dataArgs sin el par final == countArgs, preservando el orden.
	assert.Equal(t, b.Args(), dataArgs[:len(dataArgs)-2])
}

// Un grupo OR de búsqueda consume varios parámetros de un mismo fragmento:
// 4 columnas + subconsulta EXISTS sobre items = 5 comodines idénticos.
func TestBuilder_GrupoBusqueda(t *testing.T) {
	pattern := "%cable%"
	b := NewBuilder()
	b.And(`(numero_factura LIKE ? OR emisor_nombre LIKE ? OR receptor_nombre LIKE ? OR emisor_ruc LIKE ? OR EXISTS (
		SELECT 1 FROM factura_items fi WHERE fi.factura_id = facturas.id AND fi.descripcion LIKE ?))`,
		pattern, pattern, pattern, pattern, pattern)

	args := b.Args()
	require.Len(t, args, 5)
	for _, a := range args {
		assert.Equal(t, pattern, a)
	}
	// Renumeración izquierda a derecha dentro del fragmento.
	assert.Contains(t, b.Where(), "numero_factura LIKE $1")
	assert.Contains(t, b.Where(), "emisor_ruc LIKE $4")
	assert.Contains(t, b.Where(), "fi.descripcion LIKE $5")
}

// El predicado de tenant va siempre primero.
func TestBuilder_ScopePrimero(t *testing.T) {
	b := NewBuilder()
	b.Scope("empresa_id", "emp-1")
	b.And("estado = ?", "pendiente")

	assert.Equal(t, "WHERE empresa_id = $1 AND estado = $2", b.Where())
	assert.Equal(t, []any{"emp-1", "pendiente"}, b.Args())
}

// Idempotencia: construir dos veces con los mismos filtros produce SQL
// byte-idéntico y los mismos parámetros en el mismo orden.
func TestBuilder_Determinista(t *testing.T) {
	build := func() *Builder {
		b := NewBuilder()
		b.Scope("empresa_id", "emp-9")
		b.And("estado = ?", "error")
		b.And("total >= ?", 10.5)
		b.And("confianza_ocr >= ?", 80.0)
		return b
	}
	a, bb := build(), build()

	assert.Equal(t, a.Where(), bb.Where())
	assert.Equal(t, a.Args(), bb.Args())

	fragA, argsA := a.PageArgs(NewPage(3, 50))
	fragB, argsB := bb.PageArgs(NewPage(3, 50))
	assert.Equal(t, fragA, fragB)
	assert.Equal(t, argsA, argsB)
}

// Fragmentos sin marcadores (predicados base) no consumen parámetros.
func TestBuilder_PredicadoSinParametros(t *testing.T) {
	b := NewBuilder()
	b.And("emisor_ruc IS NOT NULL AND emisor_ruc <> ''")
	b.And("emisor_ruc = ?", "8-123-456")

	assert.Equal(t, "WHERE emisor_ruc IS NOT NULL AND emisor_ruc <> '' AND emisor_ruc = $1", b.Where())
	assert.Equal(t, []any{"8-123-456"}, b.Args())
}

// Extend: un HAVING que comparte consulta continúa la numeración del WHERE
// con sus propios parámetros, en vez de reutilizar el mismo slice dos veces.
func TestBuilder_ExtendParaHaving(t *testing.T) {
	where := NewBuilder()
	where.And("fecha_factura >= ?", "2024-01-01")
	where.And("fecha_factura <= ?", "2024-12-31")

	having := where.Extend()
	having.And("MIN(fecha_factura) >= ?", "2024-01-01")
	having.And("MIN(fecha_factura) <= ?", "2024-12-31")

	assert.Equal(t, "WHERE fecha_factura >= $1 AND fecha_factura <= $2", where.Where())
	assert.Equal(t, "HAVING MIN(fecha_factura) >= $3 AND MIN(fecha_factura) <= $4", having.Having())

	all := append(where.Args(), having.Args()...)
	assert.Equal(t, []any{"2024-01-01", "2024-12-31", "2024-01-01", "2024-12-31"}, all)
}

// PageArgs sobre un Builder extendido numera limit/offset después de todo.
func TestBuilder_ExtendNumeracionPageArgs(t *testing.T) {
	where := NewBuilder()
	where.And("estado = ?", "procesado")

	having := where.Extend()
	having.And("COUNT(*) > ?", 0)

	frag, args := having.PageArgs(NewPage(2, 10))
	assert.Equal(t, "LIMIT $3 OFFSET $4", frag)
	assert.Equal(t, []any{0, 10, 10}, args)
}
