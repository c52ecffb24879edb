package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/listquery"
)

// Sin filtros y sin alcance (super_admin): solo queda el predicado base que
// excluye eliminadas, sin parámetros.
func TestFacturaPredicados_SinFiltros(t *testing.T) {
	b := facturaPredicados(dto.FacturaFilter{})

	assert.Equal(t, "WHERE estado != 'eliminado'", b.Where())
	assert.Empty(t, b.Args())
}

// El alcance de empresa es siempre el primer predicado.
func TestFacturaPredicados_ScopePrimero(t *testing.T) {
	b := facturaPredicados(dto.FacturaFilter{
		EmpresaID: "emp-1",
		Estado:    "procesado",
	})

	assert.Equal(t, "WHERE empresa_id = $1 AND estado != 'eliminado' AND estado = $2", b.Where())
	assert.Equal(t, []any{"emp-1", "procesado"}, b.Args())
}

// Escenario completo: estado + fechas + montos; los parámetros de datos son
// los del COUNT más (limit, offset) al final.
func TestFacturaPredicados_EstadoFechasMontos(t *testing.T) {
	montoMin := 100.0
	montoMax := 500.0
	f := dto.FacturaFilter{
		EmpresaID:   "emp-1",
		Estado:      "procesado",
		FechaInicio: "2024-01-01",
		FechaFin:    "2024-12-31",
		MontoMin:    &montoMin,
		MontoMax:    &montoMax,
		Page:        listquery.NewPage(2, 25),
	}
	b := facturaPredicados(f)

	require.Equal(t,
		"WHERE empresa_id = $1 AND estado != 'eliminado' AND estado = $2 AND fecha_factura >= $3 AND fecha_factura <= $4 AND total >= $5 AND total <= $6",
		b.Where())

	frag, dataArgs := b.PageArgs(f.Page)
	assert.Equal(t, "LIMIT $7 OFFSET $8", frag)
	assert.Equal(t, []any{"emp-1", "procesado", "2024-01-01", "2024-12-31", 100.0, 500.0, 25, 25}, dataArgs)
	assert.Equal(t, b.Args(), dataArgs[:len(dataArgs)-2])
}

// El grupo de búsqueda consume cinco parámetros idénticos, uno por columna.
func TestFacturaPredicados_GrupoBusqueda(t *testing.T) {
	b := facturaPredicados(dto.FacturaFilter{Search: "%cable%"})

	args := b.Args()
	require.Len(t, args, 5)
	for _, a := range args {
		assert.Equal(t, "%cable%", a)
	}
	assert.Contains(t, b.Where(), "numero_factura ILIKE $1")
	assert.Contains(t, b.Where(), "email_subject ILIKE $5")
}

// Mismo filtro, mismo SQL y mismos parámetros: la construcción es determinista.
func TestFacturaPredicados_Determinista(t *testing.T) {
	conf := 80.0
	f := dto.FacturaFilter{
		EmpresaID:    "emp-9",
		Estado:       "error",
		EmisorRUC:    "8-123-456",
		ConfianzaMin: &conf,
		Search:       "%acme%",
	}
	a, b := facturaPredicados(f), facturaPredicados(f)

	assert.Equal(t, a.Where(), b.Where())
	assert.Equal(t, a.Args(), b.Args())
}

// Campos de orden desconocidos caen a la columna por defecto; nada de la
// entrada del cliente termina interpolado en el ORDER BY.
func TestFacturaSort_AllowList(t *testing.T) {
	assert.Equal(t, "ORDER BY created_at DESC", facturaSort.OrderBy("", ""))
	assert.Equal(t, "ORDER BY total ASC", facturaSort.OrderBy("total", "asc"))
	assert.Equal(t, "ORDER BY created_at ASC", facturaSort.OrderBy("created_at; DROP TABLE facturas", "asc"))
	assert.Equal(t, "ORDER BY fecha_factura DESC", facturaSort.OrderBy("fecha_factura", "descendente"))
}
