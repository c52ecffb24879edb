package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Sin sortBy (o con uno desconocido) el listado de emisores ordena por
// cantidad de facturas, descendente.
func TestEmisorSort_PorDefecto(t *testing.T) {
	col, order := emisorSort.Resolve("", "")
	assert.Equal(t, "total_facturas", col)
	assert.Equal(t, "DESC", order)

	col, _ = emisorSort.Resolve("columna_inventada", "asc")
	assert.Equal(t, "total_facturas", col)
}

func TestEmisorSort_CamposPermitidos(t *testing.T) {
	for campo, columna := range map[string]string{
		"emisor_nombre":    "emisor_nombre",
		"total_facturas":   "total_facturas",
		"monto_total":      "monto_total",
		"promedio_factura": "promedio_factura",
		"ultima_factura":   "ultima_factura",
	} {
		col, _ := emisorSort.Resolve(campo, "desc")
		assert.Equal(t, columna, col)
	}
}

func TestEmpresaSort_CamposPermitidos(t *testing.T) {
	for campo, columna := range map[string]string{
		"nombre":     "e.nombre",
		"ruc":        "e.ruc",
		"plan":       "e.plan",
		"created_at": "e.created_at",
		"updated_at": "e.updated_at",
	} {
		col, _ := empresaSort.Resolve(campo, "asc")
		assert.Equal(t, columna, col)
	}

	col, _ := empresaSort.Resolve("", "")
	assert.Equal(t, "e.created_at", col)
}
