package listquery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var facturaSort = SortSet{
	Default: "created_at",
	Allowed: map[string]string{
		"created_at":     "created_at",
		"fecha_factura":  "fecha_factura",
		"total":          "total",
		"numero_factura": "numero_factura",
		"emisor_nombre":  "emisor_nombre",
		"confianza_ocr":  "confianza_ocr",
	},
}

func TestSortSet_CampoPermitido(t *testing.T) {
	col, order := facturaSort.Resolve("total", "asc")
	assert.Equal(t, "total", col)
	assert.Equal(t, "ASC", order)
}

func TestSortSet_CampoDesconocidoCaeAlDefault(t *testing.T) {
	for _, in := range []string{"", "DROP TABLE", "total; --", "precio"} {
		col, _ := facturaSort.Resolve(in, "DESC")
		assert.Equal(t, "created_at", col, "Resolve(%q)", in)
		// La entrada cruda jamás aparece en el identificador resuelto.
		if in != "" {
			assert.NotContains(t, col, in)
		}
	}
}

func TestSortSet_DireccionNormalizada(t *testing.T) {
	cases := map[string]string{
		"ASC":      "ASC",
		"asc":      "ASC",
		" Asc ":    "ASC",
		"DESC":     "DESC",
		"desc":     "DESC",
		"":         "DESC",
		"sideways": "DESC",
	}
	for in, want := range cases {
		_, order := facturaSort.Resolve("total", in)
		assert.Equal(t, want, order, "dir=%q", in)
	}
}

func TestSortSet_OrderBy(t *testing.T) {
	clause := facturaSort.OrderBy("DROP TABLE facturas", "ASC")
	assert.Equal(t, "ORDER BY created_at ASC", clause)
	assert.False(t, strings.Contains(clause, "DROP"))
}
