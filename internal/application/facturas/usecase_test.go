package facturas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/application/facturas"
)

// Los parámetros crudos ausentes o inválidos se descartan en silencio: el
// filtro resultante solo lleva lo que sí genera predicado.
func TestNormalizarFiltro_DescartaInvalidos(t *testing.T) {
	f := facturas.NormalizarFiltro("empresa-1", dto.FacturaListRequest{
		Search:       "   ",
		Estado:       "inventado", // fuera del conjunto cerrado de estados
		EmisorRUC:    "",
		FechaInicio:  "31-12-2024", // formato no ISO
		MontoMin:     "abc",
		ConfianzaMin: "-10", // por debajo del piso 0
	})

	assert.Equal(t, "empresa-1", f.EmpresaID)
	assert.Empty(t, f.Search)
	assert.Empty(t, f.Estado)
	assert.Empty(t, f.FechaInicio)
	assert.Nil(t, f.MontoMin)
	assert.Nil(t, f.ConfianzaMin)
}

func TestNormalizarFiltro_ValoresValidos(t *testing.T) {
	f := facturas.NormalizarFiltro("empresa-1", dto.FacturaListRequest{
		Page:         2,
		Limit:        50,
		Search:       "  Acme ",
		Estado:       "procesado",
		EmisorRUC:    "155-123",
		FechaInicio:  "2024-01-01",
		FechaFin:     "2024-12-31",
		MontoMin:     "10.5",
		MontoMax:     "1000",
		ConfianzaMin: "80",
	})

	assert.Equal(t, "%Acme%", f.Search, "el término de búsqueda se recorta y envuelve")
	assert.Equal(t, "procesado", f.Estado)
	assert.Equal(t, "155-123", f.EmisorRUC)
	assert.Equal(t, "2024-01-01", f.FechaInicio)
	assert.Equal(t, "2024-12-31", f.FechaFin)
	assert.Equal(t, 10.5, *f.MontoMin)
	assert.Equal(t, 1000.0, *f.MontoMax)
	assert.Equal(t, 80.0, *f.ConfianzaMin)
	assert.Equal(t, 2, f.Page.Number())
	assert.Equal(t, 50, f.Page.Limit())
}

// "eliminado" es un estado interno, no un destino de filtro: el listado ya
// excluye eliminadas siempre y el filtro lo descarta.
func TestNormalizarFiltro_EstadoEliminadoNoFiltrable(t *testing.T) {
	f := facturas.NormalizarFiltro("", dto.FacturaListRequest{Estado: "eliminado"})
	assert.Empty(t, f.Estado)
}
