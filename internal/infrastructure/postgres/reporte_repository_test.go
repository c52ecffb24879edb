package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupocodev/facturas-api/internal/application/dto"
)

// El WHERE de período comparte forma en todos los reportes: alcance, no
// eliminadas y filtros opcionales en orden fijo.
func TestPeriodoPredicados(t *testing.T) {
	b := periodoPredicados(dto.PeriodoFilter{
		EmpresaID:   "emp-1",
		FechaInicio: "2024-01-01",
		FechaFin:    "2024-06-30",
		EmisorRUC:   "8-123-456",
	})

	assert.Equal(t,
		"WHERE empresa_id = $1 AND estado != 'eliminado' AND fecha_factura >= $2 AND fecha_factura <= $3 AND emisor_ruc = $4",
		b.Where())
	assert.Equal(t, []any{"emp-1", "2024-01-01", "2024-06-30", "8-123-456"}, b.Args())
}

// Sin período ni emisor: queda el alcance y el predicado base.
func TestPeriodoPredicados_SoloEmpresa(t *testing.T) {
	b := periodoPredicados(dto.PeriodoFilter{EmpresaID: "emp-2"})

	assert.Equal(t, "WHERE empresa_id = $1 AND estado != 'eliminado'", b.Where())
	assert.Equal(t, []any{"emp-2"}, b.Args())
}

// El HAVING de actividad numera sus parámetros a continuación del WHERE:
// nunca se reutiliza el mismo slice para ambas cláusulas.
func TestActividad_HavingContinuaNumeracion(t *testing.T) {
	b := periodoPredicados(dto.PeriodoFilter{
		EmpresaID:   "emp-1",
		FechaInicio: "2024-01-01",
		FechaFin:    "2024-12-31",
	})
	b.And("emisor_ruc IS NOT NULL")
	h := b.Extend()
	h.And("COUNT(*) >= ?", 3)

	require.Equal(t, "HAVING COUNT(*) >= $4", h.Having())

	all := append(b.Args(), h.Args()...)
	assert.Equal(t, []any{"emp-1", "2024-01-01", "2024-12-31", 3}, all)
}

// Toda agrupación permitida tiene expresión SQL; lo desconocido cae a mes.
func TestVentasAgrupaciones(t *testing.T) {
	for _, g := range []string{dto.AgruparDia, dto.AgruparSemana, dto.AgruparMes, dto.AgruparAnio} {
		_, ok := ventasAgrupaciones[g]
		assert.True(t, ok, g)
	}
	_, ok := ventasAgrupaciones["trimestre"]
	assert.False(t, ok)
}

// El filtro de emisores también antepone el alcance y excluye eliminadas.
func TestEmisorPredicados(t *testing.T) {
	b := emisorPredicados(dto.EmisorFilter{EmpresaID: "emp-1", Search: "%acme%"})

	assert.Equal(t,
		"WHERE empresa_id = $1 AND emisor_ruc IS NOT NULL AND estado != 'eliminado' AND (emisor_nombre ILIKE $2 OR emisor_ruc ILIKE $3)",
		b.Where())
	assert.Equal(t, []any{"emp-1", "%acme%", "%acme%"}, b.Args())
}
