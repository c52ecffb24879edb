package reportes_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/application/reportes"
)

func TestCSV_Facturas(t *testing.T) {
	result := &dto.ExportResult{
		Tipo:    dto.ExportFacturas,
		Formato: reportes.FormatoCSV,
		Datos: []dto.FacturaExport{
			{
				NumeroFactura:  "F-001",
				EmisorNombre:   `Acme, S.A. "La Original"`, // comas y comillas: el writer debe escapar
				EmisorRUC:      "155-123",
				ReceptorNombre: "Cliente Uno",
				FechaFactura:   "2024-03-15",
				Subtotal:       decimal.RequireFromString("100.00"),
				Descuento:      decimal.RequireFromString("0"),
				ITBMS:          decimal.RequireFromString("7.00"),
				Total:          decimal.RequireFromString("107.00"),
				Estado:         "procesado",
				ConfianzaOCR:   decimal.RequireFromString("95.5"),
				CreatedAt:      "2024-03-15 10:00:00",
			},
		},
	}

	out, err := reportes.CSV(result)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2, "cabecera + una fila")
	assert.Equal(t,
		"numero_factura,emisor_nombre,emisor_ruc,receptor_nombre,fecha_factura,subtotal,descuento,itbms,total,estado,confianza_ocr,created_at",
		lines[0])
	assert.Contains(t, lines[1], `"Acme, S.A. ""La Original"""`,
		"los campos con comas y comillas deben quedar entre comillas escapadas")
	assert.Contains(t, lines[1], "107")
}

func TestCSV_Ventas(t *testing.T) {
	result := &dto.ExportResult{
		Tipo:    dto.ExportVentas,
		Formato: reportes.FormatoCSV,
		Datos: []dto.VentasPeriodo{
			{
				Periodo:         "2024-03",
				TotalFacturas:   12,
				TotalSubtotal:   decimal.RequireFromString("1200"),
				TotalDescuento:  decimal.RequireFromString("50"),
				TotalITBMS:      decimal.RequireFromString("84"),
				TotalVentas:     decimal.RequireFromString("1234"),
				PromedioFactura: decimal.RequireFromString("102.83"),
				VentaMinima:     decimal.RequireFromString("10"),
				VentaMaxima:     decimal.RequireFromString("500"),
				EmisoresActivos: 4,
			},
		},
	}

	out, err := reportes.CSV(result)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "2024-03,12,1200,50,84,1234,"),
		"el orden de columnas del detalle de ventas es estable")
}

// Datos sin serialización CSV definida (el reporte de dashboard, por ejemplo)
// no se exportan: el use case solo permite los cuatro tipos tabulares.
func TestCSV_TipoNoExportable(t *testing.T) {
	result := &dto.ExportResult{Datos: map[string]string{"x": "y"}}
	_, err := reportes.CSV(result)
	assert.Error(t, err)
}

func TestCSV_SinFilas(t *testing.T) {
	result := &dto.ExportResult{
		Tipo:    dto.ExportEmisores,
		Formato: reportes.FormatoCSV,
		Datos:   []dto.EmisorExport{},
	}

	out, err := reportes.CSV(result)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 1, "sin filas queda solo la cabecera")
	assert.Equal(t,
		"emisor_ruc,emisor_nombre,emisor_direccion,emisor_telefono,total_facturas,monto_total,promedio_factura,primera_factura,ultima_factura",
		lines[0])
}
