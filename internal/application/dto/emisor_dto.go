package dto

import (
	"github.com/grupocodev/facturas-api/internal/listquery"
	"github.com/shopspring/decimal"
)

// EmisorListRequest parámetros crudos del listado de emisores.
type EmisorListRequest struct {
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
	Search    string `query:"search"`
	SortBy    string `query:"sortBy"`
	SortOrder string `query:"sortOrder"`
}

// EmisorFilter filtros normalizados del listado de emisores.
type EmisorFilter struct {
	EmpresaID string
	Search    string // patrón %...%
	SortBy    string
	SortOrder string
	Page      listquery.Page
}

// EmisorResumen fila del listado de emisores (proyección agregada).
type EmisorResumen struct {
	EmisorRUC           string          `json:"emisor_ruc"`
	EmisorNombre        string          `json:"emisor_nombre"`
	EmisorDireccion     string          `json:"emisor_direccion,omitempty"`
	EmisorTelefono      string          `json:"emisor_telefono,omitempty"`
	TotalFacturas       int64           `json:"total_facturas"`
	MontoTotal          decimal.Decimal `json:"monto_total"`
	PromedioFactura     decimal.Decimal `json:"promedio_factura"`
	PrimeraFactura      string          `json:"primera_factura,omitempty"`
	UltimaFactura       string          `json:"ultima_factura,omitempty"`
	UltimoProcesamiento string          `json:"ultimo_procesamiento,omitempty"`
	FacturasPendientes  int64           `json:"facturas_pendientes"`
	FacturasError       int64           `json:"facturas_error"`
	ConfianzaPromedio   decimal.Decimal `json:"confianza_promedio"`
}

// EmisorEstadisticaMensual agregado mensual de un emisor.
type EmisorEstadisticaMensual struct {
	Mes              string          `json:"mes"` // YYYY-MM
	CantidadFacturas int64           `json:"cantidad_facturas"`
	MontoTotal       decimal.Decimal `json:"monto_total"`
	PromedioFactura  decimal.Decimal `json:"promedio_factura"`
}

// EmisorTopProducto producto/servicio frecuente de un emisor.
type EmisorTopProducto struct {
	Descripcion    string          `json:"descripcion"`
	Frecuencia     int64           `json:"frecuencia"`
	CantidadTotal  decimal.Decimal `json:"cantidad_total"`
	PrecioPromedio decimal.Decimal `json:"precio_promedio"`
}

// EmisorDetalle detalle completo de un emisor.
type EmisorDetalle struct {
	EmisorResumen
	FacturasProcesadas    int64                      `json:"facturas_procesadas"`
	FacturasRevisadas     int64                      `json:"facturas_revisadas"`
	ConfianzaMinima       decimal.Decimal            `json:"confianza_minima"`
	ConfianzaMaxima       decimal.Decimal            `json:"confianza_maxima"`
	EstadisticasMensuales []EmisorEstadisticaMensual `json:"estadisticas_mensuales"`
	TopProductos          []EmisorTopProducto        `json:"top_productos"`
}

// EmisorFacturasRequest listado de facturas de un emisor.
type EmisorFacturasRequest struct {
	Page        int    `query:"page"`
	Limit       int    `query:"limit"`
	Estado      string `query:"estado"`
	FechaInicio string `query:"fechaInicio"`
	FechaFin    string `query:"fechaFin"`
	SortBy      string `query:"sortBy"`
	SortOrder   string `query:"sortOrder"`
}

// EmisorTop entrada del ranking de emisores.
type EmisorTop struct {
	EmisorRUC       string          `json:"emisor_ruc"`
	EmisorNombre    string          `json:"emisor_nombre"`
	TotalFacturas   int64           `json:"total_facturas"`
	MontoTotal      decimal.Decimal `json:"monto_total"`
	PromedioFactura decimal.Decimal `json:"promedio_factura"`
	UltimaFactura   string          `json:"ultima_factura,omitempty"`
}
