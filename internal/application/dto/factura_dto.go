package dto

import (
	"github.com/grupocodev/facturas-api/internal/listquery"
	"github.com/shopspring/decimal"
)

// FacturaListRequest parámetros crudos del query string del listado.
// Los campos numéricos de filtro llegan como string: la normalización
// (descartar vacíos/ inválidos en silencio) es responsabilidad del use case.
type FacturaListRequest struct {
	Page         int    `query:"page"`
	Limit        int    `query:"limit"`
	Search       string `query:"search"`
	Estado       string `query:"estado"`
	EmisorRUC    string `query:"emisorRuc"`
	FechaInicio  string `query:"fechaInicio"`
	FechaFin     string `query:"fechaFin"`
	MontoMin     string `query:"montoMin"`
	MontoMax     string `query:"montoMax"`
	ConfianzaMin string `query:"confianzaMin"`
	SortBy       string `query:"sortBy"`
	SortOrder    string `query:"sortOrder"`
}

// FacturaFilter filtros ya normalizados, listos para el ensamblador de
// predicados. Un puntero nil o string vacío significa "filtro ausente".
type FacturaFilter struct {
	EmpresaID    string // alcance multi-tenant; "" = sin alcance (super_admin)
	Search       string // patrón %...% ya envuelto
	Estado       string
	EmisorRUC    string
	FechaInicio  string // YYYY-MM-DD, comparación lexical
	FechaFin     string
	MontoMin     *float64
	MontoMax     *float64
	ConfianzaMin *float64
	SortBy       string
	SortOrder    string
	Page         listquery.Page
}

// FacturaResumen fila del listado de facturas.
type FacturaResumen struct {
	ID             string          `json:"id"`
	NumeroFactura  string          `json:"numero_factura"`
	EmisorNombre   string          `json:"emisor_nombre"`
	EmisorRUC      string          `json:"emisor_ruc"`
	ReceptorNombre string          `json:"receptor_nombre"`
	FechaFactura   string          `json:"fecha_factura"` // YYYY-MM-DD
	Subtotal       decimal.Decimal `json:"subtotal"`
	Descuento      decimal.Decimal `json:"descuento"`
	ITBMS          decimal.Decimal `json:"itbms"`
	Total          decimal.Decimal `json:"total"`
	Estado         string          `json:"estado"`
	ConfianzaOCR   decimal.Decimal `json:"confianza_ocr"`
	ProcesadoPor   string          `json:"procesado_por"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

// FacturaItemResponse línea de detalle.
type FacturaItemResponse struct {
	ID             string          `json:"id"`
	FacturaID      string          `json:"factura_id"`
	Descripcion    string          `json:"descripcion"`
	Codigo         string          `json:"codigo"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	DescuentoItem  decimal.Decimal `json:"descuento_item"`
	ImpuestoItem   decimal.Decimal `json:"impuesto_item"`
	TotalItem      decimal.Decimal `json:"total_item"`
}

// FacturaArchivoResponse adjunto de una factura.
type FacturaArchivoResponse struct {
	ID        string `json:"id"`
	FacturaID string `json:"factura_id"`
	Nombre    string `json:"nombre"`
	MimeType  string `json:"mime_type"`
	S3Key     string `json:"s3_key"`
	TamanoB   int64  `json:"tamano_bytes"`
	CreatedAt string `json:"created_at"`
}

// ProcesamientoLogResponse evento de procesamiento de una factura.
type ProcesamientoLogResponse struct {
	ID         string `json:"id"`
	FacturaID  string `json:"factura_id"`
	TipoEvento string `json:"tipo_evento"`
	Mensaje    string `json:"mensaje"`
	Detalles   string `json:"detalles,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// FacturaDetalle factura completa: cabecera + items + archivos + últimos logs.
type FacturaDetalle struct {
	FacturaResumen
	EmailFrom         string                     `json:"email_from,omitempty"`
	EmailSubject      string                     `json:"email_subject,omitempty"`
	S3Key             string                     `json:"s3_key,omitempty"`
	EmisorDireccion   string                     `json:"emisor_direccion,omitempty"`
	EmisorTelefono    string                     `json:"emisor_telefono,omitempty"`
	ReceptorRUC       string                     `json:"receptor_ruc,omitempty"`
	ReceptorDireccion string                     `json:"receptor_direccion,omitempty"`
	Items             []FacturaItemResponse      `json:"items"`
	Archivos          []FacturaArchivoResponse   `json:"archivos"`
	Logs              []ProcesamientoLogResponse `json:"logs"`
}

// UpdateEstadoRequest cuerpo del cambio de estado.
type UpdateEstadoRequest struct {
	Estado     string `json:"estado"`
	Comentario string `json:"comentario"`
}

// UpdateEstadoResult resultado de la transición de estado.
type UpdateEstadoResult struct {
	EstadoAnterior string `json:"estadoAnterior"`
	EstadoNuevo    string `json:"estadoNuevo"`
	Comentario     string `json:"comentario,omitempty"`
}

// SearchRequest búsqueda avanzada de facturas.
type SearchRequest struct {
	Q         string `query:"q"`
	Search    string `query:"search"`
	Estado    string `query:"estado"`
	EmisorRUC string `query:"emisorRuc"`
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
}

// Suggestion entrada de autocompletado.
type Suggestion struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Type  string `json:"type"` // "emisor" | "numero_factura"
}

// Suggestions sugerencias agrupadas para el buscador.
type Suggestions struct {
	Emisores       []Suggestion `json:"emisores"`
	NumerosFactura []Suggestion `json:"numeros_factura"`
}
