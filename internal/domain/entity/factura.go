package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una factura.
// La eliminación es siempre lógica: transición a EstadoEliminado.
const (
	EstadoPendiente = "pendiente" // Extraída por OCR, pendiente de revisión
	EstadoProcesado = "procesado" // Validada y contabilizada
	EstadoError     = "error"     // Falló la extracción o la validación
	EstadoRevision  = "revision"  // Marcada para revisión manual
	EstadoEliminado = "eliminado" // Borrado lógico, nunca se elimina la fila
)

// EstadosFiltrables estados aceptados como filtro y como destino de transición.
// "eliminado" se excluye: solo se alcanza vía Delete.
var EstadosFiltrables = []string{EstadoPendiente, EstadoProcesado, EstadoError, EstadoRevision}

// EstadoValido indica si s es un estado de transición permitido.
func EstadoValido(s string) bool {
	for _, e := range EstadosFiltrables {
		if e == s {
			return true
		}
	}
	return false
}

// Factura cabecera de una factura extraída por el pipeline de OCR.
// EmpresaID es opcional: facturas históricas previas al multi-tenant no lo tienen.
type Factura struct {
	ID        string
	EmpresaID string // vacío = sin tenant asignado

	// Procedencia (correo que originó el procesamiento)
	EmailFrom    string
	EmailSubject string
	EmailDate    *time.Time
	S3Key        string

	// Emisor
	EmisorNombre    string
	EmisorRUC       string
	EmisorDireccion string
	EmisorTelefono  string

	// Receptor
	ReceptorNombre    string
	ReceptorRUC       string
	ReceptorDireccion string

	NumeroFactura string
	FechaFactura  *time.Time

	Subtotal  decimal.Decimal
	Descuento decimal.Decimal
	ITBMS     decimal.Decimal
	Total     decimal.Decimal

	Estado       string
	ConfianzaOCR decimal.Decimal // 0–100
	ProcesadoPor string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FacturaItem línea de detalle. Se elimina en cascada con la factura.
type FacturaItem struct {
	ID             string
	FacturaID      string
	Descripcion    string
	Codigo         string
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
	DescuentoItem  decimal.Decimal
	ImpuestoItem   decimal.Decimal
	TotalItem      decimal.Decimal
}

// FacturaArchivo adjunto asociado a una factura (PDF/XML/imagen en S3).
type FacturaArchivo struct {
	ID        string
	FacturaID string
	Nombre    string
	MimeType  string
	S3Key     string
	TamanoB   int64
	CreatedAt time.Time
}

// Tipos de evento de procesamiento.
const (
	EventoCambioEstado     = "cambio_estado"
	EventoFacturaEliminada = "factura_eliminada"
)

// ProcesamientoLog evento del pipeline o de un usuario sobre una factura.
type ProcesamientoLog struct {
	ID         string
	FacturaID  string
	TipoEvento string
	Mensaje    string
	Detalles   string // JSON serializado
	CreatedAt  time.Time
}
