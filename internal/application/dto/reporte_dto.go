package dto

import "github.com/shopspring/decimal"

// PeriodoRequest filtros comunes de reportes.
type PeriodoRequest struct {
	FechaInicio string `query:"fechaInicio"`
	FechaFin    string `query:"fechaFin"`
	EmisorRUC   string `query:"emisorRuc"`
}

// PeriodoFilter filtros normalizados de reportes (tenant incluido).
type PeriodoFilter struct {
	EmpresaID   string
	FechaInicio string
	FechaFin    string
	EmisorRUC   string
}

// ReporteDashboard reporte general: métricas + series + top emisores.
type ReporteDashboard struct {
	Metricas       ReporteMetricas `json:"metricas"`
	FacturasPorMes []PuntoMensual  `json:"facturas_por_mes"`
	TopEmisores    []EmisorChart   `json:"top_emisores"`
}

// ReporteMetricas métricas generales bajo un WHERE compartido.
type ReporteMetricas struct {
	TotalFacturas      int64           `json:"total_facturas"`
	FacturasPendientes int64           `json:"facturas_pendientes"`
	FacturasProcesadas int64           `json:"facturas_procesadas"`
	FacturasError      int64           `json:"facturas_error"`
	FacturasRevisadas  int64           `json:"facturas_revisadas"`
	TotalMonto         decimal.Decimal `json:"total_monto"`
	PromedioFactura    decimal.Decimal `json:"promedio_factura"`
	ConfianzaPromedio  decimal.Decimal `json:"confianza_promedio"`
	EmisoresUnicos     int64           `json:"emisores_unicos"`
}

// Agrupaciones válidas del reporte de ventas.
const (
	AgruparDia    = "dia"
	AgruparSemana = "semana"
	AgruparMes    = "mes"
	AgruparAnio   = "año"
)

// VentasRequest filtros del reporte de ventas.
type VentasRequest struct {
	FechaInicio string `query:"fechaInicio"`
	FechaFin    string `query:"fechaFin"`
	EmisorRUC   string `query:"emisorRuc"`
	AgruparPor  string `query:"agruparPor"`
	Formato     string `query:"formato"` // json | csv
}

// VentasPeriodo fila del detalle de ventas por período.
type VentasPeriodo struct {
	Periodo         string          `json:"periodo"`
	TotalFacturas   int64           `json:"total_facturas"`
	TotalSubtotal   decimal.Decimal `json:"total_subtotal"`
	TotalDescuento  decimal.Decimal `json:"total_descuento"`
	TotalITBMS      decimal.Decimal `json:"total_itbms"`
	TotalVentas     decimal.Decimal `json:"total_ventas"`
	PromedioFactura decimal.Decimal `json:"promedio_factura"`
	VentaMinima     decimal.Decimal `json:"venta_minima"`
	VentaMaxima     decimal.Decimal `json:"venta_maxima"`
	EmisoresActivos int64           `json:"emisores_activos"`
}

// VentasResumen totales generales del reporte de ventas.
type VentasResumen struct {
	TotalFacturas   int64           `json:"total_facturas"`
	TotalSubtotal   decimal.Decimal `json:"total_subtotal"`
	TotalDescuento  decimal.Decimal `json:"total_descuento"`
	TotalITBMS      decimal.Decimal `json:"total_itbms"`
	TotalVentas     decimal.Decimal `json:"total_ventas"`
	PromedioFactura decimal.Decimal `json:"promedio_factura"`
}

// ReporteVentas reporte de ventas por período.
type ReporteVentas struct {
	Resumen VentasResumen   `json:"resumen"`
	Detalle []VentasPeriodo `json:"detalle"`
}

// ITBMSResumen resumen general del reporte de ITBMS.
type ITBMSResumen struct {
	FacturasConITBMS  int64           `json:"facturas_con_itbms"`
	BaseGravable      decimal.Decimal `json:"base_gravable"`
	TotalITBMS        decimal.Decimal `json:"total_itbms"`
	PromedioITBMS     decimal.Decimal `json:"promedio_itbms"`
	TotalConITBMS     decimal.Decimal `json:"total_con_itbms"`
	TasaPromedioITBMS decimal.Decimal `json:"tasa_promedio_itbms"`
}

// ITBMSPeriodo ITBMS agregado por mes.
type ITBMSPeriodo struct {
	Mes          string          `json:"mes"`
	Facturas     int64           `json:"facturas"`
	BaseGravable decimal.Decimal `json:"base_gravable"`
	TotalITBMS   decimal.Decimal `json:"total_itbms"`
	TasaPromedio decimal.Decimal `json:"tasa_promedio"`
}

// ITBMSEmisor ITBMS agregado por emisor.
type ITBMSEmisor struct {
	EmisorRUC    string          `json:"emisor_ruc"`
	EmisorNombre string          `json:"emisor_nombre"`
	Facturas     int64           `json:"facturas"`
	BaseGravable decimal.Decimal `json:"base_gravable"`
	TotalITBMS   decimal.Decimal `json:"total_itbms"`
	TasaPromedio decimal.Decimal `json:"tasa_promedio"`
}

// ReporteITBMS reporte de impuesto ITBMS.
type ReporteITBMS struct {
	Resumen   ITBMSResumen   `json:"resumen"`
	PorMes    []ITBMSPeriodo `json:"por_mes"`
	PorEmisor []ITBMSEmisor  `json:"por_emisor"`
}

// OCREstadisticas estadísticas generales de performance del OCR.
type OCREstadisticas struct {
	TotalProcesadas      int64           `json:"total_procesadas"`
	ConfianzaPromedio    decimal.Decimal `json:"confianza_promedio"`
	ConfianzaMinima      decimal.Decimal `json:"confianza_minima"`
	ConfianzaMaxima      decimal.Decimal `json:"confianza_maxima"`
	AltaConfianza        int64           `json:"alta_confianza"`  // >= 90
	MediaConfianza       int64           `json:"media_confianza"` // 70–90
	BajaConfianza        int64           `json:"baja_confianza"`  // < 70
	ErroresProcesamiento int64           `json:"errores_procesamiento"`
	TasaExito            decimal.Decimal `json:"tasa_exito"` // %
}

// OCRDia tendencia diaria de confianza.
type OCRDia struct {
	Fecha             string          `json:"fecha"`
	TotalProcesadas   int64           `json:"total_procesadas"`
	ConfianzaPromedio decimal.Decimal `json:"confianza_promedio"`
	AltaConfianza     int64           `json:"alta_confianza"`
	Errores           int64           `json:"errores"`
}

// OCRProcesador performance por procesador.
type OCRProcesador struct {
	ProcesadoPor      string          `json:"procesado_por"`
	TotalProcesadas   int64           `json:"total_procesadas"`
	ConfianzaPromedio decimal.Decimal `json:"confianza_promedio"`
	AltaConfianza     int64           `json:"alta_confianza"`
	Errores           int64           `json:"errores"`
	TasaExito         decimal.Decimal `json:"tasa_exito"` // %
}

// ReportePerformanceOCR reporte de performance del OCR.
type ReportePerformanceOCR struct {
	Estadisticas    OCREstadisticas `json:"estadisticas"`
	TendenciaDiaria []OCRDia        `json:"tendencia_diaria"`
	PorProcesador   []OCRProcesador `json:"por_procesador"`
}

// EmisorActividad actividad agregada de un emisor en el período.
type EmisorActividad struct {
	EmisorRUC             string          `json:"emisor_ruc"`
	EmisorNombre          string          `json:"emisor_nombre"`
	TotalFacturas         int64           `json:"total_facturas"`
	MontoTotal            decimal.Decimal `json:"monto_total"`
	PromedioFactura       decimal.Decimal `json:"promedio_factura"`
	PrimeraFactura        string          `json:"primera_factura"`
	UltimaFactura         string          `json:"ultima_factura"`
	DiasActivo            int64           `json:"dias_activo"`
	DiasConFacturas       int64           `json:"dias_con_facturas"`
	FrecuenciaFacturacion decimal.Decimal `json:"frecuencia_facturacion"` // %
	ConfianzaPromedio     decimal.Decimal `json:"confianza_promedio"`
	FacturasError         int64           `json:"facturas_error"`
}

// EmisorNuevo emisor cuya primera factura cae dentro del período.
type EmisorNuevo struct {
	EmisorRUC       string `json:"emisor_ruc"`
	EmisorNombre    string `json:"emisor_nombre"`
	PrimeraFactura  string `json:"primera_factura"`
	FacturasPeriodo int64  `json:"facturas_periodo"`
}

// ReporteActividadEmisores actividad + altas de emisores en el período.
type ReporteActividadEmisores struct {
	ActividadEmisores []EmisorActividad `json:"actividad_emisores"`
	EmisoresNuevos    []EmisorNuevo     `json:"emisores_nuevos"`
}

// Tipos de exportación.
const (
	ExportFacturas = "facturas"
	ExportEmisores = "emisores"
	ExportVentas   = "ventas"
	ExportITBMS    = "itbms"
)

// ExportRequest exportación de datos tabulares.
type ExportRequest struct {
	Tipo        string `json:"tipo"`
	Formato     string `json:"formato"` // json | csv
	FechaInicio string `json:"fechaInicio"`
	FechaFin    string `json:"fechaFin"`
	EmisorRUC   string `json:"emisorRuc"`
	Estado      string `json:"estado"`
}

// FacturaExport fila de exportación de facturas (orden de columnas estable).
type FacturaExport struct {
	NumeroFactura  string          `json:"numero_factura"`
	EmisorNombre   string          `json:"emisor_nombre"`
	EmisorRUC      string          `json:"emisor_ruc"`
	ReceptorNombre string          `json:"receptor_nombre"`
	FechaFactura   string          `json:"fecha_factura"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Descuento      decimal.Decimal `json:"descuento"`
	ITBMS          decimal.Decimal `json:"itbms"`
	Total          decimal.Decimal `json:"total"`
	Estado         string          `json:"estado"`
	ConfianzaOCR   decimal.Decimal `json:"confianza_ocr"`
	CreatedAt      string          `json:"created_at"`
}

// EmisorExport fila de exportación de emisores.
type EmisorExport struct {
	EmisorRUC       string          `json:"emisor_ruc"`
	EmisorNombre    string          `json:"emisor_nombre"`
	EmisorDireccion string          `json:"emisor_direccion"`
	EmisorTelefono  string          `json:"emisor_telefono"`
	TotalFacturas   int64           `json:"total_facturas"`
	MontoTotal      decimal.Decimal `json:"monto_total"`
	PromedioFactura decimal.Decimal `json:"promedio_factura"`
	PrimeraFactura  string          `json:"primera_factura"`
	UltimaFactura   string          `json:"ultima_factura"`
}

// ExportResult resultado de una exportación.
type ExportResult struct {
	Tipo              string `json:"tipo"`
	Formato           string `json:"formato"`
	CantidadRegistros int    `json:"cantidad_registros"`
	Datos             any    `json:"datos"`
	GeneradoEn        string `json:"generado_en"`
}
