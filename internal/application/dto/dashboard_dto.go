package dto

import "github.com/shopspring/decimal"

// Alerta aviso del dashboard (baja confianza, errores, pendientes antiguas).
type Alerta struct {
	Tipo      string `json:"tipo"`
	Cantidad  int64  `json:"cantidad"`
	Mensaje   string `json:"mensaje"`
	Severidad string `json:"severidad"` // "info" | "warning" | "error"
}

// DashboardOverview métricas principales del dashboard.
type DashboardOverview struct {
	TotalFacturas        int64           `json:"total_facturas"`
	FacturasMesActual    int64           `json:"facturas_mes_actual"`
	TotalMonto           decimal.Decimal `json:"total_monto"`
	MontoMesActual       decimal.Decimal `json:"monto_mes_actual"`
	PromedioFactura      decimal.Decimal `json:"promedio_factura"`
	FacturasPendientes   int64           `json:"facturas_pendientes"`
	FacturasProcesadas   int64           `json:"facturas_procesadas"`
	FacturasError        int64           `json:"facturas_error"`
	FacturasRevisadas    int64           `json:"facturas_revisadas"`
	ConfianzaOCRPromedio decimal.Decimal `json:"confianza_ocr_promedio"`
	EmisoresActivos      int64           `json:"emisores_activos"`
	Alertas              []Alerta        `json:"alertas"`
}

// PuntoMensual serie mensual (cantidad + monto).
type PuntoMensual struct {
	Mes        string          `json:"mes"` // YYYY-MM
	Cantidad   int64           `json:"cantidad"`
	MontoTotal decimal.Decimal `json:"monto_total"`
}

// EmisorChart entrada del top de emisores para gráficos.
type EmisorChart struct {
	Emisor   string          `json:"emisor"`
	RUC      string          `json:"ruc"`
	Cantidad int64           `json:"cantidad"`
	Monto    decimal.Decimal `json:"monto"`
}

// EstadoChart distribución por estado.
type EstadoChart struct {
	Estado     string          `json:"estado"`
	Cantidad   int64           `json:"cantidad"`
	Porcentaje decimal.Decimal `json:"porcentaje"`
}

// DiaChart actividad por día de la semana.
type DiaChart struct {
	Dia      string `json:"dia"`
	Cantidad int64  `json:"cantidad"`
}

// PuntoOCR tendencia diaria de confianza OCR.
type PuntoOCR struct {
	Fecha     string          `json:"fecha"` // YYYY-MM-DD
	Confianza decimal.Decimal `json:"confianza"`
	Total     int64           `json:"total"`
}

// DashboardCharts series para los gráficos del dashboard.
type DashboardCharts struct {
	FacturasPorMes     []PuntoMensual `json:"facturas_por_mes"`
	TopEmisores        []EmisorChart  `json:"top_emisores"`
	DistribucionEstado []EstadoChart  `json:"distribucion_estado"`
	ActividadSemanal   []DiaChart     `json:"actividad_semanal"`
	TendenciaOCR       []PuntoOCR     `json:"tendencia_ocr"`
}

// MetricsRequest filtros de métricas del dashboard.
type MetricsRequest struct {
	FechaInicio string `query:"fechaInicio"`
	FechaFin    string `query:"fechaFin"`
	EmisorRUC   string `query:"emisorRuc"`
}

// DashboardMetrics agregado filtrado.
type DashboardMetrics struct {
	TotalFacturas     int64           `json:"total_facturas"`
	MontoTotal        decimal.Decimal `json:"monto_total"`
	PromedioFactura   decimal.Decimal `json:"promedio_factura"`
	MontoMinimo       decimal.Decimal `json:"monto_minimo"`
	MontoMaximo       decimal.Decimal `json:"monto_maximo"`
	TotalITBMS        decimal.Decimal `json:"total_itbms"`
	ConfianzaPromedio decimal.Decimal `json:"confianza_promedio"`
	EmisoresUnicos    int64           `json:"emisores_unicos"`
}

// ErroresDia errores de procesamiento por día.
type ErroresDia struct {
	Fecha   string `json:"fecha"`
	Errores int64  `json:"errores"`
}

// PerformanceStats estadísticas de rendimiento del pipeline.
type PerformanceStats struct {
	TiempoPromedioProcesamiento decimal.Decimal `json:"tiempo_promedio_procesamiento"` // minutos
	TotalProcesadas             int64           `json:"total_procesadas"`
	ErroresPorDia               []ErroresDia    `json:"errores_por_dia"`
}

// DashboardData carga combinada de la pantalla principal: overview, series
// y alertas en una sola respuesta.
type DashboardData struct {
	Overview  *DashboardOverview `json:"overview"`
	Charts    *DashboardCharts   `json:"charts"`
	Alertas   []Alerta           `json:"alertas"`
	Timestamp string             `json:"timestamp"`
}
