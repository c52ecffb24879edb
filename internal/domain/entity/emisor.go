package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Emisor no es una fila almacenada: es una proyección GROUP BY sobre facturas
// identificada por RUC. Los agregados se recalculan en cada consulta, por lo
// que dos lecturas consecutivas pueden no ser consistentes entre sí.
type Emisor struct {
	RUC       string
	Nombre    string
	Direccion string
	Telefono  string

	TotalFacturas       int64
	MontoTotal          decimal.Decimal
	PromedioFactura     decimal.Decimal
	PrimeraFactura      *time.Time
	UltimaFactura       *time.Time
	UltimoProcesamiento *time.Time
	FacturasPendientes  int64
	FacturasProcesadas  int64
	FacturasError       int64
	FacturasRevisadas   int64
	ConfianzaPromedio   decimal.Decimal
	ConfianzaMinima     decimal.Decimal
	ConfianzaMaxima     decimal.Decimal
}
