package listquery

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Normalizadores de parámetros de query crudos. Un valor "presente" es una
// cadena no vacía tras recortar espacios, o un número finito parseable.
// Los valores ausentes o inválidos se descartan en silencio: nunca generan
// predicado ni parámetro. Funciones puras y totales: no devuelven errores.

// Text recorta espacios y descarta cadenas vacías.
func Text(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Number parsea un número finito. Rechaza NaN e infinitos.
func Number(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NumberMin como Number, pero descarta valores por debajo del piso documentado
// (ej. confianza OCR >= 0).
func NumberMin(s string, floor float64) (float64, bool) {
	f, ok := Number(s)
	if !ok || f < floor {
		return 0, false
	}
	return f, true
}

// Date acepta fechas ISO YYYY-MM-DD y las devuelve tal cual, sin conversión
// de zona horaria: la comparación contra la columna DATE es lexical.
func Date(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", false
	}
	return s, true
}

// SearchPattern prepara un término de búsqueda libre para LIKE: recorta,
// normaliza a NFC (los clientes envían texto en español con composición
// Unicode inconsistente) y lo envuelve en comodines.
func SearchPattern(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return "%" + norm.NFC.String(s) + "%", true
}
