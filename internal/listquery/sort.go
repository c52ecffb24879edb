package listquery

import "strings"

// Los identificadores SQL no se pueden parametrizar, así que el ORDER BY
// dinámico pasa siempre por una allow-list: la entrada desconocida cae al
// valor por defecto y jamás se interpola en la consulta.

// SortSet allow-list de columnas de orden para un tipo de entidad.
type SortSet struct {
	// Default columna usada cuando el campo pedido no está permitido.
	Default string
	// Allowed mapea el nombre externo del campo a la columna SQL segura.
	Allowed map[string]string
}

// Resolve devuelve la columna permitida para field (o Default) y la dirección
// normalizada: "ASC" solo ante una entrada asc explícita, "DESC" en cualquier
// otro caso.
func (s SortSet) Resolve(field, dir string) (column, order string) {
	column = s.Default
	if c, ok := s.Allowed[field]; ok {
		column = c
	}
	order = "DESC"
	if strings.EqualFold(strings.TrimSpace(dir), "ASC") {
		order = "ASC"
	}
	return column, order
}

// OrderBy devuelve la cláusula "ORDER BY <col> <dir>" ya resuelta.
func (s SortSet) OrderBy(field, dir string) string {
	col, order := s.Resolve(field, dir)
	return "ORDER BY " + col + " " + order
}
