// Package listquery implementa la construcción de consultas de listado:
// normalización de filtros, ensamblado de predicados WHERE con parámetros
// posicionales, resolución de columnas de orden por allow-list y cálculo de
// paginación. Todos los endpoints de listado (facturas, emisores, empresas,
// reportes) comparten esta pieza en lugar de duplicar la lógica.
package listquery

import (
	"strconv"
	"strings"
)

// Builder acumula predicados SQL y sus parámetros en un único recorrido de
// izquierda a derecha. Cada marcador '?' del fragmento se renumera al
// placeholder PostgreSQL $n que corresponde a la posición global del
// argumento, de modo que dos conjuntos de filtros lógicamente idénticos
// producen siempre el mismo texto SQL y el mismo orden de parámetros.
//
// Invariante: los parámetros de la consulta COUNT (Args) son exactamente los
// de la consulta de datos (PageArgs) sin el par (limit, offset) final.
//
// El predicado de alcance por empresa debe agregarse antes que cualquier
// otro: va siempre primero en el WHERE generado.
type Builder struct {
	start int // placeholders ya consumidos por un Builder previo (cláusulas HAVING)
	conds []string
	args  []any
}

// NewBuilder crea un Builder vacío: sin predicados ni parámetros.
func NewBuilder() *Builder {
	return &Builder{}
}

// And agrega un predicado. frag usa un marcador '?' por cada argumento;
// los marcadores se renumeran a $n en orden de aparición.
func (b *Builder) And(frag string, args ...any) *Builder {
	b.conds = append(b.conds, b.renumber(frag))
	b.args = append(b.args, args...)
	return b
}

// Scope agrega el predicado de alcance multi-tenant. Por auditoría y uso de
// índices debe ser el primer predicado: llamar antes que cualquier And.
func (b *Builder) Scope(column, empresaID string) *Builder {
	return b.And(column+" = ?", empresaID)
}

// Extend devuelve un Builder vacío cuya numeración de placeholders continúa
// después de los parámetros de b. Sirve para cláusulas HAVING que comparten
// consulta con un WHERE ya construido; los parámetros finales son
// b.Args() seguidos de los del Builder extendido.
func (b *Builder) Extend() *Builder {
	return &Builder{start: b.start + len(b.args)}
}

// Empty indica si no se agregó ningún predicado.
func (b *Builder) Empty() bool {
	return len(b.conds) == 0
}

// Conditions devuelve los predicados unidos con AND, sin palabra clave.
func (b *Builder) Conditions() string {
	return strings.Join(b.conds, " AND ")
}

// Where devuelve la cláusula WHERE completa, o cadena vacía si no hay
// predicados (el equivalente a la tautología: todas las filas pasan).
func (b *Builder) Where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return "WHERE " + b.Conditions()
}

// Having devuelve la cláusula HAVING completa, o cadena vacía.
func (b *Builder) Having() string {
	if len(b.conds) == 0 {
		return ""
	}
	return "HAVING " + b.Conditions()
}

// Args devuelve los parámetros acumulados (los de la consulta COUNT).
func (b *Builder) Args() []any {
	out := make([]any, len(b.args))
	copy(out, b.args)
	return out
}

// PageArgs devuelve el fragmento "LIMIT $n OFFSET $m" y los parámetros de la
// consulta de datos: los filtros más el par (limit, offset) al final.
func (b *Builder) PageArgs(p Page) (string, []any) {
	n := b.start + len(b.args)
	frag := "LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2)
	return frag, append(b.Args(), p.Limit(), p.Offset())
}

// renumber reemplaza cada '?' por el siguiente placeholder posicional.
func (b *Builder) renumber(frag string) string {
	if !strings.Contains(frag, "?") {
		return frag
	}
	var sb strings.Builder
	sb.Grow(len(frag) + 8)
	n := b.start + len(b.args)
	for i := 0; i < len(frag); i++ {
		if frag[i] == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteByte(frag[i])
	}
	return sb.String()
}
