package listquery

// Valores por defecto de paginación compartidos por los listados.
const (
	DefaultLimit = 25
	MaxLimit     = 100
)

// Page paginación resuelta: número de página (>=1) y tamaño (1..MaxLimit).
type Page struct {
	number int
	size   int
}

// NewPage resuelve (page, limit) con las reglas estándar: página inválida o
// ausente cae a 1; límite fuera de [1, MaxLimit] cae a DefaultLimit.
func NewPage(page, limit int) Page {
	return NewPageSized(page, limit, DefaultLimit)
}

// NewPageSized como NewPage pero con un tamaño por defecto propio del
// endpoint (la búsqueda usa 20).
func NewPageSized(page, limit, def int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxLimit {
		limit = def
	}
	return Page{number: page, size: limit}
}

// Number devuelve la página resuelta (>=1).
func (p Page) Number() int { return p.number }

// Limit devuelve el tamaño de página resuelto.
func (p Page) Limit() int { return p.size }

// Offset devuelve (page-1)*limit; nunca negativo.
func (p Page) Offset() int {
	off := (p.number - 1) * p.size
	if off < 0 {
		return 0
	}
	return off
}

// Meta metadatos de paginación del sobre de respuesta.
type Meta struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

// Meta calcula el sobre de paginación para un total de filas dado.
// total=0 produce totalPages=0 y ambos flags en false.
func (p Page) Meta(total int) Meta {
	pages := 0
	if total > 0 {
		pages = (total + p.size - 1) / p.size
	}
	return Meta{
		CurrentPage:  p.number,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: p.size,
		HasNextPage:  p.number < pages,
		HasPrevPage:  p.number > 1 && total > 0,
	}
}
