package listquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage_Defaults(t *testing.T) {
	cases := []struct {
		page, limit        int
		wantNum, wantLimit int
	}{
		{1, 25, 1, 25},
		{0, 25, 1, 25},
		{-3, 25, 1, 25},
		{2, 0, 2, 25},
		{2, -1, 2, 25},
		{2, 101, 2, 25},
		{2, 100, 2, 100},
		{2, 1, 2, 1},
	}
	for _, c := range cases {
		p := NewPage(c.page, c.limit)
		assert.Equal(t, c.wantNum, p.Number(), "page=%d limit=%d", c.page, c.limit)
		assert.Equal(t, c.wantLimit, p.Limit(), "page=%d limit=%d", c.page, c.limit)
	}
}

func TestNewPageSized_DefaultPropio(t *testing.T) {
	p := NewPageSized(1, 0, 20)
	assert.Equal(t, 20, p.Limit())
}

func TestPage_Offset(t *testing.T) {
	assert.Equal(t, 0, NewPage(1, 25).Offset())
	assert.Equal(t, 25, NewPage(2, 25).Offset())
	assert.Equal(t, 90, NewPage(10, 10).Offset())
	assert.GreaterOrEqual(t, NewPage(-5, -5).Offset(), 0)
}

func TestPage_Meta(t *testing.T) {
	m := NewPage(2, 25).Meta(51)
	assert.Equal(t, 2, m.CurrentPage)
	assert.Equal(t, 3, m.TotalPages)
	assert.Equal(t, 51, m.TotalItems)
	assert.Equal(t, 25, m.ItemsPerPage)
	assert.True(t, m.HasNextPage)
	assert.True(t, m.HasPrevPage)
}

// Total cero: totalPages=0 y ambos flags en false.
func TestPage_MetaTotalCero(t *testing.T) {
	m := NewPage(1, 25).Meta(0)
	assert.Equal(t, 0, m.TotalPages)
	assert.False(t, m.HasNextPage)
	assert.False(t, m.HasPrevPage)
}

func TestPage_MetaUltimaPagina(t *testing.T) {
	m := NewPage(3, 25).Meta(51)
	assert.False(t, m.HasNextPage)
	assert.True(t, m.HasPrevPage)
}
