package listquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"procesado", "procesado", true},
		{"  procesado  ", "procesado", true},
		{"", "", false},
		{"   ", "", false},
		{"\t\n", "", false},
	}
	for _, c := range cases {
		got, ok := Text(c.in)
		assert.Equal(t, c.ok, ok, "Text(%q)", c.in)
		assert.Equal(t, c.want, got)
	}
}

func TestNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"10.5", 10.5, true},
		{" 0 ", 0, true},
		{"-3", -3, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"+Inf", 0, false},
	}
	for _, c := range cases {
		got, ok := Number(c.in)
		assert.Equal(t, c.ok, ok, "Number(%q)", c.in)
		assert.Equal(t, c.want, got)
	}
}

func TestNumberMin(t *testing.T) {
	// Confianza OCR: piso documentado 0.
	_, ok := NumberMin("-1", 0)
	assert.False(t, ok)

	got, ok := NumberMin("85", 0)
	assert.True(t, ok)
	assert.Equal(t, 85.0, got)
}

func TestDate(t *testing.T) {
	got, ok := Date(" 2024-01-01 ")
	assert.True(t, ok)
	assert.Equal(t, "2024-01-01", got, "sin conversión de zona horaria: pasa tal cual")

	for _, in := range []string{"", "2024-13-01", "01/02/2024", "2024-1-1", "ayer"} {
		_, ok := Date(in)
		assert.False(t, ok, "Date(%q)", in)
	}
}

func TestSearchPattern(t *testing.T) {
	got, ok := SearchPattern("  cable ")
	assert.True(t, ok)
	assert.Equal(t, "%cable%", got)

	_, ok = SearchPattern("   ")
	assert.False(t, ok)

	// NFD -> NFC: "á" descompuesta se normaliza a su forma compuesta.
	got, ok = SearchPattern("compañía")
	assert.True(t, ok)
	assert.Equal(t, "%compañía%", got)
}
