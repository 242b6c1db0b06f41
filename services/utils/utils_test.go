package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKeyEquivalence(t *testing.T) {
	// All spellings of the same city must land on the same key.
	variants := []string{
		"Foz-do-Iguaçu",
		"foz do iguacu",
		"FOZ_DO_IGUACU",
		"  foz-do-iguaçu  ",
	}
	for _, v := range variants {
		assert.Equal(t, "foz_do_iguacu", NormalizeKey(v), "variant %q", v)
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Curitiba", "curitiba"},
		{"São José dos Pinhais", "sao_jose_dos_pinhais"},
		{"MARINGÁ", "maringa"},
		{"santo-antonio-da-platina", "santo_antonio_da_platina"},
		{"", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, NormalizeKey(tc.in))
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "sao paulo", Fold("  SÃO PAULO "))
	assert.Equal(t, "area", Fold("Área"))
}

func TestParseBrazilianNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1.000,50", 1000.50},
		{"1.234.567,89", 1234567.89},
		{"R$ 45.000,00", 45000},
		{"500", 500},
		{"0,5", 0.5},
		{"", 0},
		{"abc", 0},
	}
	for _, tc := range tests {
		assert.InDelta(t, tc.want, ParseBrazilianNumber(tc.in), 1e-9, "input %q", tc.in)
	}
}
