package fuzz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"suco", "suco", 100},
		{"", "", 0},
		{"abc", "", 0},
		{"abc", "xyz", 0},
		{"kitten", "sitting", 62},
		{"hello", "hallo", 80},
		{"meu pedido", "meus pedidos", 91},
		{"cardapio", "cardapo", 93},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, Ratio(tt.a, tt.b))
			assert.Equal(t, tt.expected, Ratio(tt.b, tt.a), "ratio must be symmetric")
		})
	}
}

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"quero 2 sucos", "suco", 100},
		{"suco", "quero 2 sucos", 100},
		{"quero pedido", "pedir", 80},
		{"abc", "xyz", 0},
		{"boa noite", "oi", 100},
		{"", "x", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, PartialRatio(tt.a, tt.b))
		})
	}
}

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"quero 2 sucos e um sanduiche", "quero", 100},
		{"bolo de chocolate", "chocolate bolo", 100},
		{"fuzzy wuzzy was a bear", "wuzzy fuzzy was a bear", 100},
		{"tres paes de queijo", "pao de queijo", 82},
		{"abc def", "ghi", 0},
		{"", "x", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, TokenSetRatio(tt.a, tt.b))
			assert.Equal(t, tt.expected, TokenSetRatio(tt.b, tt.a))
		})
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"ola", "tudo", "bem"}, Tokens("ola, tudo bem?"))
	assert.Equal(t, []string{"that", "s", "all"}, Tokens("that's all"))
	assert.Empty(t, Tokens(" ,.! "))
}

func TestFold(t *testing.T) {
	tests := map[string]string{
		"Cardápio":       "cardapio",
		"  SÓ ISSO  ":    "so isso",
		"Pão de Queijo":  "pao de queijo",
		"três coxinhas":  "tres coxinhas",
		"açaí":           "acai",
		"already folded": "already folded",
	}
	for in, want := range tests {
		assert.Equal(t, want, Fold(in), in)
	}
}
