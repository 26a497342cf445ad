package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		nome string
		raw  any
		want int
	}{
		{"nil", nil, 0},
		{"vazio", "", 0},
		{"inteiro em string", "12", 12},
		{"milhar pt-BR", "1.234", 1234},
		{"decimal pt-BR", "12,5", 12},
		{"lixo", "abc", 0},
		{"float trunca", 12.9, 12},
		{"int direto", 7, 7},
		{"negativo vira zero", "-3", 0},
		{"espaços", "  42  ", 42},
	}

	for _, tc := range cases {
		t.Run(tc.nome, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseQuantity(tc.raw))
		})
	}
}

func TestParseReadyFlag(t *testing.T) {
	cases := []struct {
		raw  any
		want bool
	}{
		{"Sim", true},
		{"sim", true},
		{"OK", true},
		{"  pronto ", true},
		{"1", true},
		{"y", true},
		{"no", false},
		{"", false},
		{nil, false},
		{"não", false},
		{true, true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseReadyFlag(tc.raw), "raw=%v", tc.raw)
	}
}

func TestParseDate(t *testing.T) {
	hoje := time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)
	hojeData := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	t.Run("vazio cai para hoje", func(t *testing.T) {
		assert.Equal(t, hojeData, ParseDate(nil, hoje))
		assert.Equal(t, hojeData, ParseDate("", hoje))
	})

	t.Run("idempotente em data já normalizada", func(t *testing.T) {
		assert.Equal(t, hojeData, ParseDate(hojeData, hoje))
	})

	t.Run("time.Time descarta a hora", func(t *testing.T) {
		v := time.Date(2024, time.July, 3, 18, 45, 12, 0, time.UTC)
		assert.Equal(t, time.Date(2024, time.July, 3, 0, 0, 0, 0, time.UTC), ParseDate(v, hoje))
	})

	t.Run("serial do Excel", func(t *testing.T) {
		// Serial 2 = 01/01/1900 na numeração herdada (offset -2 preservado).
		assert.Equal(t, time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC), ParseDate(2, hoje))
		// 45658 = 01/01/2025 na planilha da fábrica.
		assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), ParseDate(45658.0, hoje))
		// Serial em string também aparece.
		assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), ParseDate("45658", hoje))
	})

	t.Run("dd/mm/aaaa primeiro", func(t *testing.T) {
		assert.Equal(t, time.Date(2024, time.May, 12, 0, 0, 0, 0, time.UTC), ParseDate("12/05/2024", hoje))
	})

	t.Run("aaaa-mm-dd depois", func(t *testing.T) {
		assert.Equal(t, time.Date(2024, time.May, 12, 0, 0, 0, 0, time.UTC), ParseDate("2024-05-12", hoje))
	})

	t.Run("irreconhecível cai para hoje", func(t *testing.T) {
		assert.Equal(t, hojeData, ParseDate("sexta-feira", hoje))
	})
}

func TestCleanHeaderName(t *testing.T) {
	assert.Equal(t, "Quantidade", CleanHeaderName("  Quantidade  "))
	assert.Equal(t, "Cliente Nome", CleanHeaderName("Cliente Nome"))
	assert.Equal(t, "", CleanHeaderName(nil))
	assert.Equal(t, "", CleanHeaderName("   "))
}

func TestFoldKey(t *testing.T) {
	assert.Equal(t, "situacao", foldKey(" Situação "))
	assert.Equal(t, foldKey("QUANTIDADE"), foldKey("quantidade"))
}
