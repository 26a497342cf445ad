package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeUsername(t *testing.T) {
	cases := []struct {
		nome  string
		setor string
		want  string
	}{
		{"Eduardo Libório", "pcp", "eduardo.liborio.pcp"},
		{"José Antônio da Silva", "logistica", "jose.silva.logistica"},
		{"  Maria  ", "admin", "maria.admin"},
		{"ANA CLARA", "faturamento", "ana.clara.faturamento"},
		{"", "pcp", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, MakeUsername(tc.nome, tc.setor), "nome=%q", tc.nome)
	}
}
