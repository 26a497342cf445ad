package auth

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// removeAcentos: "José Antônio" -> "Jose Antonio"
var removeAcentos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// MakeUsername monta o login padrão da fábrica: primeiro.ultimo.setor,
// tudo minúsculo e sem acento. Nome de uma palavra só omite o sobrenome.
func MakeUsername(fullName string, setor string) string {
	name := fullName
	if folded, _, err := transform.String(removeAcentos, fullName); err == nil {
		name = folded
	}

	parts := strings.Fields(strings.TrimSpace(name))
	if len(parts) == 0 {
		return ""
	}

	first := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return strings.ToLower(first + "." + setor)
	}
	last := strings.ToLower(parts[len(parts)-1])
	return strings.ToLower(first + "." + last + "." + setor)
}
