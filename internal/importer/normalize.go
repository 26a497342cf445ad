package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Epoch do número serial do Excel. O serial 1 = 01/01/1900, e mantemos o
// deslocamento de -2 do bug histórico de ano bissexto para bater com a
// numeração da planilha de origem.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Sinônimos aceitos na coluna "Pronto".
var prontoSinonimos = map[string]bool{
	"sim": true, "s": true,
	"yes": true, "y": true,
	"true": true, "1": true,
	"ok": true, "pronto": true, "ready": true,
}

// ParseQuantity converte o valor bruto da célula em quantidade.
// Nunca falha: qualquer coisa irrecuperável vira 0.
// Aceita número direto, inteiro em string, e formato pt-BR ("1.234", "12,5").
func ParseQuantity(raw any) int {
	switch v := raw.(type) {
	case nil:
		return 0
	case int:
		return nonNegative(v)
	case int64:
		return nonNegative(int(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return nonNegative(int(v))
	}

	s := strings.TrimSpace(cellString(raw))
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return nonNegative(n)
	}
	// "1.234" (milhar) e "12,5" (decimal) viram float
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return nonNegative(int(f))
	}
	return 0
}

// ParseReadyFlag: vazio é false; o resto compara com a lista de sinônimos.
func ParseReadyFlag(raw any) bool {
	if raw == nil {
		return false
	}
	if b, ok := raw.(bool); ok {
		return b
	}
	s := strings.ToLower(strings.TrimSpace(cellString(raw)))
	return prontoSinonimos[s]
}

// ParseDate normaliza os vários formatos de data que aparecem na planilha:
// valor de data nativo, número serial do Excel, "dd/mm/aaaa" e "aaaa-mm-dd".
// Valor vazio ou irreconhecível cai para hoje (comportamento herdado da
// planilha antiga; datas históricas mal formatadas entram com a data errada).
func ParseDate(raw any, today time.Time) time.Time {
	today = DateOnly(today)

	switch v := raw.(type) {
	case nil:
		return today
	case time.Time:
		return DateOnly(v)
	case int:
		return serialToDate(float64(v), today)
	case int64:
		return serialToDate(float64(v), today)
	case float64:
		return serialToDate(v, today)
	}

	s := strings.TrimSpace(cellString(raw))
	if s == "" {
		return today
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return serialToDate(f, today)
	}
	if d, err := time.ParseInLocation("02/01/2006", s, time.UTC); err == nil {
		return d
	}
	if d, err := time.ParseInLocation("2006-01-02", s, time.UTC); err == nil {
		return d
	}
	return today
}

func serialToDate(serial float64, fallback time.Time) time.Time {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 || serial > 300000 {
		return fallback
	}
	return excelEpoch.AddDate(0, 0, int(serial))
}

// CleanHeaderName limpa o nome da coluna: trim e NBSP vira espaço.
// Vazio retorna "" e o adapter coloca o placeholder posicional.
func CleanHeaderName(raw any) string {
	if raw == nil {
		return ""
	}
	s := cellString(raw)
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(s)
}

// DateOnly descarta a parte de hora (meia-noite UTC), que é como o
// ItemStatus guarda a data efetiva.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldKey: chave de comparação de cabeçalho, sem acento e minúscula.
// "Situação " e "situacao" batem.
func foldKey(s string) string {
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		s = folded
	}
	return strings.ToLower(strings.TrimSpace(s))
}

func cellString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
