package importer

import (
	"context"
	"fmt"
	"strings"

	excelize "github.com/xuri/excelize/v2"
)

// RangeSource lê o retângulo ancorado da planilha interativa da fábrica
// (cabeçalho em B6:H6, dados de B7 até a última linha preenchida). Replica o
// comportamento da leitura via aplicativo: acha a última linha varrendo a
// coluna âncora de baixo para cima, completa linhas curtas, propaga célula
// vazia com o valor de cima (forward-fill) e faz trim das strings.
type RangeSource struct {
	Path      string
	Aba       string
	HeaderRow int    // 1-based
	AnchorCol string // letra da coluna âncora, ex. "B"
	NumCols   int    // largura do retângulo
}

func (s *RangeSource) Descricao() string {
	return fmt.Sprintf("%s!%s (intervalo %s%d)", s.Path, s.Aba, s.AnchorCol, s.HeaderRow)
}

func (s *RangeSource) Check() error {
	return checkArquivo(s.Path)
}

func (s *RangeSource) Read(ctx context.Context) (*Tabela, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	aba := s.Aba
	if aba == "" {
		aba = f.GetSheetName(0)
	}
	rows, err := f.GetRows(aba)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	anchorNum, err := excelize.ColumnNameToNumber(s.AnchorCol)
	if err != nil {
		return nil, fmt.Errorf("coluna âncora inválida: %s", s.AnchorCol)
	}
	anchor := anchorNum - 1

	hdr := s.HeaderRow - 1
	if hdr < 0 || hdr >= len(rows) {
		return nil, fmt.Errorf("Cabeçalho não encontrado na linha %d", s.HeaderRow)
	}

	headers := pickHeader(sliceRange(rows[hdr], anchor, s.NumCols))

	// Última linha preenchida: varre de baixo para cima pela coluna âncora.
	last := hdr
	for i := len(rows) - 1; i > hdr; i-- {
		if anchor < len(rows[i]) && strings.TrimSpace(rows[i][anchor]) != "" {
			last = i
			break
		}
	}
	if last == hdr {
		return nil, fmt.Errorf("Nenhum dado encontrado abaixo de %s%d", s.AnchorCol, s.HeaderRow)
	}

	// Fatia, completa e propaga para baixo.
	prev := make([]string, s.NumCols)
	linhas := make([]map[string]any, 0, last-hdr)
	for i := hdr + 1; i <= last; i++ {
		cols := sliceRange(rows[i], anchor, s.NumCols)
		for c := range cols {
			cols[c] = strings.TrimSpace(cols[c])
			if cols[c] == "" {
				cols[c] = prev[c] // forward-fill
			}
		}
		copy(prev, cols)

		m := make(map[string]any, len(headers))
		for c, h := range headers {
			m[h] = cols[c]
		}
		linhas = append(linhas, m)
	}

	return &Tabela{Colunas: headers, Linhas: linhas}, nil
}

// sliceRange recorta width colunas a partir de start, completando com vazio
// o que a linha não tiver.
func sliceRange(row []string, start, width int) []string {
	out := make([]string, width)
	for c := 0; c < width; c++ {
		if start+c < len(row) {
			out[c] = row[start+c]
		}
	}
	return out
}
