package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	xls "github.com/extrame/xls"
	excelize "github.com/xuri/excelize/v2"
)

// FileSource lê a aba inteira de um arquivo de planilha (.xlsx/.xlsm via
// excelize, .xls legado via extrame/xls). HeaderRow é 1-based.
type FileSource struct {
	Path      string
	Aba       string
	HeaderRow int
}

func (s *FileSource) Descricao() string {
	return fmt.Sprintf("%s!%s", s.Path, s.Aba)
}

func (s *FileSource) Check() error {
	return checkArquivo(s.Path)
}

func (s *FileSource) Read(ctx context.Context) (*Tabela, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".xls":
		rows, err = readXLS(s.Path, s.Aba)
	default:
		rows, err = readXLSX(s.Path, s.Aba)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hdr := s.HeaderRow - 1
	if hdr < 0 || hdr >= len(rows) {
		return &Tabela{}, nil
	}

	headers := pickHeader(rows[hdr])
	return &Tabela{
		Colunas: headers,
		Linhas:  rowsToMaps(rows[hdr+1:], headers),
	}, nil
}

func readXLSX(path, aba string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if aba == "" {
		aba = f.GetSheetName(0)
	}
	return f.GetRows(aba)
}

func readXLS(path, aba string) ([][]string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}

	sheet := wb.GetSheet(0)
	for i := 0; i < wb.NumSheets(); i++ {
		if sh := wb.GetSheet(i); sh != nil && sh.Name == aba {
			sheet = sh
			break
		}
	}
	if sheet == nil {
		return nil, fmt.Errorf("aba não encontrada: %s", aba)
	}

	// Largura real: o Row.LastCol do xls antigo não é confiável, então
	// sondamos um número razoável de colunas em todas as linhas.
	const probeMax = 256
	maxCols := 1
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		for j := 0; j < probeMax; j++ {
			if strings.TrimSpace(row.Col(j)) != "" && j+1 > maxCols {
				maxCols = j + 1
			}
		}
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		cols := make([]string, maxCols)
		if row != nil {
			for j := 0; j < maxCols; j++ {
				cols[j] = row.Col(j)
			}
		}
		rows = append(rows, cols)
	}
	return rows, nil
}
