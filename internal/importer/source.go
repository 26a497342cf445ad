package importer

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Tabela é o formato lógico que os dois adapters entregam ao reconciliador:
// cabeçalhos resolvidos (nunca vazios) e linhas como mapa cabeçalho->célula.
// Linha totalmente vazia no meio da planilha entra como nil, para a posição
// na fatia continuar batendo com a linha física do arquivo.
type Tabela struct {
	Colunas []string
	Linhas  []map[string]any
}

// Source abstrai de onde a planilha vem. Hoje existem duas variantes:
// FileSource lê a aba inteira do arquivo; RangeSource lê o retângulo
// ancorado da planilha interativa da fábrica.
type Source interface {
	// Descricao identifica a origem em logs e no guard de execução.
	Descricao() string
	// Check verifica se a origem existe/está acessível antes da leitura.
	Check() error
	// Read carrega a tabela completa. Falha de leitura ou aba inexistente
	// viram erro; a liberação do arquivo é garantida mesmo com erro.
	Read(ctx context.Context) (*Tabela, error)
}

func checkArquivo(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("Arquivo não encontrado: %s", path)
	}
	return nil
}

// pickHeader limpa a linha de cabeçalho e troca vazios pelo placeholder
// posicional coluna_N.
func pickHeader(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		name := CleanHeaderName(h)
		if name == "" {
			name = fmt.Sprintf("coluna_%d", i+1)
		}
		out[i] = name
	}
	return out
}

// rowsToMaps monta as linhas lógicas. Linha totalmente vazia vira nil em vez
// de sumir, senão a numeração de erro deixa de bater com a planilha; as nil
// do final são descartadas.
func rowsToMaps(rows [][]string, headers []string) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, rec := range rows {
		m := make(map[string]any, len(headers))
		empty := true
		for c, h := range headers {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			m[h] = v
		}
		if empty {
			out = append(out, nil)
			continue
		}
		out = append(out, m)
	}
	for len(out) > 0 && out[len(out)-1] == nil {
		out = out[:len(out)-1]
	}
	return out
}
