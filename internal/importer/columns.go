package importer

import (
	"fmt"
	"strings"
)

// Campos lógicos que a importação precisa achar no cabeçalho. As listas de
// candidatos vêm das variações que já apareceram na planilha da fábrica; as
// palavras-chave cobrem o fallback por substring (cabeçalhos fora do padrão,
// tipo "Qtd. Produzida" ou "Data de Entrega").
type campoPlanilha struct {
	nome       string
	candidatos []string // match exato, sem acento e sem caixa
	keywords   []string // fallback: substring, sem acento e sem caixa
	requerido  bool
}

var camposImportacao = []campoPlanilha{
	{nome: "Data", candidatos: []string{"data"}, keywords: []string{"data"}, requerido: true},
	{nome: "Cliente", candidatos: []string{"cliente", "o cliente", "cliente nome"}, keywords: []string{"cliente"}, requerido: true},
	{nome: "Modelo", candidatos: []string{"modelo"}, keywords: []string{"modelo"}, requerido: true},
	{nome: "Quantidade", candidatos: []string{"quantidade", "qtd", "qtd."}, keywords: []string{"quant", "qtd"}, requerido: true},
	{nome: "Pronto", candidatos: []string{"pronto", "ok"}, keywords: []string{"pronto", "ok"}, requerido: false},
}

// ColumnMap liga cada campo lógico ao cabeçalho real da tabela.
// Pronto fica vazio quando a coluna não existe (flag opcional).
type ColumnMap struct {
	Data       string
	Cliente    string
	Modelo     string
	Quantidade string
	Pronto     string
}

// MissingColumnsError lista os campos obrigatórios que não foram resolvidos.
type MissingColumnsError struct {
	Campos []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("Colunas obrigatórias não encontradas (%s).", strings.Join(e.Campos, ", "))
}

// ResolveColumns resolve o cabeçalho uma vez por importação. Primeiro tenta
// match exato contra os candidatos configurados; se nada bater, tenta
// substring com as palavras-chave. Comparação sempre sem acento/caixa.
func ResolveColumns(headers []string) (*ColumnMap, error) {
	folded := make([]string, len(headers))
	for i, h := range headers {
		folded[i] = foldKey(h)
	}

	resolve := func(campo campoPlanilha) string {
		for _, cand := range campo.candidatos {
			key := foldKey(cand)
			for i, h := range folded {
				if h == key {
					return headers[i]
				}
			}
		}
		for _, kw := range campo.keywords {
			key := foldKey(kw)
			for i, h := range folded {
				if strings.Contains(h, key) {
					return headers[i]
				}
			}
		}
		return ""
	}

	cm := &ColumnMap{}
	var faltando []string
	for _, campo := range camposImportacao {
		col := resolve(campo)
		if col == "" && campo.requerido {
			faltando = append(faltando, campo.nome)
			continue
		}
		switch campo.nome {
		case "Data":
			cm.Data = col
		case "Cliente":
			cm.Cliente = col
		case "Modelo":
			cm.Modelo = col
		case "Quantidade":
			cm.Quantidade = col
		case "Pronto":
			cm.Pronto = col
		}
	}

	if len(faltando) > 0 {
		return nil, &MissingColumnsError{Campos: faltando}
	}
	return cm, nil
}
