package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"venttos-backend/internal/models"
)

// Ator gravado nos registros tocados pela importação automática.
const AtorImportacao = "importacao_automatica"

// ImportSummary é o resultado de uma rodada de importação. Errors carrega
// uma mensagem por linha problemática, com o número da linha da planilha
// (1-based, contando o cabeçalho).
type ImportSummary struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

func NewSummary() *ImportSummary {
	return &ImportSummary{Errors: []string{}}
}

func (r *ImportSummary) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// reconciler aplica os normalizadores linha a linha e faz o upsert no Store.
// Uma linha ruim nunca derruba o lote: o erro entra no resumo e segue.
type reconciler struct {
	store Store
	now   func() time.Time
}

func (rc *reconciler) processAll(ctx context.Context, tab *Tabela, cols *ColumnMap, resumo *ImportSummary) error {
	for idx, row := range tab.Linhas {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Linha vazia vem como nil só para segurar a numeração.
		if row == nil {
			continue
		}
		// idx é 0-based; na planilha a primeira linha de dados é a 2
		// (linha 1 é o cabeçalho).
		linha := idx + 2
		if err := rc.processRow(row, cols, linha, resumo); err != nil {
			resumo.AddError(fmt.Sprintf("Linha %d: erro - %v", linha, err))
		}
	}
	return nil
}

func (rc *reconciler) processRow(row map[string]any, cols *ColumnMap, linha int, resumo *ImportSummary) (err error) {
	// Célula podre (tipo inesperado, indexação, etc.) não pode abortar o
	// lote inteiro; vira erro da linha.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	agora := rc.now()
	data := ParseDate(row[cols.Data], agora)
	clienteNome := strings.TrimSpace(cellString(row[cols.Cliente]))
	modelo := strings.TrimSpace(cellString(row[cols.Modelo]))
	quantidade := ParseQuantity(row[cols.Quantidade])

	prontoFlag := false
	if cols.Pronto != "" {
		prontoFlag = ParseReadyFlag(row[cols.Pronto])
	}

	if clienteNome == "" || modelo == "" {
		resumo.AddError(fmt.Sprintf("Linha %d: cliente ou modelo vazio. Pulando.", linha))
		return nil
	}

	cliente, err := rc.store.FindClienteByNome(clienteNome)
	if err != nil {
		return err
	}
	if cliente == nil {
		cliente = &models.Cliente{Nome: clienteNome}
		if err := rc.store.CreateCliente(cliente); err != nil {
			return err
		}
	}

	status := models.StatusRecebido
	if prontoFlag {
		status = models.StatusPronto
	}

	// Upsert pela chave natural (modelo, data). Duas linhas com a mesma
	// chave no mesmo lote: a última vence.
	existente, err := rc.store.FindItemStatus(modelo, data)
	if err != nil {
		return err
	}
	if existente != nil {
		existente.Quantidade = quantidade
		existente.Status = status
		existente.Cliente = cliente.Nome
		existente.UsuarioUltimoUpdate = AtorImportacao
		existente.HoraUltimoUpdate = agora
		if err := rc.store.SaveItemStatus(existente); err != nil {
			return err
		}
		resumo.Updated++
		return nil
	}

	novo := &models.ItemStatus{
		Cliente:             cliente.Nome,
		Modelo:              modelo,
		Quantidade:          quantidade,
		Status:              status,
		UsuarioUltimoUpdate: AtorImportacao,
		HoraUltimoUpdate:    agora,
		Data:                data,
	}
	if err := rc.store.SaveItemStatus(novo); err != nil {
		return err
	}
	resumo.Created++
	return nil
}
