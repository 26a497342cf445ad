package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"venttos-backend/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore guarda tudo em memória; chave do upsert é modelo|data.
type fakeStore struct {
	clientes  map[string]*models.Cliente
	status    map[string]*models.ItemStatus
	nextID    uint
	commitErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clientes: make(map[string]*models.Cliente),
		status:   make(map[string]*models.ItemStatus),
	}
}

func statusKey(modelo string, data time.Time) string {
	return modelo + "|" + data.Format("2006-01-02")
}

func (s *fakeStore) FindClienteByNome(nome string) (*models.Cliente, error) {
	return s.clientes[nome], nil
}

func (s *fakeStore) CreateCliente(c *models.Cliente) error {
	s.nextID++
	c.ID = s.nextID
	s.clientes[c.Nome] = c
	return nil
}

func (s *fakeStore) FindItemStatus(modelo string, data time.Time) (*models.ItemStatus, error) {
	st, ok := s.status[statusKey(modelo, data)]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (s *fakeStore) SaveItemStatus(st *models.ItemStatus) error {
	if st.ID == 0 {
		s.nextID++
		st.ID = s.nextID
	}
	cp := *st
	s.status[statusKey(st.Modelo, st.Data)] = &cp
	return nil
}

func (s *fakeStore) Transaction(fn func(tx Store) error) error {
	if err := fn(s); err != nil {
		return err
	}
	return s.commitErr
}

// fakeSource devolve uma tabela pronta; block segura o Read para simular
// leitura lenta da rede.
type fakeSource struct {
	desc     string
	tab      *Tabela
	checkErr error
	readErr  error
	block    chan struct{}
}

func (s *fakeSource) Descricao() string { return s.desc }
func (s *fakeSource) Check() error      { return s.checkErr }

func (s *fakeSource) Read(ctx context.Context) (*Tabela, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.tab, nil
}

func tabelaPadrao(linhas ...map[string]any) *Tabela {
	return &Tabela{
		Colunas: []string{"Data", "Cliente", "Modelo", "Quantidade", "Pronto"},
		Linhas:  linhas,
	}
}

func linha(data, cliente, modelo, quantidade, pronto string) map[string]any {
	return map[string]any{
		"Data":       data,
		"Cliente":    cliente,
		"Modelo":     modelo,
		"Quantidade": quantidade,
		"Pronto":     pronto,
	}
}

func newImportadorTeste(store Store) *Importador {
	im := New(store, zerolog.Nop(), 0)
	im.now = func() time.Time {
		return time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	}
	return im
}

func TestImportarCriaEAtualiza(t *testing.T) {
	store := newFakeStore()
	im := newImportadorTeste(store)
	src := &fakeSource{desc: "teste", tab: tabelaPadrao(
		linha("12/05/2024", "Venttos", "VT-100", "10", "sim"),
		linha("12/05/2024", "Venttos", "VT-200", "5", ""),
	)}

	resumo := im.Importar(context.Background(), src)
	assert.Equal(t, 2, resumo.Created)
	assert.Equal(t, 0, resumo.Updated)
	assert.Empty(t, resumo.Errors)

	data := time.Date(2024, time.May, 12, 0, 0, 0, 0, time.UTC)
	st, err := store.FindItemStatus("VT-100", data)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, models.StatusPronto, st.Status)
	assert.Equal(t, 10, st.Quantidade)
	assert.Equal(t, AtorImportacao, st.UsuarioUltimoUpdate)

	st, err = store.FindItemStatus("VT-200", data)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, models.StatusRecebido, st.Status)

	// Segunda rodada sem mudanças: tudo vira update.
	resumo = im.Importar(context.Background(), src)
	assert.Equal(t, 0, resumo.Created)
	assert.Equal(t, 2, resumo.Updated)
	assert.Empty(t, resumo.Errors)
}

func TestImportarClienteVazioPulaLinha(t *testing.T) {
	store := newFakeStore()
	im := newImportadorTeste(store)
	src := &fakeSource{desc: "teste", tab: tabelaPadrao(
		linha("12/05/2024", "   ", "VT-100", "10", ""),
	)}

	resumo := im.Importar(context.Background(), src)
	assert.Equal(t, 0, resumo.Created)
	assert.Equal(t, 0, resumo.Updated)
	assert.Equal(t, []string{"Linha 2: cliente ou modelo vazio. Pulando."}, resumo.Errors)
	assert.Empty(t, store.status)
}

func TestImportarLinhaVaziaNaoDesalinhaNumeracao(t *testing.T) {
	store := newFakeStore()
	im := newImportadorTeste(store)

	// Linha 2 ok, linha 3 fisicamente vazia (vem como nil), linha 4 com
	// problema: o erro precisa apontar a linha 4 da planilha, não a 3.
	src := &fakeSource{desc: "teste", tab: tabelaPadrao(
		linha("12/05/2024", "Venttos", "VT-100", "10", ""),
		nil,
		linha("12/05/2024", "   ", "VT-200", "5", ""),
	)}

	resumo := im.Importar(context.Background(), src)
	assert.Equal(t, 1, resumo.Created)
	assert.Equal(t, []string{"Linha 4: cliente ou modelo vazio. Pulando."}, resumo.Errors)
}

func TestImportarColunaObrigatoriaFaltando(t *testing.T) {
	store := newFakeStore()
	im := newImportadorTeste(store)
	src := &fakeSource{desc: "teste", tab: &Tabela{
		Colunas: []string{"Data", "Cliente", "Modelo"},
		Linhas:  []map[string]any{{"Data": "12/05/2024", "Cliente": "Venttos", "Modelo": "VT-100"}},
	}}

	resumo := im.Importar(context.Background(), src)
	assert.Equal(t, 0, resumo.Created)
	assert.Equal(t, 0, resumo.Updated)
	require.Len(t, resumo.Errors, 1)
	assert.Contains(t, resumo.Errors[0], "Colunas obrigatórias não encontradas")
	assert.Contains(t, resumo.Errors[0], "Quantidade")
}

func TestImportarUltimaLinhaVence(t *testing.T) {
	store := newFakeStore()
	im := newImportadorTeste(store)
	src := &fakeSource{desc: "teste", tab: tabelaPadrao(
		linha("12/05/2024", "Venttos", "VT-100", "10", ""),
		linha("12/05/2024", "Venttos", "VT-100", "25", "sim"),
	)}

	resumo := im.Importar(context.Background(), src)
	assert.Equal(t, 1, resumo.Created)
	assert.Equal(t, 1, resumo.Updated)

	data := time.Date(2024, time.May, 12, 0, 0, 0, 0, time.UTC)
	require.Len(t, store.status, 1)
	st, _ := store.FindItemStatus("VT-100", data)
	require.NotNil(t, st)
	assert.Equal(t, 25, st.Quantidade)
	assert.Equal(t, models.StatusPronto, st.Status)
}

func TestImportarArquivoInexistente(t *testing.T) {
	store := newFakeStore()
	im := newImportadorTeste(store)
	src := &fakeSource{desc: "teste", checkErr: fmt.Errorf("Arquivo não encontrado: /rede/pcp.xlsm")}

	resumo := im.Importar(context.Background(), src)
	assert.Equal(t, []string{"Arquivo não encontrado: /rede/pcp.xlsm"}, resumo.Errors)
	assert.Equal(t, 0, resumo.Created)
	assert.Equal(t, 0, resumo.Updated)
}

func TestImportarPlanilhaVazia(t *testing.T) {
	store := newFakeStore()
	im := newImportadorTeste(store)
	src := &fakeSource{desc: "teste", tab: &Tabela{}}

	resumo := im.Importar(context.Background(), src)
	assert.Equal(t, []string{"Planilha vazia."}, resumo.Errors)
}

func TestImportarErroDeLeitura(t *testing.T) {
	store := newFakeStore()
	im := newImportadorTeste(store)
	src := &fakeSource{desc: "teste", readErr: errors.New("zip corrompido")}

	resumo := im.Importar(context.Background(), src)
	require.Len(t, resumo.Errors, 1)
	assert.Contains(t, resumo.Errors[0], "Erro ao ler a planilha")
}

func TestImportarErroNoCommit(t *testing.T) {
	store := newFakeStore()
	store.commitErr = errors.New("conexão perdida")
	im := newImportadorTeste(store)
	src := &fakeSource{desc: "teste", tab: tabelaPadrao(
		linha("12/05/2024", "Venttos", "VT-100", "10", ""),
	)}

	resumo := im.Importar(context.Background(), src)
	require.Len(t, resumo.Errors, 1)
	assert.Contains(t, resumo.Errors[0], "Erro no commit do DB")
	assert.Equal(t, 0, resumo.Created, "rollback não deixa linha contada")
	assert.Equal(t, 0, resumo.Updated)
}

func TestImportarNaoSobrepoe(t *testing.T) {
	store := newFakeStore()
	im := newImportadorTeste(store)

	bloqueio := make(chan struct{})
	lento := &fakeSource{desc: "mesma-origem", tab: tabelaPadrao(), block: bloqueio}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		im.Importar(context.Background(), lento)
	}()

	// Espera a primeira rodada segurar a trava.
	require.Eventually(t, func() bool {
		lock := im.sourceLock("mesma-origem")
		if lock.TryLock() {
			lock.Unlock()
			return false
		}
		return true
	}, time.Second, 5*time.Millisecond)

	segunda := im.Importar(context.Background(), &fakeSource{desc: "mesma-origem", tab: tabelaPadrao()})
	require.Len(t, segunda.Errors, 1)
	assert.Contains(t, segunda.Errors[0], "Importação já em andamento")

	close(bloqueio)
	wg.Wait()

	// Origem diferente não é afetada pela trava.
	outra := im.Importar(context.Background(), &fakeSource{desc: "outra-origem", tab: tabelaPadrao(
		linha("12/05/2024", "Venttos", "VT-100", "1", ""),
	)})
	assert.Empty(t, outra.Errors)
	assert.Equal(t, 1, outra.Created)
}

func TestImportarTimeout(t *testing.T) {
	store := newFakeStore()
	im := New(store, zerolog.Nop(), 20*time.Millisecond)

	nuncaResponde := &fakeSource{desc: "rede-fora", block: make(chan struct{})}
	resumo := im.Importar(context.Background(), nuncaResponde)
	require.Len(t, resumo.Errors, 1)
	assert.Contains(t, resumo.Errors[0], "Erro ao ler a planilha")
}

func TestImportarErroDeLinhaNaoDerrubaLote(t *testing.T) {
	store := newFakeStore()
	im := newImportadorTeste(store)

	// Erro vindo do banco na primeira linha vira erro daquela linha;
	// as seguintes continuam sendo processadas.
	src := &fakeSource{desc: "teste", tab: tabelaPadrao(
		linha("12/05/2024", "Venttos", "VT-100", "10", ""),
		linha("12/05/2024", "Venttos", "VT-200", "5", ""),
	)}
	falha := &storeFalhaUmaVez{Store: store}
	imFalha := New(falha, zerolog.Nop(), 0)
	imFalha.now = im.now

	resumo := imFalha.Importar(context.Background(), src)
	require.Len(t, resumo.Errors, 1)
	assert.Contains(t, resumo.Errors[0], "Linha 2: erro -")
	assert.Equal(t, 1, resumo.Created, "a segunda linha continua entrando")
}

// storeFalhaUmaVez injeta erro só na primeira busca de cliente.
type storeFalhaUmaVez struct {
	Store
	chamadas int
}

func (s *storeFalhaUmaVez) FindClienteByNome(nome string) (*models.Cliente, error) {
	s.chamadas++
	if s.chamadas == 1 {
		return nil, errors.New("deadlock detectado")
	}
	return s.Store.FindClienteByNome(nome)
}

func (s *storeFalhaUmaVez) Transaction(fn func(tx Store) error) error {
	return fn(s)
}
