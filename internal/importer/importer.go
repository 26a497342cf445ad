package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrImportacaoEmAndamento: já existe uma rodada rodando para esta origem
// (gatilho manual durante a importação automática, ou vice-versa).
var ErrImportacaoEmAndamento = errors.New("Importação já em andamento")

// Importador orquestra a importação de ponta a ponta: origem -> resolução de
// colunas -> reconciliação -> commit, devolvendo sempre um ImportSummary.
// Uma trava não-reentrante por origem impede rodadas sobrepostas.
type Importador struct {
	store   Store
	log     zerolog.Logger
	timeout time.Duration
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(store Store, logger zerolog.Logger, timeout time.Duration) *Importador {
	return &Importador{
		store:   store,
		log:     logger,
		timeout: timeout,
		now:     time.Now,
		locks:   make(map[string]*sync.Mutex),
	}
}

// Importar roda uma importação completa da origem. Falha de origem (arquivo
// sumido, aba vazia, colunas faltando) encerra cedo com o resumo só de erro;
// linha ruim não aborta o lote. Toda a escrita acontece numa transação só.
func (im *Importador) Importar(ctx context.Context, src Source) *ImportSummary {
	resumo := NewSummary()

	lock := im.sourceLock(src.Descricao())
	if !lock.TryLock() {
		resumo.AddError(fmt.Sprintf("%v para %s.", ErrImportacaoEmAndamento, src.Descricao()))
		im.log.Warn().Str("origem", src.Descricao()).Msg("importação sobreposta bloqueada")
		return resumo
	}
	defer lock.Unlock()

	if im.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, im.timeout)
		defer cancel()
	}

	if err := src.Check(); err != nil {
		resumo.AddError(err.Error())
		im.log.Warn().Str("origem", src.Descricao()).Msg(err.Error())
		return resumo
	}

	tab, err := src.Read(ctx)
	if err != nil {
		resumo.AddError(fmt.Sprintf("Erro ao ler a planilha: %v", err))
		im.log.Error().Err(err).Str("origem", src.Descricao()).Msg("erro lendo planilha")
		return resumo
	}
	if tab == nil || len(tab.Linhas) == 0 {
		resumo.AddError("Planilha vazia.")
		return resumo
	}

	cols, err := ResolveColumns(tab.Colunas)
	if err != nil {
		resumo.AddError(err.Error())
		im.log.Error().Str("origem", src.Descricao()).Msg(err.Error())
		return resumo
	}

	rec := &reconciler{now: im.now}
	err = im.store.Transaction(func(tx Store) error {
		rec.store = tx
		return rec.processAll(ctx, tab, cols, resumo)
	})
	if err != nil {
		// Rollback desfez tudo: os contadores não podem sugerir que
		// alguma linha persistiu.
		resumo.Created = 0
		resumo.Updated = 0
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			resumo.AddError(fmt.Sprintf("Importação cancelada, alterações desfeitas: %v", err))
		} else {
			resumo.AddError(fmt.Sprintf("Erro no commit do DB: %v", err))
		}
		im.log.Error().Err(err).Str("origem", src.Descricao()).Msg("importação não commitada")
	}

	return resumo
}

func (im *Importador) sourceLock(key string) *sync.Mutex {
	im.mu.Lock()
	defer im.mu.Unlock()
	lock, ok := im.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		im.locks[key] = lock
	}
	return lock
}
