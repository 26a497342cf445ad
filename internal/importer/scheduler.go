package importer

import (
	"context"
	"time"
)

// StartScheduler dispara uma rodada imediata e depois repete no intervalo
// dado, até stop ser chamado. O resumo de cada rodada vai para o log do
// operador; a rodada automática roda como o ator do sistema, sem usuário.
func (im *Importador) StartScheduler(src Source, interval time.Duration) (stop func()) {
	done := make(chan struct{})

	run := func() {
		resumo := im.Importar(context.Background(), src)
		im.log.Info().
			Str("origem", src.Descricao()).
			Int("created", resumo.Created).
			Int("updated", resumo.Updated).
			Strs("errors", resumo.Errors).
			Msg("importação automática executada")
	}

	go func() {
		run()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				run()
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }
}
