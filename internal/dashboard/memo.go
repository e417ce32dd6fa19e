package dashboard

import (
	"hash/fnv"
	"strconv"
	"sync"
	"time"
)

// Memo guarda o último resultado de Calcular, chaveado pela assinatura
// estrutural da entrada. A memoização vive fora de qualquer mecanismo de
// re-renderização: mesma tupla de entrada, mesmo resultado sem recomputar.
type Memo struct {
	mu         sync.Mutex
	assinatura uint64
	stats      Stats
	valido     bool
}

// Calcular devolve o resultado memoizado quando a assinatura da entrada
// não mudou desde a última chamada.
func (m *Memo) Calcular(e Entrada) Stats {
	assinatura := assinar(e)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valido && m.assinatura == assinatura {
		return m.stats
	}

	m.stats = Calcular(e)
	m.assinatura = assinatura
	m.valido = true
	return m.stats
}

// Invalidar descarta o resultado memoizado.
func (m *Memo) Invalidar() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.valido = false
}

// assinar resume a entrada em um hash estrutural. O relógio entra truncado
// ao minuto para que leituras próximas compartilhem o resultado.
func assinar(e Entrada) uint64 {
	h := fnv.New64a()

	escrever := func(s string) {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{0})
	}

	escrever(e.Escopo)
	escrever(e.Janela)

	agora := e.Agora
	if agora.IsZero() {
		agora = time.Now()
	}
	escrever(strconv.FormatInt(agora.Truncate(time.Minute).Unix(), 10))

	for _, d := range e.Demandas {
		escrever(d.ID)
		escrever(d.Status)
		escrever(d.Prioridade)
		escrever(strconv.FormatInt(d.AtualizadaEm.UnixNano(), 10))
	}
	for _, c := range e.Cidadaos {
		escrever(c.ID)
		escrever(strconv.FormatInt(c.CriadoEm.UnixNano(), 10))
	}

	return h.Sum64()
}
