// Package notify guarda a notificação efêmera do painel: no máximo uma
// mensagem ativa, substituída por novas e expirada automaticamente.
package notify

import (
	"sync"
	"time"
)

const (
	TipoSucesso = "sucesso"
	TipoErro    = "erro"

	// DuracaoPadrao é a vida útil de uma notificação não substituída.
	DuracaoPadrao = 4 * time.Second
)

// Notificacao é a mensagem transitória exibida ao usuário.
type Notificacao struct {
	Tipo     string    `json:"tipo"`
	Mensagem string    `json:"mensagem"`
	CriadaEm time.Time `json:"criada_em"`
}

// Service mantém no máximo uma notificação ativa.
type Service struct {
	mu    sync.Mutex
	atual *Notificacao
	timer *time.Timer
	seq   uint64
	ttl   time.Duration
}

// NewService cria serviço com a duração informada (padrão 4s).
func NewService(ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DuracaoPadrao
	}
	return &Service{ttl: ttl}
}

// Sucesso publica notificação de sucesso, substituindo qualquer pendente.
func (s *Service) Sucesso(mensagem string) {
	s.publicar(TipoSucesso, mensagem)
}

// Erro publica notificação de erro, substituindo qualquer pendente.
func (s *Service) Erro(mensagem string) {
	s.publicar(TipoErro, mensagem)
}

func (s *Service) publicar(tipo, mensagem string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.seq++
	seq := s.seq
	s.atual = &Notificacao{Tipo: tipo, Mensagem: mensagem, CriadaEm: time.Now()}
	s.timer = time.AfterFunc(s.ttl, func() {
		s.expirar(seq)
	})
}

// expirar só limpa se a notificação corrente ainda for a agendada.
func (s *Service) expirar(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq == seq {
		s.atual = nil
	}
}

// Atual devolve a notificação ativa ou nil.
func (s *Service) Atual() *Notificacao {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.atual == nil {
		return nil
	}
	copia := *s.atual
	return &copia
}

// Limpar descarta a notificação ativa e cancela a expiração pendente.
func (s *Service) Limpar() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.atual = nil
}
