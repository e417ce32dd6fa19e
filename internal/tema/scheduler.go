// Package tema deriva o modo de apresentação (claro/escuro) da preferência
// explícita ou do relógio local, reavaliando em intervalo fixo para pegar a
// virada do dia com o painel aberto.
package tema

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	ModoClaro  = "claro"
	ModoEscuro = "escuro"
	ModoAuto   = "auto"

	// IntervaloPadrao de reavaliação do modo automático.
	IntervaloPadrao = time.Minute
)

var ErrModoInvalido = errors.New("modo de tema inválido")

// Persistencia grava a escolha explícita do usuário.
type Persistencia interface {
	SalvarTema(ctx context.Context, modo string) error
}

// Scheduler reavalia o tema ativo no momento da troca de modo e a cada tick.
type Scheduler struct {
	mu        sync.Mutex
	modo      string
	ativo     string
	intervalo time.Duration
	agora     func() time.Time
	persistir Persistencia
	logger    zerolog.Logger

	once   sync.Once
	cancel context.CancelFunc
}

// NewScheduler cria o agendador com o modo inicial informado. persistir
// pode ser nil quando não há onde guardar a preferência.
func NewScheduler(modoInicial string, intervalo time.Duration, persistir Persistencia, logger zerolog.Logger) *Scheduler {
	if intervalo <= 0 {
		intervalo = IntervaloPadrao
	}
	if !modoValido(modoInicial) {
		modoInicial = ModoAuto
	}
	s := &Scheduler{
		modo:      modoInicial,
		intervalo: intervalo,
		agora:     time.Now,
		persistir: persistir,
		logger:    logger,
	}
	s.reavaliar()
	return s
}

// Start inicia o loop periódico. Safe para chamar múltiplas vezes.
func (s *Scheduler) Start(parent context.Context) {
	s.once.Do(func() {
		ctx, cancel := context.WithCancel(parent)
		s.cancel = cancel
		go s.runLoop(ctx)
	})
}

// Stop encerra o loop periódico.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Scheduler) runLoop(ctx context.Context) {
	ticker := time.NewTicker(s.intervalo)
	defer ticker.Stop()

	s.logger.Info().Dur("intervalo", s.intervalo).Msg("tema: loop iniciado")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("tema: loop encerrado")
			return
		case <-ticker.C:
			s.reavaliar()
		}
	}
}

// DefinirModo troca o modo e reavalia imediatamente, persistindo a escolha.
func (s *Scheduler) DefinirModo(ctx context.Context, modo string) error {
	if !modoValido(modo) {
		return ErrModoInvalido
	}

	s.mu.Lock()
	s.modo = modo
	s.mu.Unlock()
	s.reavaliar()

	return s.salvar(ctx, modo)
}

// Alternar alterna explicitamente entre claro e escuro a partir do tema
// ativo. Nunca leva para auto; a escolha explícita é persistida.
func (s *Scheduler) Alternar(ctx context.Context) (string, error) {
	s.mu.Lock()
	novo := ModoEscuro
	if s.ativo == ModoEscuro {
		novo = ModoClaro
	}
	s.modo = novo
	s.ativo = novo
	s.mu.Unlock()

	return novo, s.salvar(ctx, novo)
}

// Modo devolve o modo configurado (claro, escuro ou auto).
func (s *Scheduler) Modo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modo
}

// Ativo devolve o tema em vigor (sempre claro ou escuro).
func (s *Scheduler) Ativo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ativo
}

// reavaliar recalcula o tema ativo. Em auto, escuro vale antes das 6h e a
// partir das 18h locais.
func (s *Scheduler) reavaliar() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.modo != ModoAuto {
		s.ativo = s.modo
		return
	}

	hora := s.agora().Hour()
	if hora < 6 || hora >= 18 {
		s.ativo = ModoEscuro
	} else {
		s.ativo = ModoClaro
	}
}

func (s *Scheduler) salvar(ctx context.Context, modo string) error {
	if s.persistir == nil {
		return nil
	}
	if err := s.persistir.SalvarTema(ctx, modo); err != nil {
		s.logger.Warn().Err(err).Msg("tema: falha ao persistir preferência")
		return err
	}
	return nil
}

func modoValido(modo string) bool {
	switch modo {
	case ModoClaro, ModoEscuro, ModoAuto:
		return true
	}
	return false
}
