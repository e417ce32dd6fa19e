package tema

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubPersistencia struct {
	salvos []string
	falha  error
}

func (p *stubPersistencia) SalvarTema(ctx context.Context, modo string) error {
	if p.falha != nil {
		return p.falha
	}
	p.salvos = append(p.salvos, modo)
	return nil
}

func schedulerEm(t *testing.T, modo string, hora int, persistir Persistencia) *Scheduler {
	t.Helper()
	s := NewScheduler(modo, IntervaloPadrao, persistir, zerolog.Nop())
	s.agora = func() time.Time {
		return time.Date(2026, time.August, 15, hora, 30, 0, 0, time.Local)
	}
	s.reavaliar()
	return s
}

func TestReavaliarAutoPorHorario(t *testing.T) {
	casos := []struct {
		hora  int
		ativo string
	}{
		{5, ModoEscuro},
		{6, ModoClaro},
		{12, ModoClaro},
		{17, ModoClaro},
		{18, ModoEscuro},
		{23, ModoEscuro},
	}

	for _, c := range casos {
		s := schedulerEm(t, ModoAuto, c.hora, nil)
		if got := s.Ativo(); got != c.ativo {
			t.Fatalf("hora %d: expected %s got %s", c.hora, c.ativo, got)
		}
	}
}

func TestModoExplicitoIgnoraRelogio(t *testing.T) {
	s := schedulerEm(t, ModoClaro, 23, nil)
	if got := s.Ativo(); got != ModoClaro {
		t.Fatalf("expected %s got %s", ModoClaro, got)
	}
}

func TestDefinirModoPersisteEReavalia(t *testing.T) {
	persistencia := &stubPersistencia{}
	s := schedulerEm(t, ModoAuto, 12, persistencia)

	if err := s.DefinirModo(context.Background(), ModoEscuro); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if s.Ativo() != ModoEscuro {
		t.Fatalf("ativo: expected %s got %s", ModoEscuro, s.Ativo())
	}
	if len(persistencia.salvos) != 1 || persistencia.salvos[0] != ModoEscuro {
		t.Fatalf("persistência errada: %v", persistencia.salvos)
	}
}

func TestDefinirModoInvalido(t *testing.T) {
	s := schedulerEm(t, ModoAuto, 12, nil)
	if err := s.DefinirModo(context.Background(), "sepia"); err != ErrModoInvalido {
		t.Fatalf("expected ErrModoInvalido got %v", err)
	}
}

func TestAlternarNuncaVaiParaAuto(t *testing.T) {
	persistencia := &stubPersistencia{}
	s := schedulerEm(t, ModoAuto, 12, persistencia)

	// Meio-dia em auto resolve para claro; alternar leva a escuro explícito.
	novo, err := s.Alternar(context.Background())
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if novo != ModoEscuro {
		t.Fatalf("expected %s got %s", ModoEscuro, novo)
	}
	if s.Modo() != ModoEscuro {
		t.Fatalf("modo deveria virar explícito: %s", s.Modo())
	}

	novo, err = s.Alternar(context.Background())
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if novo != ModoClaro {
		t.Fatalf("expected %s got %s", ModoClaro, novo)
	}
	if len(persistencia.salvos) != 2 {
		t.Fatalf("esperava 2 persistências, obtive %d", len(persistencia.salvos))
	}
}

func TestModoInicialInvalidoCaiEmAuto(t *testing.T) {
	s := NewScheduler("qualquer", IntervaloPadrao, nil, zerolog.Nop())
	if s.Modo() != ModoAuto {
		t.Fatalf("expected %s got %s", ModoAuto, s.Modo())
	}
}

func TestStartStopEncerraLoop(t *testing.T) {
	s := NewScheduler(ModoAuto, 10*time.Millisecond, nil, zerolog.Nop())
	s.Start(context.Background())
	s.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	s.Stop()
}
