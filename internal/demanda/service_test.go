package demanda

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubEstoque struct {
	status    map[string]string
	versoes   map[string]uint64
	conectado bool
}

func newStubEstoque(conectado bool) *stubEstoque {
	return &stubEstoque{
		status:    map[string]string{"D1": StatusPendente},
		versoes:   map[string]uint64{},
		conectado: conectado,
	}
}

func (s *stubEstoque) AplicarStatus(id, novo string) (string, uint64, bool) {
	atual, ok := s.status[id]
	if !ok || atual == novo {
		return "", 0, false
	}
	s.status[id] = novo
	s.versoes[id]++
	return atual, s.versoes[id], true
}

func (s *stubEstoque) Reverter(id string, versao uint64, anterior string) bool {
	if s.versoes[id] != versao {
		return false
	}
	s.status[id] = anterior
	return true
}

func (s *stubEstoque) Conectado() bool { return s.conectado }

type stubRemoto struct {
	falhaStatus    error
	falhaInteracao error
	statusCalls    int
	interacoes     []Interacao
}

func (r *stubRemoto) AtualizarStatusDemanda(ctx context.Context, id, status string) error {
	r.statusCalls++
	return r.falhaStatus
}

func (r *stubRemoto) InserirInteracao(ctx context.Context, i Interacao) error {
	if r.falhaInteracao != nil {
		return r.falhaInteracao
	}
	r.interacoes = append(r.interacoes, i)
	return nil
}

type stubAvisos struct {
	sucessos []string
	erros    []string
}

func (a *stubAvisos) Sucesso(msg string) { a.sucessos = append(a.sucessos, msg) }
func (a *stubAvisos) Erro(msg string)    { a.erros = append(a.erros, msg) }

func TestAtualizarStatusComSucesso(t *testing.T) {
	estoque := newStubEstoque(true)
	remoto := &stubRemoto{}
	avisos := &stubAvisos{}
	refreshes := 0

	svc := NewService(estoque, remoto, avisos, func(ctx context.Context) error {
		refreshes++
		return nil
	})

	if err := svc.AtualizarStatus(context.Background(), "D1", StatusConcluida, "Maria Souza"); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	if estoque.status["D1"] != StatusConcluida {
		t.Fatalf("status local: expected %s got %s", StatusConcluida, estoque.status["D1"])
	}
	if len(remoto.interacoes) != 1 {
		t.Fatalf("esperava 1 interação, obtive %d", len(remoto.interacoes))
	}
	interacao := remoto.interacoes[0]
	if interacao.Tipo != TipoStatusChange {
		t.Fatalf("tipo errado: %s", interacao.Tipo)
	}
	if interacao.Autor != "Maria Souza" {
		t.Fatalf("autor errado: %s", interacao.Autor)
	}
	if !strings.Contains(interacao.Nota, StatusPendente) || !strings.Contains(interacao.Nota, StatusConcluida) {
		t.Fatalf("nota não descreve a transição: %s", interacao.Nota)
	}
	if refreshes != 1 {
		t.Fatalf("esperava 1 refresh, obtive %d", refreshes)
	}
	if len(avisos.sucessos) != 1 {
		t.Fatalf("esperava notificação de sucesso")
	}
}

func TestAtualizarStatusRollbackQuandoRemotoFalha(t *testing.T) {
	estoque := newStubEstoque(true)
	remoto := &stubRemoto{falhaStatus: errors.New("sem rede")}
	avisos := &stubAvisos{}

	svc := NewService(estoque, remoto, avisos, nil)

	err := svc.AtualizarStatus(context.Background(), "D1", StatusConcluida, "")
	if err == nil {
		t.Fatal("esperava erro")
	}
	if estoque.status["D1"] != StatusPendente {
		t.Fatalf("rollback falhou: status %s", estoque.status["D1"])
	}
	if len(avisos.erros) != 1 || !strings.Contains(avisos.erros[0], "sem rede") {
		t.Fatalf("notificação de erro sem a causa: %v", avisos.erros)
	}
}

func TestAtualizarStatusRollbackQuandoInteracaoFalha(t *testing.T) {
	estoque := newStubEstoque(true)
	remoto := &stubRemoto{falhaInteracao: errors.New("auditoria indisponível")}
	avisos := &stubAvisos{}

	svc := NewService(estoque, remoto, avisos, nil)

	if err := svc.AtualizarStatus(context.Background(), "D1", StatusEmAndamento, ""); err == nil {
		t.Fatal("esperava erro")
	}
	if estoque.status["D1"] != StatusPendente {
		t.Fatalf("rollback falhou: status %s", estoque.status["D1"])
	}
}

func TestAtualizarStatusIdempotente(t *testing.T) {
	estoque := newStubEstoque(true)
	remoto := &stubRemoto{}
	avisos := &stubAvisos{}

	svc := NewService(estoque, remoto, avisos, nil)

	// Mesmo status vigente: nenhuma mutação, nenhuma chamada remota.
	if err := svc.AtualizarStatus(context.Background(), "D1", StatusPendente, ""); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if remoto.statusCalls != 0 {
		t.Fatalf("não deveria chamar o remoto, chamou %d vezes", remoto.statusCalls)
	}

	// Demanda desconhecida: mesmo comportamento.
	if err := svc.AtualizarStatus(context.Background(), "NAO-EXISTE", StatusConcluida, ""); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if remoto.statusCalls != 0 {
		t.Fatalf("não deveria chamar o remoto, chamou %d vezes", remoto.statusCalls)
	}
}

func TestAtualizarStatusOfflineMantemCommitLocal(t *testing.T) {
	estoque := newStubEstoque(false)
	remoto := &stubRemoto{}
	avisos := &stubAvisos{}

	svc := NewService(estoque, remoto, avisos, nil)

	if err := svc.AtualizarStatus(context.Background(), "D1", StatusConcluida, ""); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if estoque.status["D1"] != StatusConcluida {
		t.Fatalf("commit local deveria permanecer: %s", estoque.status["D1"])
	}
	if remoto.statusCalls != 0 {
		t.Fatal("offline não deveria chamar o remoto")
	}
}

func TestAtualizarStatusInvalido(t *testing.T) {
	svc := NewService(newStubEstoque(true), &stubRemoto{}, &stubAvisos{}, nil)
	if err := svc.AtualizarStatus(context.Background(), "D1", "qualquer", ""); !errors.Is(err, ErrStatusInvalido) {
		t.Fatalf("expected ErrStatusInvalido got %v", err)
	}
}

func TestAtualizarStatusAutorPadrao(t *testing.T) {
	estoque := newStubEstoque(true)
	remoto := &stubRemoto{}

	svc := NewService(estoque, remoto, &stubAvisos{}, nil)
	if err := svc.AtualizarStatus(context.Background(), "D1", StatusConcluida, ""); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if remoto.interacoes[0].Autor != AutorSistema {
		t.Fatalf("expected %s got %s", AutorSistema, remoto.interacoes[0].Autor)
	}
}
