package demanda

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AutorSistema identifica mutações sem usuário autenticado no trilho de auditoria.
const AutorSistema = "Sistema"

// Remoto expõe as duas operações de persistência remota usadas pela mutação.
type Remoto interface {
	AtualizarStatusDemanda(ctx context.Context, id, status string) error
	InserirInteracao(ctx context.Context, interacao Interacao) error
}

type estoque interface {
	AplicarStatus(id, novo string) (anterior string, versao uint64, ok bool)
	Reverter(id string, versao uint64, anterior string) bool
	Conectado() bool
}

type notificador interface {
	Sucesso(mensagem string)
	Erro(mensagem string)
}

// Service coordena a mutação otimista de status: aplica localmente,
// confirma no remoto com trilha de auditoria e reverte em caso de falha.
type Service struct {
	estoque   estoque
	remoto    Remoto
	notificar notificador
	refrescar func(ctx context.Context) error
}

// NewService cria o coordenador. refrescar dispara o refresh completo da
// fonte após um commit remoto bem-sucedido; pode ser nil em testes.
func NewService(e estoque, r Remoto, n notificador, refrescar func(ctx context.Context) error) *Service {
	return &Service{estoque: e, remoto: r, notificar: n, refrescar: refrescar}
}

// AtualizarStatus executa o protocolo otimista. Demanda inexistente ou
// status já vigente é no-op silencioso: sem mutação, sem chamada remota.
func (s *Service) AtualizarStatus(ctx context.Context, id, novo, autor string) error {
	novo = NormalizeStatus(novo)
	if !IsValidStatus(novo) {
		return ErrStatusInvalido
	}

	anterior, versao, ok := s.estoque.AplicarStatus(id, novo)
	if !ok {
		return nil
	}

	if !s.estoque.Conectado() {
		// Sem conexão o commit local permanece; durabilidade fica com a
		// camada de sincronização offline.
		return nil
	}

	if err := s.remoto.AtualizarStatusDemanda(ctx, id, novo); err != nil {
		s.desfazer(id, versao, anterior, err)
		return fmt.Errorf("atualizar status remoto: %w", err)
	}

	interacao := Interacao{
		ID:        uuid.NewString(),
		DemandaID: id,
		Tipo:      TipoStatusChange,
		Nota:      fmt.Sprintf("Status alterado de %s para %s", anterior, novo),
		Autor:     autorOuSistema(autor),
		CriadaEm:  time.Now(),
	}
	if err := s.remoto.InserirInteracao(ctx, interacao); err != nil {
		s.desfazer(id, versao, anterior, err)
		return fmt.Errorf("registrar interação: %w", err)
	}

	if s.refrescar != nil {
		if err := s.refrescar(ctx); err != nil {
			// Commit remoto já é durável; o refresh falho não desfaz nada.
			log.Warn().Err(err).Str("demanda", id).Msg("refresh pós-mutação falhou")
		}
	}

	s.notificar.Sucesso("Status atualizado com sucesso")
	return nil
}

// desfazer reverte a aplicação otimista e publica o motivo da falha. A
// reversão é ignorada quando o token capturado já não é o corrente.
func (s *Service) desfazer(id string, versao uint64, anterior string, causa error) {
	if !s.estoque.Reverter(id, versao, anterior) {
		log.Warn().Str("demanda", id).Msg("reversão descartada: mutação sobreposta mais recente")
	}
	s.notificar.Erro("Não foi possível atualizar o status: " + causa.Error())
}

func autorOuSistema(autor string) string {
	if autor == "" {
		return AutorSistema
	}
	return autor
}
