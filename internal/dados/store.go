// Package dados mantém as coleções vivas do painel em memória. Toda
// escrita passa por caminhos controlados (aplicação otimista, reversão,
// substituição por refresh); os demais componentes apenas leem snapshots.
package dados

import (
	"sync"
	"time"

	"github.com/gestaozabele/gabinete/internal/cidadao"
	"github.com/gestaozabele/gabinete/internal/demanda"
)

// Usuario representa colaborador do gabinete com acesso ao painel.
type Usuario struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Email     string    `json:"email"`
	SenhaHash string    `json:"-"`
	Papel     string    `json:"papel"`
	Ativo     bool      `json:"ativo"`
	CriadoEm  time.Time `json:"criado_em"`
}

// Colecoes agrupa o conjunto completo entregue por um refresh da fonte.
type Colecoes struct {
	Demandas   []demanda.Demanda
	Cidadaos   []cidadao.Cidadao
	Usuarios   []Usuario
	Interacoes []demanda.Interacao
}

// Store guarda as coleções e o estado de conectividade/carregamento.
type Store struct {
	mu         sync.RWMutex
	col        Colecoes
	versoes    map[string]uint64
	conectado  bool
	carregando bool
}

// NewStore cria store vazio. A conectividade começa otimista.
func NewStore() *Store {
	return &Store{
		versoes:   make(map[string]uint64),
		conectado: true,
	}
}

// Substituir troca todas as coleções pelo resultado de um refresh completo.
func (s *Store) Substituir(col Colecoes) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.col = col
}

// Limpar descarta as coleções em memória (logout).
func (s *Store) Limpar() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.col = Colecoes{}
	s.versoes = make(map[string]uint64)
}

// AplicarStatus grava o novo status de forma otimista. Devolve o status
// anterior e um token de versão monotônico para reversão segura. ok é
// falso quando a demanda não existe ou o status não muda: nesses casos
// nada é alterado.
func (s *Store) AplicarStatus(id, novo string) (anterior string, versao uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.col.Demandas {
		if s.col.Demandas[i].ID != id {
			continue
		}
		if s.col.Demandas[i].Status == novo {
			return "", 0, false
		}
		anterior = s.col.Demandas[i].Status
		s.col.Demandas[i].Status = novo
		s.col.Demandas[i].AtualizadaEm = time.Now()
		s.versoes[id]++
		return anterior, s.versoes[id], true
	}
	return "", 0, false
}

// Reverter desfaz uma aplicação otimista. Só atua se o token capturado
// ainda for o corrente; resultado obsoleto de mutação sobreposta é descartado.
func (s *Store) Reverter(id string, versao uint64, anterior string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.versoes[id] != versao {
		return false
	}
	for i := range s.col.Demandas {
		if s.col.Demandas[i].ID == id {
			s.col.Demandas[i].Status = anterior
			return true
		}
	}
	return false
}

// VersaoAtual informa o token corrente da demanda (zero se nunca mutada).
func (s *Store) VersaoAtual(id string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versoes[id]
}

// Demandas devolve cópia da coleção de demandas.
func (s *Store) Demandas() []demanda.Demanda {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]demanda.Demanda, len(s.col.Demandas))
	copy(out, s.col.Demandas)
	return out
}

// Cidadaos devolve cópia da coleção de cidadãos.
func (s *Store) Cidadaos() []cidadao.Cidadao {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]cidadao.Cidadao, len(s.col.Cidadaos))
	copy(out, s.col.Cidadaos)
	return out
}

// Usuarios devolve cópia da coleção de usuários.
func (s *Store) Usuarios() []Usuario {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Usuario, len(s.col.Usuarios))
	copy(out, s.col.Usuarios)
	return out
}

// Interacoes devolve cópia do trilho de auditoria.
func (s *Store) Interacoes() []demanda.Interacao {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]demanda.Interacao, len(s.col.Interacoes))
	copy(out, s.col.Interacoes)
	return out
}

// InteracoesDaDemanda lista interações de uma única demanda.
func (s *Store) InteracoesDaDemanda(id string) []demanda.Interacao {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []demanda.Interacao
	for _, i := range s.col.Interacoes {
		if i.DemandaID == id {
			out = append(out, i)
		}
	}
	return out
}

// DemandaPorID busca uma demanda específica.
func (s *Store) DemandaPorID(id string) (demanda.Demanda, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.col.Demandas {
		if d.ID == id {
			return d, true
		}
	}
	return demanda.Demanda{}, false
}

// UsuarioPorEmail busca usuário pelo email (caso-insensível via normalização prévia).
func (s *Store) UsuarioPorEmail(email string) (Usuario, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.col.Usuarios {
		if u.Email == email {
			return u, true
		}
	}
	return Usuario{}, false
}

// SetConectado atualiza o indicador de conectividade com a fonte remota.
func (s *Store) SetConectado(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conectado = on
}

// Conectado informa se há conectividade com a fonte remota.
func (s *Store) Conectado() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conectado
}

// SetCarregando sinaliza refresh em andamento.
func (s *Store) SetCarregando(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carregando = on
}

// Carregando informa se um refresh está em andamento.
func (s *Store) Carregando() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.carregando
}
