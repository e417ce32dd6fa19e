package demanda

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNaoEncontrada  = errors.New("demanda não encontrada")
	ErrStatusInvalido = errors.New("status inválido")
)

const (
	StatusPendente    = "pendente"
	StatusEmAndamento = "em_andamento"
	StatusConcluida   = "concluida"

	PrioridadeBaixa = "baixa"
	PrioridadeMedia = "media"
	PrioridadeAlta  = "alta"

	// TipoStatusChange marca interações geradas por mudança de status.
	TipoStatusChange = "status_change"
)

var (
	validStatuses = map[string]struct{}{
		StatusPendente:    {},
		StatusEmAndamento: {},
		StatusConcluida:   {},
	}
	validPrioridades = map[string]struct{}{
		PrioridadeBaixa: {},
		PrioridadeMedia: {},
		PrioridadeAlta:  {},
	}
)

// Demanda representa uma solicitação de serviço registrada por um munícipe.
type Demanda struct {
	ID           string    `json:"id"`
	Titulo       string    `json:"titulo"`
	Descricao    string    `json:"descricao"`
	Status       string    `json:"status"`
	Prioridade   string    `json:"prioridade"`
	Nivel        string    `json:"nivel"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	Prazo        string    `json:"prazo,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Responsavel  *string   `json:"responsavel,omitempty"`
	CidadaoID    *string   `json:"cidadao_id,omitempty"`
	CriadaEm     time.Time `json:"criada_em"`
	AtualizadaEm time.Time `json:"atualizada_em"`
}

// Interacao é o registro de auditoria append-only vinculado a uma demanda.
type Interacao struct {
	ID        string    `json:"id"`
	DemandaID string    `json:"demanda_id"`
	Tipo      string    `json:"tipo"`
	Nota      string    `json:"nota"`
	Autor     string    `json:"autor"`
	CriadaEm  time.Time `json:"criada_em"`
}

// NormalizeStatus garante padrão em letras minúsculas.
func NormalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// IsValidStatus indica se o status é aceito.
func IsValidStatus(status string) bool {
	_, ok := validStatuses[NormalizeStatus(status)]
	return ok
}

// IsValidPrioridade indica se prioridade é válida.
func IsValidPrioridade(prioridade string) bool {
	_, ok := validPrioridades[strings.ToLower(strings.TrimSpace(prioridade))]
	return ok
}

// TemCoordenadas informa se a demanda possui geolocalização completa.
func (d Demanda) TemCoordenadas() bool {
	return d.Latitude != nil && d.Longitude != nil
}
