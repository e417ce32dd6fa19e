package dados

import (
	"context"

	"github.com/gestaozabele/gabinete/internal/demanda"
)

// Fonte é o contrato estreito com a camada de persistência remota. O
// subsistema de fila offline fica fora deste núcleo; aqui só importam o
// refresh completo e as duas operações remotas da mutação de status.
type Fonte interface {
	// Carregar devolve um snapshot completo e consistente das coleções.
	Carregar(ctx context.Context) (Colecoes, error)
	// AtualizarStatusDemanda grava o novo status no repositório remoto.
	AtualizarStatusDemanda(ctx context.Context, id, status string) error
	// InserirInteracao acrescenta um registro de auditoria remoto.
	InserirInteracao(ctx context.Context, interacao demanda.Interacao) error
}
