package dados

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestaozabele/gabinete/internal/cidadao"
	"github.com/gestaozabele/gabinete/internal/db"
	"github.com/gestaozabele/gabinete/internal/demanda"
)

// Repository é a implementação pgx da Fonte remota.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Carregar lê todas as coleções dentro de uma única transação, para que o
// snapshot entregue ao painel seja internamente consistente.
func (r *Repository) Carregar(ctx context.Context) (Colecoes, error) {
	var col Colecoes

	err := db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		if col.Demandas, err = carregarDemandas(ctx, tx); err != nil {
			return fmt.Errorf("demandas: %w", err)
		}
		if col.Cidadaos, err = carregarCidadaos(ctx, tx); err != nil {
			return fmt.Errorf("cidadaos: %w", err)
		}
		if col.Usuarios, err = carregarUsuarios(ctx, tx); err != nil {
			return fmt.Errorf("usuarios: %w", err)
		}
		if col.Interacoes, err = carregarInteracoes(ctx, tx); err != nil {
			return fmt.Errorf("interacoes: %w", err)
		}
		return nil
	})
	if err != nil {
		return Colecoes{}, err
	}
	return col, nil
}

// AtualizarStatusDemanda grava o status remoto de uma demanda.
func (r *Repository) AtualizarStatusDemanda(ctx context.Context, id, status string) error {
	const query = `
        UPDATE demandas
        SET status = $2, atualizada_em = now()
        WHERE id = $1
    `

	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return demanda.ErrNaoEncontrada
	}
	return nil
}

// InserirInteracao acrescenta um registro ao trilho de auditoria remoto.
func (r *Repository) InserirInteracao(ctx context.Context, interacao demanda.Interacao) error {
	const query = `
        INSERT INTO interacoes (id, demanda_id, tipo, nota, autor, criada_em)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	_, err := r.pool.Exec(ctx, query,
		interacao.ID,
		interacao.DemandaID,
		interacao.Tipo,
		interacao.Nota,
		interacao.Autor,
		interacao.CriadaEm,
	)
	return err
}

func carregarDemandas(ctx context.Context, tx pgx.Tx) ([]demanda.Demanda, error) {
	const query = `
        SELECT id, titulo, descricao, status, prioridade, nivel,
               latitude, longitude, COALESCE(prazo, ''), tags,
               responsavel, cidadao_id, criada_em, atualizada_em
        FROM demandas
        ORDER BY criada_em DESC
    `

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var demandas []demanda.Demanda
	for rows.Next() {
		var d demanda.Demanda
		if err := rows.Scan(
			&d.ID, &d.Titulo, &d.Descricao, &d.Status, &d.Prioridade, &d.Nivel,
			&d.Latitude, &d.Longitude, &d.Prazo, &d.Tags,
			&d.Responsavel, &d.CidadaoID, &d.CriadaEm, &d.AtualizadaEm,
		); err != nil {
			return nil, err
		}
		demandas = append(demandas, d)
	}
	return demandas, rows.Err()
}

func carregarCidadaos(ctx context.Context, tx pgx.Tx) ([]cidadao.Cidadao, error) {
	const query = `
        SELECT id, nome, email, telefone, bairro, latitude, longitude, criado_em
        FROM cidadaos
        ORDER BY criado_em DESC
    `

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cidadaos []cidadao.Cidadao
	for rows.Next() {
		var c cidadao.Cidadao
		if err := rows.Scan(
			&c.ID, &c.Nome, &c.Email, &c.Telefone, &c.Bairro,
			&c.Latitude, &c.Longitude, &c.CriadoEm,
		); err != nil {
			return nil, err
		}
		cidadaos = append(cidadaos, c)
	}
	return cidadaos, rows.Err()
}

func carregarUsuarios(ctx context.Context, tx pgx.Tx) ([]Usuario, error) {
	const query = `
        SELECT id, nome, email, senha_hash, papel, ativo, criado_em
        FROM usuarios
        WHERE ativo = TRUE
        ORDER BY nome ASC
    `

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usuarios []Usuario
	for rows.Next() {
		var u Usuario
		if err := rows.Scan(&u.ID, &u.Nome, &u.Email, &u.SenhaHash, &u.Papel, &u.Ativo, &u.CriadoEm); err != nil {
			return nil, err
		}
		usuarios = append(usuarios, u)
	}
	return usuarios, rows.Err()
}

func carregarInteracoes(ctx context.Context, tx pgx.Tx) ([]demanda.Interacao, error) {
	const query = `
        SELECT id, demanda_id, tipo, nota, autor, criada_em
        FROM interacoes
        ORDER BY criada_em DESC
    `

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interacoes []demanda.Interacao
	for rows.Next() {
		var i demanda.Interacao
		if err := rows.Scan(&i.ID, &i.DemandaID, &i.Tipo, &i.Nota, &i.Autor, &i.CriadaEm); err != nil {
			return nil, err
		}
		interacoes = append(interacoes, i)
	}
	return interacoes, rows.Err()
}
