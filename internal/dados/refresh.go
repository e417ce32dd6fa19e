package dados

import "context"

// Atualizar executa um refresh completo: carrega o snapshot da fonte e
// substitui as coleções do store, ajustando os indicadores de progresso e
// conectividade conforme o resultado.
func Atualizar(ctx context.Context, s *Store, f Fonte) error {
	s.SetCarregando(true)
	defer s.SetCarregando(false)

	col, err := f.Carregar(ctx)
	if err != nil {
		s.SetConectado(false)
		return err
	}

	s.SetConectado(true)
	s.Substituir(col)
	return nil
}
