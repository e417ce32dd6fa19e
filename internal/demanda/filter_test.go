package demanda

import (
	"testing"
	"time"
)

func demandaBase(id string) Demanda {
	return Demanda{
		ID:           id,
		Titulo:       "Poda de árvore",
		Descricao:    "Árvore ameaçando fiação na rua principal",
		Status:       StatusPendente,
		Prioridade:   PrioridadeMedia,
		Nivel:        "infraestrutura",
		CriadaEm:     time.Date(2024, 1, 5, 10, 0, 0, 0, time.Local),
		AtualizadaEm: time.Date(2024, 1, 5, 10, 0, 0, 0, time.Local),
	}
}

func TestFiltrarSemRestricaoDevolveTudo(t *testing.T) {
	demandas := []Demanda{demandaBase("D1"), demandaBase("D2"), demandaBase("D3")}

	out := Filtrar(demandas, Filtro{})
	if len(out) != len(demandas) {
		t.Fatalf("expected %d got %d", len(demandas), len(out))
	}
	for i := range out {
		if out[i].ID != demandas[i].ID {
			t.Fatalf("ordem alterada na posição %d: %s", i, out[i].ID)
		}
	}
}

func TestFiltrarPorStatus(t *testing.T) {
	d1 := demandaBase("D1")
	d2 := demandaBase("D2")
	d2.Status = StatusConcluida
	d2.CriadaEm = time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)

	out := Filtrar([]Demanda{d1, d2}, Filtro{Status: []string{StatusPendente}})
	if len(out) != 1 || out[0].ID != "D1" {
		t.Fatalf("esperava apenas D1, obtive %v", out)
	}
}

func TestFiltrarBusca(t *testing.T) {
	d1 := demandaBase("D1")
	d2 := demandaBase("D2")
	d2.Titulo = "Iluminação pública"
	d2.Descricao = "Poste apagado"

	tests := []struct {
		name  string
		busca string
		want  []string
	}{
		{"por id", "d2", []string{"D2"}},
		{"por titulo", "poda", []string{"D1"}},
		{"por descricao", "poste", []string{"D2"}},
		{"sem correspondencia", "esgoto", nil},
		{"vazia", "", []string{"D1", "D2"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := Filtrar([]Demanda{d1, d2}, Filtro{Busca: tc.busca})
			if len(out) != len(tc.want) {
				t.Fatalf("expected %d got %d", len(tc.want), len(out))
			}
			for i, id := range tc.want {
				if out[i].ID != id {
					t.Fatalf("posição %d: expected %s got %s", i, id, out[i].ID)
				}
			}
		})
	}
}

func TestFiltrarResponsavelETags(t *testing.T) {
	resp := "U9"
	d1 := demandaBase("D1")
	d1.Responsavel = &resp
	d1.Tags = []string{"urgente", "poda"}
	d2 := demandaBase("D2")
	d2.Tags = []string{"limpeza"}

	out := Filtrar([]Demanda{d1, d2}, Filtro{Responsavel: "U9"})
	if len(out) != 1 || out[0].ID != "D1" {
		t.Fatalf("responsável: esperava D1, obtive %v", out)
	}

	// União: basta uma tag em comum.
	out = Filtrar([]Demanda{d1, d2}, Filtro{Tags: []string{"poda", "esgoto"}})
	if len(out) != 1 || out[0].ID != "D1" {
		t.Fatalf("tags: esperava D1, obtive %v", out)
	}
}

func TestFiltrarJanelaDeDatasInclusiva(t *testing.T) {
	inicio := demandaBase("INICIO")
	inicio.CriadaEm = time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)
	fim := demandaBase("FIM")
	fim.CriadaEm = time.Date(2024, 3, 11, 23, 59, 59, 999000000, time.Local)
	fora := demandaBase("FORA")
	fora.CriadaEm = time.Date(2024, 3, 12, 0, 0, 0, 0, time.Local)

	filtro := Filtro{DataInicio: "2024-03-10", DataFim: "2024-03-11", CampoData: CampoDataCriada}
	out := Filtrar([]Demanda{inicio, fim, fora}, filtro)

	if len(out) != 2 {
		t.Fatalf("expected 2 got %d", len(out))
	}
	if out[0].ID != "INICIO" || out[1].ID != "FIM" {
		t.Fatalf("limites inclusivos violados: %v", out)
	}
}

func TestFiltrarDataSemFimUsaMesmoDia(t *testing.T) {
	dentro := demandaBase("DENTRO")
	dentro.CriadaEm = time.Date(2024, 3, 10, 18, 30, 0, 0, time.Local)
	fora := demandaBase("FORA")
	fora.CriadaEm = time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local)

	out := Filtrar([]Demanda{dentro, fora}, Filtro{DataInicio: "2024-03-10"})
	if len(out) != 1 || out[0].ID != "DENTRO" {
		t.Fatalf("esperava só DENTRO, obtive %v", out)
	}
}

func TestFiltrarPrazoAusenteNaoCasaComFiltroAtivo(t *testing.T) {
	comPrazo := demandaBase("COM")
	comPrazo.Prazo = "2024-03-10"
	semPrazo := demandaBase("SEM")

	filtro := Filtro{DataInicio: "2024-03-01", DataFim: "2024-03-31", CampoData: CampoDataPrazo}
	out := Filtrar([]Demanda{comPrazo, semPrazo}, filtro)

	if len(out) != 1 || out[0].ID != "COM" {
		t.Fatalf("esperava só COM, obtive %v", out)
	}
}

func TestParseDataAncoraMeioDia(t *testing.T) {
	parsed, ok := ParseData("2024-03-10")
	if !ok {
		t.Fatal("esperava parse com sucesso")
	}
	if parsed.Hour() != 12 {
		t.Fatalf("expected 12 got %d", parsed.Hour())
	}
	if parsed.Year() != 2024 || parsed.Month() != time.March || parsed.Day() != 10 {
		t.Fatalf("data errada: %v", parsed)
	}

	if _, ok := ParseData("10/03/2024"); ok {
		t.Fatal("formato desconhecido não deveria parsear")
	}
	if _, ok := ParseData(""); ok {
		t.Fatal("vazio não deveria parsear")
	}
}
