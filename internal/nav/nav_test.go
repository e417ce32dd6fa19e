package nav

import (
	"sync"
	"testing"

	"github.com/gestaozabele/gabinete/internal/dashboard"
	"github.com/gestaozabele/gabinete/internal/demanda"
)

func TestEstadoInicial(t *testing.T) {
	m := NewMachine()
	est := m.Estado()

	if est.Tela != TelaPainel {
		t.Fatalf("tela inicial: expected %s got %s", TelaPainel, est.Tela)
	}
	if est.Janela != "30" {
		t.Fatalf("janela inicial: expected 30 got %s", est.Janela)
	}
	if !est.ScrollNoTopo || !est.NavInferiorVisivel {
		t.Fatal("scroll no topo e nav inferior deveriam começar ativos")
	}
}

func TestNavegarMenuLimpaFiltroESelecoes(t *testing.T) {
	m := NewMachine()
	m.AplicarFiltro(demanda.Filtro{Busca: "rua"})
	m.SelecionarDemanda("D1")
	m.AplicarJanela("7")

	if err := m.NavegarMenu(TelaPessoas); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	est := m.Estado()
	if est.Tela != TelaPessoas {
		t.Fatalf("expected %s got %s", TelaPessoas, est.Tela)
	}
	if !est.Filtro.Vazio() {
		t.Fatalf("filtro deveria ser limpo: %+v", est.Filtro)
	}
	if est.DemandaSelecionada != "" {
		t.Fatalf("seleção deveria ser limpa: %s", est.DemandaSelecionada)
	}
	// A janela temporal sobrevive às transições de menu.
	if est.Janela != "7" {
		t.Fatalf("janela: expected 7 got %s", est.Janela)
	}
}

func TestNavegarMenuTelaInvalida(t *testing.T) {
	m := NewMachine()
	if err := m.NavegarMenu("relatorios"); err != ErrTelaInvalida {
		t.Fatalf("expected ErrTelaInvalida got %v", err)
	}
	if m.Estado().Tela != TelaPainel {
		t.Fatal("tela não deveria mudar em transição inválida")
	}
}

func TestFocarComCoordenadasCentraOMapa(t *testing.T) {
	m := NewMachine()
	m.SelecionarDemanda("OUTRA")

	lat, lon := -7.48, -36.66
	m.Focar(Foco{ID: "C9", Tipo: "cidadao", Lat: &lat, Lon: &lon})

	est := m.Estado()
	if est.Tela != TelaMapa {
		t.Fatalf("expected %s got %s", TelaMapa, est.Tela)
	}
	if est.Filtro.Busca != "C9" {
		t.Fatalf("busca deveria isolar o alvo: %q", est.Filtro.Busca)
	}
	if est.Janela != dashboard.JanelaTudo {
		t.Fatalf("janela deveria ser %s, obtive %s", dashboard.JanelaTudo, est.Janela)
	}
	if est.FocoMapa == nil || est.FocoMapa.Lat != lat || est.FocoMapa.Lon != lon {
		t.Fatalf("foco do mapa errado: %+v", est.FocoMapa)
	}
	if est.SubVistaMapa != SubVistaCidadaos {
		t.Fatalf("sub-vista: expected %s got %s", SubVistaCidadaos, est.SubVistaMapa)
	}
	if est.DemandaSelecionada != "" {
		t.Fatal("seleção anterior deveria ser limpa")
	}
}

func TestFocarSemCoordenadasDegradaParaSelecao(t *testing.T) {
	m := NewMachine()
	m.Focar(Foco{ID: "D7"})

	est := m.Estado()
	if est.Tela != TelaDemandas {
		t.Fatalf("expected %s got %s", TelaDemandas, est.Tela)
	}
	if est.DemandaSelecionada != "D7" {
		t.Fatalf("expected D7 got %s", est.DemandaSelecionada)
	}
	if est.FocoMapa != nil {
		t.Fatal("sem coordenadas não há foco de mapa")
	}
}

func TestNormalizarFocoCamposLegados(t *testing.T) {
	casos := []struct {
		nome string
		in   Foco
		id   string
		tipo string
	}{
		{"demandaId legado", Foco{DemandaID: "D1"}, "D1", "demanda"},
		{"cidadaoId legado", Foco{CidadaoID: "C1"}, "C1", "cidadao"},
		{"id novo tem precedência", Foco{ID: "X", DemandaID: "D1"}, "X", "demanda"},
		{"tipo preservado", Foco{ID: "C2", Tipo: "cidadao"}, "C2", "cidadao"},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			got := NormalizarFoco(c.in)
			if got.ID != c.id || got.Tipo != c.tipo {
				t.Fatalf("expected %s/%s got %s/%s", c.id, c.tipo, got.ID, got.Tipo)
			}
			if got.DemandaID != "" || got.CidadaoID != "" {
				t.Fatal("campos legados deveriam ser zerados")
			}
		})
	}
}

func TestBusDespachaParaHandlers(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	wg.Add(2)

	var mu sync.Mutex
	var recebidos []string
	handler := func(f Foco) {
		mu.Lock()
		recebidos = append(recebidos, f.ID)
		mu.Unlock()
		wg.Done()
	}
	bus.Registrar(handler)
	bus.Registrar(handler)

	bus.Publicar(Foco{DemandaID: "D3"})
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(recebidos) != 2 {
		t.Fatalf("expected 2 got %d", len(recebidos))
	}
	for _, id := range recebidos {
		if id != "D3" {
			t.Fatalf("handler deveria receber o comando normalizado, obteve %s", id)
		}
	}
}

func TestFocarIgnoraComandoSemID(t *testing.T) {
	m := NewMachine()
	m.SelecionarDemanda("D1")

	m.Focar(Foco{})

	if m.Estado().DemandaSelecionada != "D1" {
		t.Fatal("comando vazio não deveria alterar o estado")
	}
}

func TestSessaoReiniciaEstado(t *testing.T) {
	m := NewMachine()
	if err := m.NavegarMenu(TelaMapa); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	m.AplicarFiltro(demanda.Filtro{Busca: "praça"})

	m.SairSessao()

	est := m.Estado()
	if est.Tela != TelaPainel || !est.Filtro.Vazio() || est.Janela != "30" {
		t.Fatalf("estado não reiniciado: %+v", est)
	}
}
