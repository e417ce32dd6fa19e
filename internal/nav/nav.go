// Package nav coordena a navegação do painel: tela corrente, seleções
// transitórias e o protocolo de reset aplicado a cada transição.
package nav

import (
	"errors"
	"sync"

	"github.com/gestaozabele/gabinete/internal/dashboard"
	"github.com/gestaozabele/gabinete/internal/demanda"
)

var ErrTelaInvalida = errors.New("tela inválida")

// Telas do painel (enumeração fechada).
const (
	TelaPainel        = "painel"
	TelaDemandas      = "demandas"
	TelaNovaDemanda   = "nova-demanda"
	TelaEditarDemanda = "editar-demanda"
	TelaPessoas       = "pessoas"
	TelaAdmin         = "admin"
	TelaMapa          = "mapa"
	TelaTriagemRapida = "triagem-rapida"
)

// Sub-vistas do mapa.
const (
	SubVistaDemandas = "demandas"
	SubVistaCidadaos = "cidadaos"
)

var telasValidas = map[string]struct{}{
	TelaPainel:        {},
	TelaDemandas:      {},
	TelaNovaDemanda:   {},
	TelaEditarDemanda: {},
	TelaPessoas:       {},
	TelaAdmin:         {},
	TelaMapa:          {},
	TelaTriagemRapida: {},
}

// Ponto é uma coordenada de foco no mapa.
type Ponto struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Estado é o snapshot do estado de navegação devolvido aos clientes.
type Estado struct {
	Tela               string         `json:"tela"`
	Filtro             demanda.Filtro `json:"filtro"`
	Janela             string         `json:"janela"`
	DemandaSelecionada string         `json:"demanda_selecionada,omitempty"`
	CidadaoSelecionado string         `json:"cidadao_selecionado,omitempty"`
	EmEdicao           string         `json:"em_edicao,omitempty"`
	FocoMapa           *Ponto         `json:"foco_mapa,omitempty"`
	SubVistaMapa       string         `json:"sub_vista_mapa"`
	ScrollNoTopo       bool           `json:"scroll_no_topo"`
	NavInferiorVisivel bool           `json:"nav_inferior_visivel"`
}

// Machine é a máquina de estados de navegação. Toda transição repõe o
// scroll no topo e devolve a barra inferior móvel.
type Machine struct {
	mu  sync.Mutex
	est Estado
	bus *Bus
}

// NewMachine cria a máquina no estado inicial (painel) com o bus de foco
// já registrado nela.
func NewMachine() *Machine {
	m := &Machine{est: estadoInicial()}
	m.bus = NewBus()
	m.bus.Registrar(m.Focar)
	return m
}

func estadoInicial() Estado {
	return Estado{
		Tela:               TelaPainel,
		Janela:             "30",
		SubVistaMapa:       SubVistaDemandas,
		ScrollNoTopo:       true,
		NavInferiorVisivel: true,
	}
}

// Bus expõe o canal tipado de pedidos de foco entre vistas.
func (m *Machine) Bus() *Bus {
	return m.bus
}

// Estado devolve cópia do estado corrente.
func (m *Machine) Estado() Estado {
	m.mu.Lock()
	defer m.mu.Unlock()
	est := m.est
	if m.est.FocoMapa != nil {
		p := *m.est.FocoMapa
		est.FocoMapa = &p
	}
	return est
}

// NavegarMenu entra em uma tela pelo caminho principal de navegação,
// limpando filtro, seleções, edição e foco de mapa. Nenhuma tela herda
// seleção ou filtro de uma tela anterior sem relação.
func (m *Machine) NavegarMenu(tela string) error {
	if _, ok := telasValidas[tela]; !ok {
		return ErrTelaInvalida
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	janela := m.est.Janela
	m.est = estadoInicial()
	m.est.Janela = janela
	m.est.Tela = tela
	return nil
}

// Focar trata um pedido de foco entre vistas. Com coordenadas, isola o
// registro pelo ID na busca, força a janela para "all" (filtro temporal
// não pode esconder o alvo) e centra o mapa; sem coordenadas degrada para
// seleção por ID na tela de demandas.
func (m *Machine) Focar(f Foco) {
	f = NormalizarFoco(f)
	if f.ID == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Qualquer modal/seleção aberta é limpa para não restar referência pendente.
	m.est.DemandaSelecionada = ""
	m.est.CidadaoSelecionado = ""
	m.est.EmEdicao = ""
	m.est.ScrollNoTopo = true
	m.est.NavInferiorVisivel = true

	if !f.TemCoordenadas() {
		m.est.DemandaSelecionada = f.ID
		m.est.Tela = TelaDemandas
		return
	}

	m.est.Filtro = demanda.Filtro{Busca: f.ID}
	m.est.Janela = dashboard.JanelaTudo
	m.est.FocoMapa = &Ponto{Lat: *f.Lat, Lon: *f.Lon}
	m.est.SubVistaMapa = subVistaPorTipo(f.Tipo)
	m.est.Tela = TelaMapa
}

// SelecionarDemanda marca uma demanda como selecionada na tela corrente.
func (m *Machine) SelecionarDemanda(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.est.DemandaSelecionada = id
}

// AplicarFiltro substitui o filtro ativo sem trocar de tela.
func (m *Machine) AplicarFiltro(f demanda.Filtro) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.est.Filtro = f
}

// AplicarJanela troca a janela temporal ativa.
func (m *Machine) AplicarJanela(janela string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.est.Janela = janela
}

// EntrarSessao força o painel como tela inicial de uma sessão recém-autenticada.
func (m *Machine) EntrarSessao() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.est = estadoInicial()
}

// SairSessao devolve a máquina ao estado inicial. O chamador descarta o
// usuário autenticado e as coleções em memória, para que o próximo login
// comece limpo.
func (m *Machine) SairSessao() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.est = estadoInicial()
}

func subVistaPorTipo(tipo string) string {
	if tipo == "cidadao" {
		return SubVistaCidadaos
	}
	return SubVistaDemandas
}
