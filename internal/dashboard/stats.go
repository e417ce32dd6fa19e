// Package dashboard deriva os números do painel a partir das coleções em
// memória. Todos os agregados são funções puras das entradas declaradas.
package dashboard

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/gestaozabele/gabinete/internal/cidadao"
	"github.com/gestaozabele/gabinete/internal/demanda"
)

const (
	EscopoDemandas = "demandas"
	EscopoCidadaos = "cidadaos"

	// JanelaTudo não impõe corte temporal.
	JanelaTudo = "all"
	// JanelaAno corta em 1º de janeiro do ano corrente, não em 365 dias.
	JanelaAno = "365"
)

// Cores fixas por status na distribuição de demandas.
var coresStatus = map[string]string{
	demanda.StatusPendente:    "#f59e0b",
	demanda.StatusEmAndamento: "#3b82f6",
	demanda.StatusConcluida:   "#10b981",
}

// paletaMeses cicla pelos meses da distribuição de cidadãos.
var paletaMeses = []string{"#6366f1", "#8b5cf6", "#ec4899", "#f97316"}

const corLegado = "#94a3b8"

// Entrada é a tupla explícita de que os agregados dependem.
type Entrada struct {
	Demandas []demanda.Demanda
	Cidadaos []cidadao.Cidadao
	Escopo   string
	Janela   string
	Agora    time.Time
}

// Fatia é um pedaço rotulado de uma distribuição.
type Fatia struct {
	Rotulo string `json:"rotulo"`
	Valor  int    `json:"valor"`
	Cor    string `json:"cor"`
}

// RankingBairro posiciona um bairro pela contagem de registros.
type RankingBairro struct {
	Rotulo string `json:"rotulo"`
	Valor  int    `json:"valor"`
}

// Prazo anexa os dias restantes a uma demanda com vencimento.
// DiasRestantes menor ou igual a zero indica prazo vencido ou vencendo hoje.
type Prazo struct {
	Demanda       demanda.Demanda `json:"demanda"`
	DiasRestantes int             `json:"dias_restantes"`
}

// Stats agrega os indicadores exibidos no painel. Nunca é persistida.
type Stats struct {
	Total          int `json:"total"`
	Pendentes      int `json:"pendentes"`
	Concluidas     int `json:"concluidas"`
	AltaPrioridade int `json:"alta_prioridade"`

	TotalCidadaos       int    `json:"total_cidadaos"`
	CadastradosHoje     int    `json:"cadastrados_hoje"`
	BairroDestaque      string `json:"bairro_destaque"`
	BairroDestaqueTotal int    `json:"bairro_destaque_total"`

	Distribuicao     []Fatia           `json:"distribuicao"`
	Bairros          []RankingBairro   `json:"bairros"`
	RecentesDemandas []demanda.Demanda `json:"recentes_demandas,omitempty"`
	RecentesCidadaos []cidadao.Cidadao `json:"recentes_cidadaos,omitempty"`
	ProximosPrazos   []Prazo           `json:"proximos_prazos"`
}

// Corte devolve o instante mínimo de criação admitido pela janela.
func Corte(janela string, agora time.Time) time.Time {
	switch janela {
	case JanelaTudo, "":
		return time.Unix(0, 0)
	case JanelaAno:
		return time.Date(agora.Year(), time.January, 1, 0, 0, 0, 0, agora.Location())
	}
	dias, err := strconv.Atoi(janela)
	if err != nil || dias <= 0 {
		return time.Unix(0, 0)
	}
	return agora.Add(-time.Duration(dias) * 24 * time.Hour)
}

// Calcular produz as estatísticas do escopo pedido. Função pura: depende
// apenas da entrada, inclusive do relógio injetado em Agora.
func Calcular(e Entrada) Stats {
	agora := e.Agora
	if agora.IsZero() {
		agora = time.Now()
	}
	corte := Corte(e.Janela, agora)

	if e.Escopo == EscopoCidadaos {
		return calcularCidadaos(e, agora, corte)
	}
	return calcularDemandas(e, agora, corte)
}

func calcularDemandas(e Entrada, agora, corte time.Time) Stats {
	var stats Stats

	janela := make([]demanda.Demanda, 0, len(e.Demandas))
	porStatus := map[string]int{}
	for _, d := range e.Demandas {
		if d.CriadaEm.Before(corte) {
			continue
		}
		janela = append(janela, d)

		stats.Total++
		porStatus[d.Status]++
		switch d.Status {
		case demanda.StatusPendente:
			stats.Pendentes++
		case demanda.StatusConcluida:
			stats.Concluidas++
		}
		if d.Prioridade == demanda.PrioridadeAlta {
			stats.AltaPrioridade++
		}
	}

	// Ordem fixa das fatias; fatia zerada é omitida por inteiro.
	for _, status := range []string{demanda.StatusPendente, demanda.StatusEmAndamento, demanda.StatusConcluida} {
		if porStatus[status] == 0 {
			continue
		}
		stats.Distribuicao = append(stats.Distribuicao, Fatia{
			Rotulo: status,
			Valor:  porStatus[status],
			Cor:    coresStatus[status],
		})
	}

	stats.Bairros = rankingBairrosDemandas(janela, e.Cidadaos)
	stats.RecentesDemandas = recentesDemandas(janela)
	stats.ProximosPrazos = proximosPrazos(e.Demandas, agora)
	return stats
}

func calcularCidadaos(e Entrada, agora, corte time.Time) Stats {
	var stats Stats

	// Total de cidadãos ignora a janela de propósito: é o acervo inteiro.
	stats.TotalCidadaos = len(e.Cidadaos)

	janela := make([]cidadao.Cidadao, 0, len(e.Cidadaos))
	for _, c := range e.Cidadaos {
		if c.CadastradoNoDia(agora) {
			stats.CadastradosHoje++
		}
		if c.CriadoEm.Before(corte) {
			continue
		}
		janela = append(janela, c)
	}

	stats.BairroDestaque, stats.BairroDestaqueTotal = bairroDestaque(janela)
	stats.Distribuicao = distribuicaoPorMes(janela)
	stats.Bairros = rankingBairrosCidadaos(janela)
	stats.RecentesCidadaos = recentesCidadaos(janela)
	stats.ProximosPrazos = proximosPrazos(e.Demandas, agora)
	return stats
}

// bairroDestaque devolve o bairro com mais cidadãos. Empate fica com o
// primeiro encontrado na passagem de contagem: ordem estável de inserção,
// não lexicográfica.
func bairroDestaque(cidadaos []cidadao.Cidadao) (string, int) {
	contagem := map[string]int{}
	var destaque string
	var maior int
	for _, c := range cidadaos {
		if c.Bairro == nil || *c.Bairro == "" {
			continue
		}
		contagem[*c.Bairro]++
		if contagem[*c.Bairro] > maior {
			maior = contagem[*c.Bairro]
			destaque = *c.Bairro
		}
	}
	return destaque, maior
}

// distribuicaoPorMes agrupa cidadãos por mês de cadastro (YYYY-MM), expõe
// os 4 meses mais recentes como fatias individuais e funde o restante em
// uma fatia de meses anteriores.
func distribuicaoPorMes(cidadaos []cidadao.Cidadao) []Fatia {
	porMes := map[string]int{}
	for _, c := range cidadaos {
		porMes[c.CriadoEm.Format("2006-01")]++
	}

	meses := make([]string, 0, len(porMes))
	for mes := range porMes {
		meses = append(meses, mes)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(meses)))

	var fatias []Fatia
	legado := 0
	for i, mes := range meses {
		if i < 4 {
			fatias = append(fatias, Fatia{
				Rotulo: mes,
				Valor:  porMes[mes],
				Cor:    paletaMeses[i%len(paletaMeses)],
			})
			continue
		}
		legado += porMes[mes]
	}
	if legado > 0 {
		fatias = append(fatias, Fatia{Rotulo: "Anteriores", Valor: legado, Cor: corLegado})
	}
	return fatias
}

func rankingBairrosDemandas(demandas []demanda.Demanda, cidadaos []cidadao.Cidadao) []RankingBairro {
	bairroPorCidadao := make(map[string]string, len(cidadaos))
	for _, c := range cidadaos {
		if c.Bairro != nil && *c.Bairro != "" {
			bairroPorCidadao[c.ID] = *c.Bairro
		}
	}

	contagem := map[string]int{}
	var ordem []string
	for _, d := range demandas {
		if d.CidadaoID == nil {
			continue
		}
		bairro, ok := bairroPorCidadao[*d.CidadaoID]
		if !ok {
			continue
		}
		if _, visto := contagem[bairro]; !visto {
			ordem = append(ordem, bairro)
		}
		contagem[bairro]++
	}
	return topBairros(ordem, contagem)
}

func rankingBairrosCidadaos(cidadaos []cidadao.Cidadao) []RankingBairro {
	contagem := map[string]int{}
	var ordem []string
	for _, c := range cidadaos {
		if c.Bairro == nil || *c.Bairro == "" {
			continue
		}
		if _, visto := contagem[*c.Bairro]; !visto {
			ordem = append(ordem, *c.Bairro)
		}
		contagem[*c.Bairro]++
	}
	return topBairros(ordem, contagem)
}

// topBairros ordena por contagem decrescente mantendo a ordem de inserção
// nos empates e limita ao top 7.
func topBairros(ordem []string, contagem map[string]int) []RankingBairro {
	ranking := make([]RankingBairro, 0, len(ordem))
	for _, bairro := range ordem {
		ranking = append(ranking, RankingBairro{Rotulo: bairro, Valor: contagem[bairro]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Valor > ranking[j].Valor
	})
	if len(ranking) > 7 {
		ranking = ranking[:7]
	}
	return ranking
}

func recentesDemandas(demandas []demanda.Demanda) []demanda.Demanda {
	out := make([]demanda.Demanda, len(demandas))
	copy(out, demandas)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CriadaEm.After(out[j].CriadaEm)
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

func recentesCidadaos(cidadaos []cidadao.Cidadao) []cidadao.Cidadao {
	out := make([]cidadao.Cidadao, len(cidadaos))
	copy(out, cidadaos)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CriadoEm.After(out[j].CriadoEm)
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

// proximosPrazos lista as 5 demandas abertas com vencimento de hoje em
// diante, em ordem crescente de prazo. Prazo vencendo hoje permanece na
// lista com DiasRestantes zero.
func proximosPrazos(demandas []demanda.Demanda, agora time.Time) []Prazo {
	type comPrazo struct {
		d        demanda.Demanda
		vence    time.Time
		restante int
	}

	hoje := time.Date(agora.Year(), agora.Month(), agora.Day(), 0, 0, 0, 0, agora.Location())

	var candidatos []comPrazo
	for _, d := range demandas {
		if d.Prazo == "" || d.Status == demanda.StatusConcluida {
			continue
		}
		vence, ok := demanda.ParseData(d.Prazo)
		if !ok {
			continue
		}
		if vence.Before(hoje) {
			continue
		}
		restante := int(math.Ceil(vence.Sub(agora).Hours() / 24))
		candidatos = append(candidatos, comPrazo{d: d, vence: vence, restante: restante})
	}

	sort.SliceStable(candidatos, func(i, j int) bool {
		return candidatos[i].vence.Before(candidatos[j].vence)
	})
	if len(candidatos) > 5 {
		candidatos = candidatos[:5]
	}

	prazos := make([]Prazo, 0, len(candidatos))
	for _, c := range candidatos {
		prazos = append(prazos, Prazo{Demanda: c.d, DiasRestantes: c.restante})
	}
	return prazos
}
