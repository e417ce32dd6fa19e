package demanda

import (
	"strings"
	"time"
)

const (
	CampoDataCriada     = "criada"
	CampoDataAtualizada = "atualizada"
	CampoDataPrazo      = "prazo"
)

// Filtro reúne as restrições conjuntivas aplicadas sobre as demandas.
// Campo vazio nunca exclui registros: restrição ausente é no-op.
type Filtro struct {
	Busca       string   `json:"busca"`
	Status      []string `json:"status"`
	Prioridades []string `json:"prioridades"`
	Niveis      []string `json:"niveis"`
	Responsavel string   `json:"responsavel"`
	Tags        []string `json:"tags"`
	DataInicio  string   `json:"data_inicio"`
	DataFim     string   `json:"data_fim"`
	CampoData   string   `json:"campo_data"`
}

// Vazio informa se nenhuma restrição está ativa.
func (f Filtro) Vazio() bool {
	return f.Busca == "" &&
		len(f.Status) == 0 &&
		len(f.Prioridades) == 0 &&
		len(f.Niveis) == 0 &&
		f.Responsavel == "" &&
		len(f.Tags) == 0 &&
		f.DataInicio == ""
}

// Filtrar devolve as demandas que satisfazem todas as restrições do filtro.
// Função pura: não altera a coleção de entrada.
func Filtrar(demandas []Demanda, f Filtro) []Demanda {
	intervalo, intervaloAtivo := f.intervaloDatas()

	out := make([]Demanda, 0, len(demandas))
	for _, d := range demandas {
		if !matchBusca(d, f.Busca) {
			continue
		}
		if !matchConjunto(d.Status, f.Status) {
			continue
		}
		if !matchConjunto(d.Prioridade, f.Prioridades) {
			continue
		}
		if !matchConjunto(d.Nivel, f.Niveis) {
			continue
		}
		if f.Responsavel != "" {
			if d.Responsavel == nil || *d.Responsavel != f.Responsavel {
				continue
			}
		}
		if !matchTags(d.Tags, f.Tags) {
			continue
		}
		if intervaloAtivo && !intervalo.contem(d, f.CampoData) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func matchBusca(d Demanda, busca string) bool {
	busca = strings.ToLower(strings.TrimSpace(busca))
	if busca == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.ID), busca) ||
		strings.Contains(strings.ToLower(d.Titulo), busca) ||
		strings.Contains(strings.ToLower(d.Descricao), busca)
}

func matchConjunto(valor string, aceitos []string) bool {
	if len(aceitos) == 0 {
		return true
	}
	for _, a := range aceitos {
		if valor == a {
			return true
		}
	}
	return false
}

func matchTags(tags, exigidas []string) bool {
	if len(exigidas) == 0 {
		return true
	}
	for _, t := range tags {
		for _, e := range exigidas {
			if t == e {
				return true
			}
		}
	}
	return false
}

type intervaloDatas struct {
	inicio time.Time
	fim    time.Time
}

// intervaloDatas calcula o intervalo fechado [início 00:00:00, fim 23:59:59.999].
// Sem data final, o fim é o encerramento do próprio dia inicial.
func (f Filtro) intervaloDatas() (intervaloDatas, bool) {
	if f.DataInicio == "" {
		return intervaloDatas{}, false
	}
	inicio, ok := ParseData(f.DataInicio)
	if !ok {
		return intervaloDatas{}, false
	}

	fimBase := inicio
	if f.DataFim != "" {
		if fim, ok := ParseData(f.DataFim); ok {
			fimBase = fim
		}
	}

	return intervaloDatas{
		inicio: inicioDoDia(inicio),
		fim:    fimDoDia(fimBase),
	}, true
}

func (iv intervaloDatas) contem(d Demanda, campo string) bool {
	var instante time.Time
	switch campo {
	case CampoDataAtualizada:
		instante = d.AtualizadaEm
	case CampoDataPrazo:
		parsed, ok := ParseData(d.Prazo)
		if !ok {
			// prazo ausente ou ilegível não casa com filtro de data ativo
			return false
		}
		instante = parsed
	default:
		instante = d.CriadaEm
	}

	if instante.IsZero() {
		return false
	}
	return !instante.Before(iv.inicio) && !instante.After(iv.fim)
}

// ParseData interpreta datas de entrada. Valores simples YYYY-MM-DD são
// ancorados ao meio-dia local para evitar deslocamento de dia por fuso.
func ParseData(valor string) (time.Time, bool) {
	valor = strings.TrimSpace(valor)
	if valor == "" {
		return time.Time{}, false
	}

	if len(valor) == len("2006-01-02") {
		if t, err := time.ParseInLocation("2006-01-02", valor, time.Local); err == nil {
			return t.Add(12 * time.Hour), true
		}
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339, valor); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02T15:04:05", valor); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func inicioDoDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func fimDoDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}
