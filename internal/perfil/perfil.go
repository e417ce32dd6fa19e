// Package perfil resolve o papel de um usuário para o perfil de permissões
// e visibilidade de widgets do painel. Ausência nunca vira erro: sempre há
// um perfil seguro de fallback.
package perfil

import "strings"

const (
	PapelAdministrador = "administrador"
	PapelAssessor      = "assessor"
)

// Chaves de widget do painel.
const (
	WidgetKPIs         = "kpis"
	WidgetDistribuicao = "distribuicao"
	WidgetBairros      = "bairros"
	WidgetRecentes     = "recentes"
	WidgetPrazos       = "prazos"
	WidgetMapa         = "mapa"
)

// Perfil descreve o que um papel pode ver e fazer no painel.
type Perfil struct {
	Papel            string          `json:"papel"`
	Telas            []string        `json:"telas"`
	Widgets          map[string]bool `json:"widgets"`
	PodeCriarDemanda bool            `json:"pode_criar_demanda"`
	PodeCriarCidadao bool            `json:"pode_criar_cidadao"`
}

// Tabela mapeia papel em perfil. Injetada na resolução para permitir
// configuração por ambiente e dublês em teste.
type Tabela map[string]Perfil

// PodeAcessar informa se a tela está no rol permitido do perfil.
func (p Perfil) PodeAcessar(tela string) bool {
	for _, t := range p.Telas {
		if t == tela {
			return true
		}
	}
	return false
}

// PodeVerWidget informa a visibilidade de um widget do painel.
func (p Perfil) PodeVerWidget(chave string) bool {
	return p.Widgets[chave]
}

// Resolver busca o papel na tabela; papel desconhecido recebe o perfil
// interno de assessor, o menos privilegiado.
func Resolver(papel string, tabela Tabela) Perfil {
	papel = strings.ToLower(strings.TrimSpace(papel))
	if perfil, ok := tabela[papel]; ok {
		return perfil
	}
	return perfilAssessor()
}

// PerfilVisitante devolve o perfil de administrador usado apenas para
// montar o esqueleto bloqueado do painel quando não há usuário autenticado.
func PerfilVisitante() Perfil {
	return perfilAdministrador()
}

// TabelaPadrao monta a tabela interna de papéis conhecidos.
func TabelaPadrao() Tabela {
	return Tabela{
		PapelAdministrador: perfilAdministrador(),
		PapelAssessor:      perfilAssessor(),
	}
}

func perfilAdministrador() Perfil {
	return Perfil{
		Papel: PapelAdministrador,
		Telas: []string{
			"painel", "demandas", "nova-demanda", "editar-demanda",
			"pessoas", "admin", "mapa", "triagem-rapida",
		},
		Widgets: map[string]bool{
			WidgetKPIs:         true,
			WidgetDistribuicao: true,
			WidgetBairros:      true,
			WidgetRecentes:     true,
			WidgetPrazos:       true,
			WidgetMapa:         true,
		},
		PodeCriarDemanda: true,
		PodeCriarCidadao: true,
	}
}

func perfilAssessor() Perfil {
	return Perfil{
		Papel: PapelAssessor,
		Telas: []string{"painel", "demandas", "mapa", "triagem-rapida"},
		Widgets: map[string]bool{
			WidgetKPIs:     true,
			WidgetRecentes: true,
			WidgetPrazos:   true,
			WidgetMapa:     true,
		},
		PodeCriarDemanda: false,
		PodeCriarCidadao: false,
	}
}
