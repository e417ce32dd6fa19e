package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gestaozabele/gabinete/internal/demanda"
	"github.com/gestaozabele/gabinete/internal/nav"
)

type navegarRequest struct {
	Acao    string          `json:"acao"`
	Tela    string          `json:"tela,omitempty"`
	Foco    *nav.Foco       `json:"foco,omitempty"`
	Filtro  *demanda.Filtro `json:"filtro,omitempty"`
	Janela  string          `json:"janela,omitempty"`
	Demanda string          `json:"demanda,omitempty"`
}

// EstadoNavegacao devolve o snapshot corrente da máquina de navegação.
func (h *Handler) EstadoNavegacao(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.navegacao.Estado())
}

// Navegar aplica uma transição: menu (com reset completo), foco entre
// vistas, troca de filtro/janela ou seleção de demanda.
func (h *Handler) Navegar(w http.ResponseWriter, r *http.Request) {
	var req navegarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	switch req.Acao {
	case "menu":
		if err := h.navegacao.NavegarMenu(req.Tela); err != nil {
			if errors.Is(err, nav.ErrTelaInvalida) {
				WriteError(w, http.StatusBadRequest, "VALIDATION", "tela inválida", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível navegar", nil)
			return
		}
	case "foco":
		if req.Foco == nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "foco obrigatório", nil)
			return
		}
		h.navegacao.Focar(*req.Foco)
	case "filtro":
		if req.Filtro == nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "filtro obrigatório", nil)
			return
		}
		h.navegacao.AplicarFiltro(*req.Filtro)
	case "janela":
		h.navegacao.AplicarJanela(req.Janela)
	case "selecionar":
		h.navegacao.SelecionarDemanda(req.Demanda)
	default:
		WriteError(w, http.StatusBadRequest, "VALIDATION", "ação desconhecida", nil)
		return
	}

	WriteJSON(w, http.StatusOK, h.navegacao.Estado())
}
