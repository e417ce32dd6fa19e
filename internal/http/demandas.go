package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gestaozabele/gabinete/internal/demanda"
	httpmiddleware "github.com/gestaozabele/gabinete/internal/http/middleware"
)

// ListarDemandas aplica o filtro da query (ou o filtro ativo da navegação,
// quando a query não traz restrição alguma) sobre a coleção em memória.
func (h *Handler) ListarDemandas(w http.ResponseWriter, r *http.Request) {
	filtro, temQuery := filtroDaQuery(r)
	if !temQuery {
		filtro = h.navegacao.Estado().Filtro
	} else {
		h.navegacao.AplicarFiltro(filtro)
	}

	WriteJSON(w, http.StatusOK, demanda.Filtrar(h.store.Demandas(), filtro))
}

type atualizarStatusRequest struct {
	Status string `json:"status"`
}

// AtualizarStatusDemanda executa a mutação otimista de status.
func (h *Handler) AtualizarStatusDemanda(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req atualizarStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "status obrigatório", nil)
		return
	}

	autor := ""
	subject := httpmiddleware.GetSubject(r.Context())
	if usuario, err := h.sessao.UsuarioDaSessao(r.Context(), subject); err == nil {
		autor = usuario.Nome
	}

	if err := h.demandas.AtualizarStatus(r.Context(), id, req.Status, autor); err != nil {
		if errors.Is(err, demanda.ErrStatusInvalido) {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "status inválido", nil)
			return
		}
		WriteError(w, http.StatusBadGateway, "REMOTE", err.Error(), nil)
		return
	}

	atual, _ := h.store.DemandaPorID(id)
	WriteJSON(w, http.StatusOK, atual)
}

// ListarInteracoes lista o trilho de auditoria de uma demanda.
func (h *Handler) ListarInteracoes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	WriteJSON(w, http.StatusOK, h.store.InteracoesDaDemanda(id))
}

// filtroDaQuery monta o Filtro a partir da query string. O segundo retorno
// indica se alguma restrição foi informada.
func filtroDaQuery(r *http.Request) (demanda.Filtro, bool) {
	q := r.URL.Query()

	filtro := demanda.Filtro{
		Busca:       strings.TrimSpace(q.Get("busca")),
		Status:      lista(q.Get("status")),
		Prioridades: lista(q.Get("prioridades")),
		Niveis:      lista(q.Get("niveis")),
		Responsavel: strings.TrimSpace(q.Get("responsavel")),
		Tags:        lista(q.Get("tags")),
		DataInicio:  strings.TrimSpace(q.Get("data_inicio")),
		DataFim:     strings.TrimSpace(q.Get("data_fim")),
		CampoData:   strings.TrimSpace(q.Get("campo_data")),
	}

	return filtro, !filtro.Vazio()
}

func lista(valor string) []string {
	valor = strings.TrimSpace(valor)
	if valor == "" {
		return nil
	}
	partes := strings.Split(valor, ",")
	out := make([]string, 0, len(partes))
	for _, p := range partes {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
