package http

import (
	"net/http"
	"strings"

	"github.com/gestaozabele/gabinete/internal/cidadao"
)

// ListarCidadaos filtra o cadastro de munícipes pelo termo de busca.
func (h *Handler) ListarCidadaos(w http.ResponseWriter, r *http.Request) {
	termo := strings.TrimSpace(r.URL.Query().Get("busca"))
	WriteJSON(w, http.StatusOK, cidadao.Filtrar(h.store.Cidadaos(), termo))
}
