package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gestaozabele/gabinete/internal/tema"
)

type temaResponse struct {
	Modo  string `json:"modo"`
	Ativo string `json:"ativo"`
}

type definirTemaRequest struct {
	Modo     string `json:"modo,omitempty"`
	Alternar bool   `json:"alternar,omitempty"`
}

// Tema devolve o modo configurado e o tema em vigor.
func (h *Handler) Tema(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, temaResponse{Modo: h.tema.Modo(), Ativo: h.tema.Ativo()})
}

// DefinirTema troca o modo de tema ou alterna explicitamente claro/escuro.
func (h *Handler) DefinirTema(w http.ResponseWriter, r *http.Request) {
	var req definirTemaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	if req.Alternar {
		if _, err := h.tema.Alternar(r.Context()); err != nil {
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível persistir o tema", nil)
			return
		}
	} else {
		if err := h.tema.DefinirModo(r.Context(), req.Modo); err != nil {
			if errors.Is(err, tema.ErrModoInvalido) {
				WriteError(w, http.StatusBadRequest, "VALIDATION", "modo de tema inválido", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível persistir o tema", nil)
			return
		}
	}

	WriteJSON(w, http.StatusOK, temaResponse{Modo: h.tema.Modo(), Ativo: h.tema.Ativo()})
}
