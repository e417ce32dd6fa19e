package http

import (
	"encoding/json"
	"errors"
	"net/http"

	httpmiddleware "github.com/gestaozabele/gabinete/internal/http/middleware"
	"github.com/gestaozabele/gabinete/internal/perfil"
	"github.com/gestaozabele/gabinete/internal/session"
)

type loginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login autentica o usuário e força o painel como tela inicial da sessão.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}
	if req.Email == "" || req.Senha == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "email e senha obrigatórios", nil)
		return
	}

	resultado, err := h.sessao.Login(r.Context(), req.Email, req.Senha)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrCredenciaisInvalidas):
			WriteError(w, http.StatusUnauthorized, "AUTH", "credenciais inválidas", nil)
		case errors.Is(err, session.ErrContaDesativada):
			WriteError(w, http.StatusForbidden, "FORBIDDEN", "conta desativada", nil)
		default:
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível autenticar", nil)
		}
		return
	}

	// Login sempre aterrissa no painel, qualquer que fosse a tela anterior.
	h.navegacao.EntrarSessao()

	WriteJSON(w, http.StatusOK, resultado)
}

// Refresh troca um refresh token válido por tokens novos.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "refresh_token obrigatório", nil)
		return
	}

	resultado, err := h.sessao.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrRefreshInvalido) {
			WriteError(w, http.StatusUnauthorized, "AUTH", "refresh token inválido", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível renovar a sessão", nil)
		return
	}

	WriteJSON(w, http.StatusOK, resultado)
}

// Logout encerra a sessão: revoga tokens, descarta o usuário autenticado e
// as coleções em memória, e devolve a navegação ao estado inicial.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	subject := httpmiddleware.GetSubject(r.Context())
	if err := h.sessao.Logout(r.Context(), subject, req.RefreshToken); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível encerrar a sessão", nil)
		return
	}

	h.navegacao.SairSessao()
	h.store.Limpar()
	h.memo.Invalidar()
	h.avisos.Limpar()

	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// PerfilVisitante entrega o perfil usado pelo esqueleto bloqueado do painel
// quando ninguém está autenticado.
func (h *Handler) PerfilVisitante(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, perfil.PerfilVisitante())
}
