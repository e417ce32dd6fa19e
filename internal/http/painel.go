package http

import (
	"net/http"
	"time"

	"github.com/gestaozabele/gabinete/internal/cidadao"
	"github.com/gestaozabele/gabinete/internal/dados"
	"github.com/gestaozabele/gabinete/internal/dashboard"
	"github.com/gestaozabele/gabinete/internal/demanda"
	httpmiddleware "github.com/gestaozabele/gabinete/internal/http/middleware"
	"github.com/gestaozabele/gabinete/internal/perfil"
)

type painelResponse struct {
	Stats      dashboard.Stats `json:"stats"`
	Perfil     perfil.Perfil   `json:"perfil"`
	Conectado  bool            `json:"conectado"`
	Carregando bool            `json:"carregando"`
}

// Painel agrega os indicadores do escopo/janela pedidos junto com o perfil
// de permissões do usuário autenticado.
func (h *Handler) Painel(w http.ResponseWriter, r *http.Request) {
	escopo := r.URL.Query().Get("escopo")
	if escopo == "" {
		escopo = dashboard.EscopoDemandas
	}
	janela := r.URL.Query().Get("janela")
	if janela == "" {
		janela = h.navegacao.Estado().Janela
	}

	stats := h.memo.Calcular(dashboard.Entrada{
		Demandas: h.store.Demandas(),
		Cidadaos: h.store.Cidadaos(),
		Escopo:   escopo,
		Janela:   janela,
		Agora:    time.Now(),
	})

	WriteJSON(w, http.StatusOK, painelResponse{
		Stats:      stats,
		Perfil:     h.perfilDoUsuario(r),
		Conectado:  h.store.Conectado(),
		Carregando: h.store.Carregando(),
	})
}

// Marcadores projeta as coleções filtradas em marcadores de mapa.
func (h *Handler) Marcadores(w http.ResponseWriter, r *http.Request) {
	filtro := h.navegacao.Estado().Filtro

	demandas := demanda.Filtrar(h.store.Demandas(), filtro)
	cidadaos := cidadao.Filtrar(h.store.Cidadaos(), filtro.Busca)

	WriteJSON(w, http.StatusOK, dashboard.Marcadores(demandas, cidadaos))
}

// Notificacao devolve a notificação efêmera corrente, se houver.
func (h *Handler) Notificacao(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.avisos.Atual())
}

// ForcarRefresh dispara um refresh completo e reconciliador da fonte.
func (h *Handler) ForcarRefresh(w http.ResponseWriter, r *http.Request) {
	if err := dados.Atualizar(r.Context(), h.store, h.fonte); err != nil {
		WriteError(w, http.StatusBadGateway, "REMOTE", "não foi possível atualizar os dados", err.Error())
		return
	}
	h.memo.Invalidar()
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ListarUsuarios lista os colaboradores carregados (tela de administração).
func (h *Handler) ListarUsuarios(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.store.Usuarios())
}

// perfilDoUsuario resolve o perfil a partir do registro de sessão; sem
// registro válido, cai no perfil menos privilegiado pela própria resolução.
func (h *Handler) perfilDoUsuario(r *http.Request) perfil.Perfil {
	subject := httpmiddleware.GetSubject(r.Context())
	usuario, err := h.sessao.UsuarioDaSessao(r.Context(), subject)
	if err != nil {
		return h.sessao.Perfil(dados.Usuario{})
	}
	return h.sessao.Perfil(usuario)
}
