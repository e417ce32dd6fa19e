package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/gestaozabele/gabinete/internal/auth"
	"github.com/gestaozabele/gabinete/internal/config"
	"github.com/gestaozabele/gabinete/internal/dados"
	"github.com/gestaozabele/gabinete/internal/dashboard"
	"github.com/gestaozabele/gabinete/internal/demanda"
	httpmiddleware "github.com/gestaozabele/gabinete/internal/http/middleware"
	"github.com/gestaozabele/gabinete/internal/nav"
	"github.com/gestaozabele/gabinete/internal/notify"
	"github.com/gestaozabele/gabinete/internal/perfil"
	"github.com/gestaozabele/gabinete/internal/session"
	"github.com/gestaozabele/gabinete/internal/tema"
)

// Handler concentra as dependências dos endpoints do painel.
type Handler struct {
	cfg       *config.Config
	store     *dados.Store
	fonte     dados.Fonte
	demandas  *demanda.Service
	sessao    *session.Service
	memo      *dashboard.Memo
	navegacao *nav.Machine
	tema      *tema.Scheduler
	avisos    *notify.Service
}

// Deps agrupa o que o roteador precisa receber pronto.
type Deps struct {
	Config    *config.Config
	Store     *dados.Store
	Fonte     dados.Fonte
	Demandas  *demanda.Service
	Sessao    *session.Service
	Memo      *dashboard.Memo
	Navegacao *nav.Machine
	Tema      *tema.Scheduler
	Avisos    *notify.Service
	JWT       *auth.JWTManager
}

// NewRouter devolve roteador configurado.
func NewRouter(deps Deps) http.Handler {
	h := &Handler{
		cfg:       deps.Config,
		store:     deps.Store,
		fonte:     deps.Fonte,
		demandas:  deps.Demandas,
		sessao:    deps.Sessao,
		memo:      deps.Memo,
		navegacao: deps.Navegacao,
		tema:      deps.Tema,
		avisos:    deps.Avisos,
	}

	publicLimiter := httpmiddleware.NewRateLimiter(deps.Config.RateLimitPublic.RequestsPerSecond, deps.Config.RateLimitPublic.Burst)
	authLimiter := httpmiddleware.NewRateLimiter(deps.Config.RateLimitAuth.RequestsPerSecond, deps.Config.RateLimitAuth.Burst)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(deps.Config.AllowOrigins))

	r.Group(func(r chi.Router) {
		r.Use(httpmiddleware.IPRateLimit(publicLimiter))

		r.Get("/healthz", h.Health)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/refresh", h.Refresh)
		r.Get("/auth/visitante", h.PerfilVisitante)
	})

	r.Group(func(r chi.Router) {
		r.Use(httpmiddleware.Auth(deps.JWT))
		r.Use(httpmiddleware.UserRateLimit(authLimiter))

		r.Post("/auth/logout", h.Logout)

		r.Route("/api", func(r chi.Router) {
			r.Get("/painel", h.Painel)
			r.Post("/refresh", h.ForcarRefresh)
			r.Get("/notificacao", h.Notificacao)

			r.Get("/demandas", h.ListarDemandas)
			r.Patch("/demandas/{id}/status", h.AtualizarStatusDemanda)
			r.Get("/demandas/{id}/interacoes", h.ListarInteracoes)

			r.Get("/cidadaos", h.ListarCidadaos)
			r.Get("/mapa/marcadores", h.Marcadores)

			r.Get("/nav", h.EstadoNavegacao)
			r.Post("/nav", h.Navegar)

			r.Get("/tema", h.Tema)
			r.Put("/tema", h.DefinirTema)

			r.With(httpmiddleware.RequirePapeis(perfil.PapelAdministrador)).
				Get("/admin/usuarios", h.ListarUsuarios)
		})
	})

	return r
}

// Health responde verificação simples de vida.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
