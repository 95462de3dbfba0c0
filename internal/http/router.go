package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/gestaozabele/cidadao/internal/config"
	httpmiddleware "github.com/gestaozabele/cidadao/internal/http/middleware"
	"github.com/gestaozabele/cidadao/internal/logging"
	"github.com/gestaozabele/cidadao/internal/repo"
	"github.com/gestaozabele/cidadao/internal/service"
)

type demandService interface {
	AuthorizeCreate(sess service.Session) error
	AuthorizeUpdate(sess service.Session) error
	Create(ctx context.Context, sess service.Session, in service.CreateDemandInput) (int64, error)
	List(ctx context.Context) ([]repo.Demand, error)
	Update(ctx context.Context, sess service.Session, in service.UpdateDemandInput) error
}

type authService interface {
	Register(ctx context.Context, in service.RegisterInput) (int64, error)
	Login(ctx context.Context, in service.LoginInput) (*service.LoginResult, error)
	Logout(ctx context.Context, token string) error
}

type sessionLookup interface {
	Lookup(ctx context.Context, token string) (int64, error)
}

// Check é uma dependência verificada por /ready.
type Check func(ctx context.Context) error

// Dependencies reúne o que o roteador precisa.
type Dependencies struct {
	Demands  demandService
	Auth     authService
	Sessions sessionLookup
	ErrorLog *logging.ErrorLog
	Metrics  *Metrics
	Checks   map[string]Check
}

// Handler implementa os endpoints da API.
type Handler struct {
	cfg     *config.Config
	demands demandService
	auth    authService
	errLog  *logging.ErrorLog
	checks  map[string]Check
}

// NewRouter devolve roteador configurado.
func NewRouter(cfg *config.Config, deps Dependencies) (http.Handler, error) {
	if deps.Demands == nil || deps.Auth == nil || deps.Sessions == nil {
		return nil, errors.New("dependências obrigatórias ausentes")
	}
	if deps.ErrorLog == nil {
		deps.ErrorLog = logging.Nop()
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}

	h := &Handler{
		cfg:     cfg,
		demands: deps.Demands,
		auth:    deps.Auth,
		errLog:  deps.ErrorLog,
		checks:  deps.Checks,
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(deps.Metrics.Middleware)
	r.Use(httpmiddleware.Recover(deps.ErrorLog))
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "Recurso não encontrado.", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Método não permitido.", nil)
	})

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/get_demands", h.GetDemands)

	r.Group(func(authed chi.Router) {
		authed.Use(httpmiddleware.Session(deps.Sessions, cfg.Session.CookieName))
		authed.Post("/create_demand", h.CreateDemand)
		authed.Post("/update_demand", h.UpdateDemand)
	})

	return r, nil
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// Ready valida conexões com Postgres e Redis.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	failures := map[string]string{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failures[name] = err.Error()
		}
	}

	if len(failures) > 0 {
		h.errLog.Error().Interface("falhas", failures).Msg("dependências indisponíveis")
		WriteError(w, http.StatusServiceUnavailable, "Dependências indisponíveis.", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

// writeServiceError traduz a taxonomia de erros em status HTTP.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	h.writeServiceErrorWithDetails(w, err, nil)
}

func (h *Handler) writeServiceErrorWithDetails(w http.ResponseWriter, err error, details any) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrDuplicateCpf):
		WriteError(w, http.StatusBadRequest, service.Message(err), nil)
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, service.Message(err), nil)
	case errors.Is(err, service.ErrStorage):
		WriteError(w, http.StatusInternalServerError, service.Message(err), details)
	default:
		h.errLog.Error().Err(err).Msg("erro inesperado")
		WriteError(w, http.StatusInternalServerError, "Erro interno do servidor.", nil)
	}
}
