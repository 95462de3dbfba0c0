package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/cidadao/internal/service"
	"github.com/gestaozabele/cidadao/internal/session"
)

type contextKey string

// ContextKeyUser guarda o id do usuário autenticado.
const ContextKeyUser contextKey = "user_id"

type sessionLookup interface {
	Lookup(ctx context.Context, token string) (int64, error)
}

// Session resolve o cookie de sessão e injeta o usuário no contexto.
// Sem cookie, ou com token expirado, a requisição segue anônima.
func Session(store sessionLookup, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := store.Lookup(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, session.ErrNotFound) {
					next.ServeHTTP(w, r)
					return
				}
				log.Error().Err(err).Msg("falha ao consultar sessão")
				writeError(w, http.StatusInternalServerError, "Erro interno do servidor.")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
		})
	}
}

// WithUser injeta usuário autenticado no contexto.
func WithUser(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ContextKeyUser, userID)
}

// GetSession monta o contexto de autenticação passado aos serviços.
func GetSession(ctx context.Context) service.Session {
	if id, ok := ctx.Value(ContextKeyUser).(int64); ok {
		return service.NewSession(id)
	}
	return service.Anonymous()
}
