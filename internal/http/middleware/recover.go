package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/cidadao/internal/logging"
)

// Recover garante resposta sanitizada em caso de panic e registra no log de erros.
func Recover(errLog *logging.ErrorLog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error().Interface("panic", rec).Msg("panic recuperado")
					errLog.Error().
						Interface("panic", rec).
						Str("path", r.URL.Path).
						Bytes("stack", debug.Stack()).
						Msg("erro inesperado")
					writeError(w, http.StatusInternalServerError, "Erro interno do servidor.")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
