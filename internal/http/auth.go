package http

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/cidadao/internal/service"
)

// Register cadastra cidadão.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(w, r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, badBodyMessage(err), nil)
		return
	}

	_, err = h.auth.Register(r.Context(), service.RegisterInput{
		Name:     p.str("name"),
		Email:    p.str("email"),
		Cpf:      p.str("cpf"),
		Phone:    p.str("phone"),
		Address:  p.str("address"),
		Password: p.str("password"),
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	WriteMessage(w, http.StatusCreated, "Registro realizado com sucesso!")
}

// Login autentica por CPF e senha e abre sessão via cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(w, r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, badBodyMessage(err), nil)
		return
	}

	res, err := h.auth.Login(r.Context(), service.LoginInput{
		Cpf:      p.str("cpf"),
		Password: p.str("password"),
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(res.Token, int(h.cfg.Session.TTL.Seconds())))
	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Login realizado com sucesso!",
		"user_id": res.UserID,
	})
}

// Logout encerra a sessão atual; sem cookie a operação é no-op.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cfg.Session.CookieName); err == nil && cookie.Value != "" {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			log.Warn().Err(err).Msg("falha ao remover sessão")
		}
	}

	expired := h.sessionCookie("", -1)
	expired.Expires = time.Unix(0, 0)
	http.SetCookie(w, expired)
	WriteMessage(w, http.StatusOK, "Logout realizado com sucesso!")
}

func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.cfg.Session.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
