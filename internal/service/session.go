package service

// Session é o contexto de autenticação passado explicitamente a cada operação.
type Session struct {
	UserID *int64
}

// NewSession cria sessão autenticada.
func NewSession(userID int64) Session {
	return Session{UserID: &userID}
}

// Anonymous representa requisição sem login.
func Anonymous() Session {
	return Session{}
}

// User devolve o id autenticado, se houver.
func (s Session) User() (int64, bool) {
	if s.UserID == nil {
		return 0, false
	}
	return *s.UserID, true
}

// requireSession falha com ErrUnauthorized quando não há usuário logado.
func requireSession(s Session, message string) (int64, error) {
	id, ok := s.User()
	if !ok {
		return 0, newError(ErrUnauthorized, message, nil)
	}
	return id, nil
}
