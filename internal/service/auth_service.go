package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/cidadao/internal/auth"
	"github.com/gestaozabele/cidadao/internal/logging"
	"github.com/gestaozabele/cidadao/internal/repo"
	"github.com/gestaozabele/cidadao/internal/util"
)

const (
	msgRegisterMissing   = "Por favor, preencha todos os campos obrigatórios."
	msgDuplicateEmail    = "Este email já está cadastrado."
	msgDuplicateCpf      = "Este CPF já está cadastrado."
	msgRegisterStorage   = "Erro interno do servidor ao registrar usuário."
	msgLoginMissing      = "CPF e senha são obrigatórios."
	msgInvalidCredential = "Credenciais inválidas."
	msgLoginStorage      = "Erro interno do servidor ao fazer login."
	msgLogoutStorage     = "Erro interno do servidor ao encerrar sessão."
)

type userRepository interface {
	CreateUser(ctx context.Context, arg repo.CreateUserParams) (int64, error)
	GetUserByCpf(ctx context.Context, cpf string) (repo.User, error)
}

type sessionStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	Destroy(ctx context.Context, token string) error
}

// RegisterInput são os campos do cadastro de cidadão.
type RegisterInput struct {
	Name     string
	Email    string
	Cpf      string
	Phone    string
	Address  string
	Password string
}

// LoginInput são as credenciais do login.
type LoginInput struct {
	Cpf      string
	Password string
}

// LoginResult representa sessão recém-aberta.
type LoginResult struct {
	UserID int64
	Token  string
}

// AuthService concentra cadastro, login e logout.
type AuthService struct {
	users    userRepository
	sessions sessionStore
	errLog   *logging.ErrorLog
}

// NewAuthService cria novo serviço.
func NewAuthService(users userRepository, sessions sessionStore, errLog *logging.ErrorLog) *AuthService {
	if errLog == nil {
		errLog = logging.Nop()
	}
	return &AuthService{users: users, sessions: sessions, errLog: errLog}
}

// Register cria usuário com senha em Argon2id.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (int64, error) {
	params := repo.CreateUserParams{
		Name:    util.Sanitize(in.Name),
		Email:   util.Sanitize(in.Email),
		Cpf:     util.Sanitize(in.Cpf),
		Phone:   util.Sanitize(in.Phone),
		Address: util.Sanitize(in.Address),
	}
	if !util.Filled(params.Name, params.Email, params.Cpf, in.Password) {
		return 0, newError(ErrInvalidInput, msgRegisterMissing, nil)
	}

	hash, err := auth.Hash(in.Password)
	if err != nil {
		s.errLog.Error().Err(err).Msg("erro ao gerar hash de senha")
		return 0, newError(ErrStorage, msgRegisterStorage, err)
	}
	params.PasswordHash = hash

	id, err := s.users.CreateUser(ctx, params)
	switch {
	case err == nil:
		log.Info().Int64("user_id", id).Msg("usuário registrado")
		return id, nil
	case errors.Is(err, repo.ErrDuplicateEmail):
		return 0, newError(ErrDuplicateEmail, msgDuplicateEmail, err)
	case errors.Is(err, repo.ErrDuplicateCpf):
		return 0, newError(ErrDuplicateCpf, msgDuplicateCpf, err)
	default:
		s.errLog.Error().Err(err).Str("sqlstate", repo.SQLState(err)).Msg("erro de banco de dados ao registrar usuário")
		return 0, newError(ErrStorage, msgRegisterStorage, err)
	}
}

// Login confere credenciais por CPF e abre sessão.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	cpf := util.Sanitize(in.Cpf)
	if cpf == "" || strings.TrimSpace(in.Password) == "" {
		return nil, newError(ErrInvalidInput, msgLoginMissing, nil)
	}

	user, err := s.users.GetUserByCpf(ctx, cpf)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			auth.VerifyDummy(in.Password)
			return nil, s.loginFailed(cpf)
		}
		s.errLog.Error().Err(err).Msg("erro de banco de dados ao fazer login")
		return nil, newError(ErrStorage, msgLoginStorage, err)
	}

	ok, err := auth.Verify(in.Password, user.PasswordHash)
	if err != nil {
		s.errLog.Error().Err(err).Int64("user_id", user.ID).Msg("hash de senha ilegível")
		return nil, s.loginFailed(cpf)
	}
	if !ok {
		return nil, s.loginFailed(cpf)
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		s.errLog.Error().Err(err).Int64("user_id", user.ID).Msg("erro ao criar sessão")
		return nil, newError(ErrStorage, msgLoginStorage, err)
	}

	return &LoginResult{UserID: user.ID, Token: token}, nil
}

// Logout encerra a sessão do token; token vazio ou expirado não é erro.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		s.errLog.Error().Err(err).Msg("erro ao encerrar sessão")
		return newError(ErrStorage, msgLogoutStorage, err)
	}
	return nil
}

func (s *AuthService) loginFailed(cpf string) error {
	s.errLog.Warn().Str("cpf", cpf).Msg("falha de login")
	return newError(ErrInvalidCredentials, msgInvalidCredential, nil)
}
