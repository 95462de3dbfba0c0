package service

import "errors"

var (
	// ErrInvalidInput indica dados ausentes ou malformados (400).
	ErrInvalidInput = errors.New("dados inválidos")
	// ErrUnauthorized indica ausência de sessão autenticada (401).
	ErrUnauthorized = errors.New("não autenticado")
	// ErrInvalidCredentials indica falha na autenticação (401).
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	// ErrDuplicateEmail indica email já cadastrado (400).
	ErrDuplicateEmail = errors.New("email duplicado")
	// ErrDuplicateCpf indica CPF já cadastrado (400).
	ErrDuplicateCpf = errors.New("cpf duplicado")
	// ErrStorage indica falha de persistência (500).
	ErrStorage = errors.New("falha de armazenamento")
)

// Error carrega a categoria, a mensagem exibível ao cliente e a causa interna.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Is permite errors.Is(err, ErrInvalidInput) e afins.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Message devolve o texto seguro para o cliente.
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return "Erro interno do servidor."
}
