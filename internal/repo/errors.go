package repo

import "errors"

var (
	// ErrNotFound é retornado quando nenhum registro é encontrado.
	ErrNotFound = errors.New("registro não encontrado")
	// ErrDuplicateEmail indica violação de users_email_unique.
	ErrDuplicateEmail = errors.New("email já cadastrado")
	// ErrDuplicateCpf indica violação de users_cpf_unique.
	ErrDuplicateCpf = errors.New("cpf já cadastrado")
	// ErrEmptyPatch indica atualização sem nenhum campo.
	ErrEmptyPatch = errors.New("nenhum campo para atualizar")
)
