package repo

import (
	"fmt"
	"strings"
)

// SecretariatChange descreve o que fazer com secretariat_id numa atualização.
type SecretariatChange int

const (
	// SecretariatKeep não toca na coluna.
	SecretariatKeep SecretariatChange = iota
	// SecretariatAssign grava o id informado.
	SecretariatAssign
	// SecretariatClear grava NULL (remove atribuição).
	SecretariatClear
)

// DemandPatch é o conjunto de atribuições opcionais de uma atualização parcial.
type DemandPatch struct {
	Status        *string
	Secretariat   SecretariatChange
	SecretariatID int64
}

// Empty indica que nenhuma coluna seria alterada.
func (p DemandPatch) Empty() bool {
	return p.Status == nil && p.Secretariat == SecretariatKeep
}

// build monta o UPDATE parametrizado restrito ao id informado.
func (p DemandPatch) build(id int64) (string, []any, error) {
	if p.Empty() {
		return "", nil, ErrEmptyPatch
	}

	setParts := make([]string, 0, 3)
	args := make([]any, 0, 3)
	idx := 1

	if p.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", idx))
		args = append(args, *p.Status)
		idx++
	}

	switch p.Secretariat {
	case SecretariatAssign:
		setParts = append(setParts, fmt.Sprintf("secretariat_id = $%d", idx))
		args = append(args, p.SecretariatID)
		idx++
	case SecretariatClear:
		setParts = append(setParts, "secretariat_id = NULL")
	}

	setParts = append(setParts, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE demands SET %s WHERE id = $%d", strings.Join(setParts, ", "), idx)
	return query, args, nil
}
