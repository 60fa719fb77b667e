package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"fertilabel/internal/repository"
)

var (
	ErrNotFound           = errors.New("registro não encontrado")
	ErrInvalidStatus      = errors.New("status inválido")
	ErrProductNotFound    = errors.New("produto não encontrado")
	ErrInvalidQuantity    = errors.New("quantidade de etiquetas inválida")
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	ErrInvalidToken       = errors.New("token inválido ou expirado")
)

// ImportWriteError reports a queue import that stopped at a failed write.
// The first Written items of the batch are already stored and stay stored.
type ImportWriteError struct {
	Written int
	Err     error
}

func (e *ImportWriteError) Error() string {
	return fmt.Sprintf("queue import stopped after %d item(s): %v", e.Written, e.Err)
}

func (e *ImportWriteError) Unwrap() error { return e.Err }

// FieldErrors maps a request field to a user-facing message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + fe[k]
	}
	return "campos inválidos: " + strings.Join(parts, "; ")
}

// MissingFieldsError lists required label fields that were left blank, by
// their on-screen names and in form order.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Os seguintes campos são obrigatórios: " + strings.Join(e.Fields, ", ")
}

// notFound converts the repository sentinel into the service one.
func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
