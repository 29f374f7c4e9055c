package chat

import (
	"errors"
	"fmt"
)

// ErrConversationNotFound ocorre quando o id não corresponde a nenhuma conversa
var ErrConversationNotFound = errors.New("conversa não encontrada")

// StorageError encapsula uma falha de I/O da camada de persistência
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError cria um StorageError para a operação informada
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("erro ao %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError indica se o erro (ou algum erro encadeado) é um StorageError
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// IsValidationError indica se o erro corresponde a uma entrada inválida
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyContent) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrEmptyConversationID)
}
