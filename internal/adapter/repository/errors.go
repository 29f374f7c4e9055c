package repository

import (
	"github.com/google/uuid"
	"github.com/hugohenrick/pitchdeck/internal/domain/chat"
)

// Erros específicos do repositório
var (
	ErrConversationNotFound = chat.ErrConversationNotFound
)

// Limites de paginação aplicados pelos repositórios
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// normalizePage aplica os limites padrão de paginação
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	} else if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// normalizeOptionalPage é a variante de normalizePage em que limit<=0 significa
// "sem limite"; nesse caso retorna limit = -1
func normalizeOptionalPage(limit, offset int) (int, int) {
	if limit <= 0 {
		if offset < 0 {
			offset = 0
		}
		return -1, offset
	}
	return normalizePage(limit, offset)
}

// isValidID evita enviar ao banco identificadores que não são UUID
func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
