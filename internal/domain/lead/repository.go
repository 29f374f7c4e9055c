package lead

import (
	"context"
)

// Repository define a interface para operações de repositório de leads
type Repository interface {
	// Create persiste um novo lead
	Create(ctx context.Context, l *Lead) error

	// List lista os leads do mais recente para o mais antigo
	List(ctx context.Context, limit, offset int) ([]*Lead, error)

	// Count conta quantos leads existem
	Count(ctx context.Context) (int, error)
}
