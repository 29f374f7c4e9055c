package repository

import (
	"context"
	"fmt"

	"github.com/hugohenrick/pitchdeck/internal/domain/lead"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLeadRepository implementa a interface lead.Repository sobre o PostgreSQL
type PostgresLeadRepository struct {
	db *pgxpool.Pool
}

// NewPostgresLeadRepository cria uma nova instância de PostgresLeadRepository
func NewPostgresLeadRepository(db *pgxpool.Pool) lead.Repository {
	return &PostgresLeadRepository{
		db: db,
	}
}

// Create implementa lead.Repository.Create
func (r *PostgresLeadRepository) Create(ctx context.Context, l *lead.Lead) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO leads (id, name, email, company, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.Name, l.Email, l.Company, l.Message, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("erro ao criar lead: %w", err)
	}
	return nil
}

// List implementa lead.Repository.List
func (r *PostgresLeadRepository) List(ctx context.Context, limit, offset int) ([]*lead.Lead, error) {
	limit, offset = normalizePage(limit, offset)

	rows, err := r.db.Query(ctx,
		`SELECT id, name, email, company, message, created_at
		FROM leads
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar leads: %w", err)
	}
	defer rows.Close()

	leads := []*lead.Lead{}
	for rows.Next() {
		var l lead.Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Company, &l.Message, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler lead: %w", err)
		}
		leads = append(leads, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler linhas: %w", err)
	}

	return leads, nil
}

// Count implementa lead.Repository.Count
func (r *PostgresLeadRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM leads`).Scan(&count); err != nil {
		return 0, fmt.Errorf("erro ao contar leads: %w", err)
	}
	return count, nil
}
