package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hugohenrick/pitchdeck/internal/domain/lead"
)

// SQLiteLeadRepository implementa a interface lead.Repository sobre o SQLite
type SQLiteLeadRepository struct {
	db *sql.DB
}

// NewSQLiteLeadRepository cria uma nova instância de SQLiteLeadRepository
func NewSQLiteLeadRepository(db *sql.DB) lead.Repository {
	return &SQLiteLeadRepository{
		db: db,
	}
}

// Create implementa lead.Repository.Create
func (r *SQLiteLeadRepository) Create(ctx context.Context, l *lead.Lead) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO leads (id, name, email, company, message, created_at_ms)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID, l.Name, l.Email, l.Company, l.Message, toMillis(l.CreatedAt))
	if err != nil {
		return fmt.Errorf("erro ao criar lead: %w", err)
	}
	return nil
}

// List implementa lead.Repository.List
func (r *SQLiteLeadRepository) List(ctx context.Context, limit, offset int) ([]*lead.Lead, error) {
	limit, offset = normalizePage(limit, offset)

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, company, message, created_at_ms
		FROM leads
		ORDER BY created_at_ms DESC, seq DESC
		LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar leads: %w", err)
	}
	defer rows.Close()

	leads := []*lead.Lead{}
	for rows.Next() {
		var (
			l                lead.Lead
			company, message sql.NullString
			createdAt        int64
		)
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &company, &message, &createdAt); err != nil {
			return nil, fmt.Errorf("erro ao ler lead: %w", err)
		}
		if company.Valid {
			l.Company = &company.String
		}
		if message.Valid {
			l.Message = &message.String
		}
		l.CreatedAt = fromMillis(createdAt)
		leads = append(leads, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler linhas: %w", err)
	}

	return leads, nil
}

// Count implementa lead.Repository.Count
func (r *SQLiteLeadRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&count); err != nil {
		return 0, fmt.Errorf("erro ao contar leads: %w", err)
	}
	return count, nil
}
