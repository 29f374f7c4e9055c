package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hugohenrick/pitchdeck/internal/domain/chat"
)

// SQLiteChatRepository implementa a interface chat.Repository sobre o SQLite
type SQLiteChatRepository struct {
	db *sql.DB
}

// NewSQLiteChatRepository cria uma nova instância de SQLiteChatRepository
func NewSQLiteChatRepository(db *sql.DB) chat.Repository {
	return &SQLiteChatRepository{
		db: db,
	}
}

// CreateConversation implementa chat.Repository.CreateConversation
func (r *SQLiteChatRepository) CreateConversation(ctx context.Context, c *chat.Conversation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO conversations (id, title, created_at_ms) VALUES (?, ?, ?)`,
		c.ID, c.Title, toMillis(c.CreatedAt))
	if err != nil {
		return chat.NewStorageError("criar conversa", err)
	}
	return nil
}

// FindConversationWithMessages implementa chat.Repository.FindConversationWithMessages
func (r *SQLiteChatRepository) FindConversationWithMessages(ctx context.Context, id string) (*chat.Conversation, error) {
	var (
		c         chat.Conversation
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, created_at_ms FROM conversations WHERE id = ?`,
		id).Scan(&c.ID, &c.Title, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, chat.NewStorageError("buscar conversa", err)
	}
	c.CreatedAt = fromMillis(createdAt)

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, role, content, created_at_ms
		FROM messages
		WHERE conversation_id = ?
		ORDER BY seq ASC`,
		id)
	if err != nil {
		return nil, chat.NewStorageError("buscar mensagens", err)
	}
	defer rows.Close()

	c.Messages = []*chat.Message{}
	for rows.Next() {
		var (
			m         chat.Message
			role      string
			createdAt int64
		)
		if err := rows.Scan(&m.ID, &role, &m.Content, &createdAt); err != nil {
			return nil, chat.NewStorageError("ler mensagem", err)
		}
		m.CreatedAt = fromMillis(createdAt)
		m.ConversationID = c.ID
		m.Role = chat.Role(role)
		c.Messages = append(c.Messages, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, chat.NewStorageError("ler linhas", err)
	}

	return &c, nil
}

// ListConversations implementa chat.Repository.ListConversations
func (r *SQLiteChatRepository) ListConversations(ctx context.Context, limit, offset int) ([]*chat.Conversation, error) {
	// LIMIT -1 no SQLite não limita
	limit, offset = normalizeOptionalPage(limit, offset)

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, created_at_ms
		FROM conversations
		ORDER BY created_at_ms DESC, seq DESC
		LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, chat.NewStorageError("listar conversas", err)
	}
	defer rows.Close()

	conversations := []*chat.Conversation{}
	for rows.Next() {
		var (
			c         chat.Conversation
			createdAt int64
		)
		if err := rows.Scan(&c.ID, &c.Title, &createdAt); err != nil {
			return nil, chat.NewStorageError("ler conversa", err)
		}
		c.CreatedAt = fromMillis(createdAt)
		conversations = append(conversations, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, chat.NewStorageError("ler linhas", err)
	}

	return conversations, nil
}

// AppendMessage implementa chat.Repository.AppendMessage
func (r *SQLiteChatRepository) AppendMessage(ctx context.Context, m *chat.Message) error {
	if err := chat.ValidateMessage(m.ConversationID, m.Role, m.Content); err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, role, content, created_at_ms)
		SELECT ?, c.id, ?, ?, ?
		FROM conversations c
		WHERE c.id = ?`,
		m.ID, string(m.Role), m.Content, toMillis(m.CreatedAt), m.ConversationID)
	if err != nil {
		return chat.NewStorageError("salvar mensagem", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return chat.NewStorageError("salvar mensagem", err)
	}
	if affected == 0 {
		return ErrConversationNotFound
	}

	return nil
}

// ConversationExists implementa chat.Repository.ConversationExists
func (r *SQLiteChatRepository) ConversationExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM conversations WHERE id = ?)`,
		id).Scan(&exists)
	if err != nil {
		return false, chat.NewStorageError("verificar existência da conversa", err)
	}
	return exists, nil
}

// DeleteConversation implementa chat.Repository.DeleteConversation
func (r *SQLiteChatRepository) DeleteConversation(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return chat.NewStorageError("excluir conversa", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return chat.NewStorageError("excluir conversa", err)
	}
	if affected == 0 {
		return ErrConversationNotFound
	}

	return nil
}

// O SQLite guarda instantes como milissegundos desde a época (UTC)
func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
