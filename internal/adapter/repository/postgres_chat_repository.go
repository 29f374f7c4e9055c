package repository

import (
	"context"
	"time"

	"github.com/hugohenrick/pitchdeck/internal/domain/chat"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresChatRepository implementa a interface chat.Repository sobre o PostgreSQL
type PostgresChatRepository struct {
	db *pgxpool.Pool
}

// NewPostgresChatRepository cria uma nova instância de PostgresChatRepository
func NewPostgresChatRepository(db *pgxpool.Pool) chat.Repository {
	return &PostgresChatRepository{
		db: db,
	}
}

// CreateConversation implementa chat.Repository.CreateConversation
func (r *PostgresChatRepository) CreateConversation(ctx context.Context, c *chat.Conversation) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO conversations (id, title, created_at) VALUES ($1, $2, $3)`,
		c.ID, c.Title, c.CreatedAt)
	if err != nil {
		return chat.NewStorageError("criar conversa", err)
	}
	return nil
}

// FindConversationWithMessages implementa chat.Repository.FindConversationWithMessages
func (r *PostgresChatRepository) FindConversationWithMessages(ctx context.Context, id string) (*chat.Conversation, error) {
	if !isValidID(id) {
		return nil, ErrConversationNotFound
	}

	// Uma única leitura garante um snapshot consistente da conversa e das mensagens
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.title, c.created_at,
			m.id, m.role, m.content, m.created_at
		FROM conversations c
		LEFT JOIN messages m ON m.conversation_id = c.id
		WHERE c.id = $1
		ORDER BY m.seq ASC`,
		id)
	if err != nil {
		return nil, chat.NewStorageError("buscar conversa", err)
	}
	defer rows.Close()

	var conversation *chat.Conversation
	for rows.Next() {
		var (
			c                    chat.Conversation
			msgID, role, content *string
			msgCreatedAt         *time.Time
		)
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt, &msgID, &role, &content, &msgCreatedAt); err != nil {
			return nil, chat.NewStorageError("ler conversa", err)
		}
		if conversation == nil {
			c.Messages = []*chat.Message{}
			conversation = &c
		}
		if msgID == nil {
			continue
		}
		conversation.Messages = append(conversation.Messages, &chat.Message{
			ID:             *msgID,
			ConversationID: conversation.ID,
			Role:           chat.Role(*role),
			Content:        *content,
			CreatedAt:      *msgCreatedAt,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, chat.NewStorageError("ler linhas", err)
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	return conversation, nil
}

// ListConversations implementa chat.Repository.ListConversations
func (r *PostgresChatRepository) ListConversations(ctx context.Context, limit, offset int) ([]*chat.Conversation, error) {
	limit, offset = normalizeOptionalPage(limit, offset)

	// LIMIT NULL equivale a LIMIT ALL
	var limitArg interface{}
	if limit > 0 {
		limitArg = limit
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, title, created_at
		FROM conversations
		ORDER BY created_at DESC, seq DESC
		LIMIT $1 OFFSET $2`,
		limitArg, offset)
	if err != nil {
		return nil, chat.NewStorageError("listar conversas", err)
	}
	defer rows.Close()

	conversations := []*chat.Conversation{}
	for rows.Next() {
		var c chat.Conversation
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt); err != nil {
			return nil, chat.NewStorageError("ler conversa", err)
		}
		conversations = append(conversations, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, chat.NewStorageError("ler linhas", err)
	}

	return conversations, nil
}

// AppendMessage implementa chat.Repository.AppendMessage
func (r *PostgresChatRepository) AppendMessage(ctx context.Context, m *chat.Message) error {
	if err := chat.ValidateMessage(m.ConversationID, m.Role, m.Content); err != nil {
		return err
	}
	if !isValidID(m.ConversationID) {
		return ErrConversationNotFound
	}

	// O INSERT só acontece se a conversa existir; zero linhas afetadas significa conversa inexistente
	tag, err := r.db.Exec(ctx,
		`INSERT INTO messages (id, conversation_id, role, content, created_at)
		SELECT $1::uuid, c.id, $3::varchar, $4::text, $5::timestamptz
		FROM conversations c
		WHERE c.id = $2::uuid`,
		m.ID, m.ConversationID, string(m.Role), m.Content, m.CreatedAt)
	if err != nil {
		return chat.NewStorageError("salvar mensagem", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrConversationNotFound
	}

	return nil
}

// ConversationExists implementa chat.Repository.ConversationExists
func (r *PostgresChatRepository) ConversationExists(ctx context.Context, id string) (bool, error) {
	if !isValidID(id) {
		return false, nil
	}

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM conversations WHERE id = $1)`,
		id).Scan(&exists)
	if err != nil {
		return false, chat.NewStorageError("verificar existência da conversa", err)
	}
	return exists, nil
}

// DeleteConversation implementa chat.Repository.DeleteConversation
func (r *PostgresChatRepository) DeleteConversation(ctx context.Context, id string) error {
	if !isValidID(id) {
		return ErrConversationNotFound
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return chat.NewStorageError("excluir conversa", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrConversationNotFound
	}

	return nil
}
