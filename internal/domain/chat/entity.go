package chat

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultConversationTitle é usado quando a conversa é criada sem título
const DefaultConversationTitle = "New Chat"

var (
	ErrEmptyContent        = errors.New("conteúdo da mensagem não pode ser vazio")
	ErrInvalidRole         = errors.New("papel da mensagem inválido")
	ErrEmptyConversationID = errors.New("id da conversa não informado")
)

// Role identifica o autor de uma mensagem
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid verifica se o papel é um dos dois valores permitidos
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Conversation representa uma conversa do chat de demonstração
type Conversation struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"createdAt"`
	Messages  []*Message `json:"messages,omitempty"`
}

// Message representa um turno de uma conversa
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewConversation cria uma nova conversa, aplicando o título padrão se necessário
func NewConversation(title string) *Conversation {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultConversationTitle
	}

	return &Conversation{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
}

// NewMessage cria uma nova mensagem validada
func NewMessage(conversationID string, role Role, content string) (*Message, error) {
	if err := ValidateMessage(conversationID, role, content); err != nil {
		return nil, err
	}

	return &Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// ValidateMessage valida os campos de uma mensagem sem efeitos colaterais.
// Apenas mensagens do usuário exigem conteúdo; a resposta do assistente pode vir vazia.
func ValidateMessage(conversationID string, role Role, content string) error {
	if strings.TrimSpace(conversationID) == "" {
		return ErrEmptyConversationID
	}
	if !role.IsValid() {
		return ErrInvalidRole
	}
	if role == RoleUser && strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	return nil
}

// LastMessage retorna a última mensagem da conversa, ou nil
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}
