package chat

import (
	"context"
)

// Repository define a interface de persistência de conversas e mensagens
type Repository interface {
	// CreateConversation persiste uma nova conversa
	CreateConversation(ctx context.Context, conversation *Conversation) error

	// FindConversationWithMessages retorna a conversa com as mensagens em ordem cronológica
	FindConversationWithMessages(ctx context.Context, id string) (*Conversation, error)

	// ListConversations lista as conversas da mais recente para a mais antiga, sem mensagens.
	// limit<=0 retorna todas.
	ListConversations(ctx context.Context, limit, offset int) ([]*Conversation, error)

	// AppendMessage adiciona uma mensagem ao final de uma conversa existente
	AppendMessage(ctx context.Context, message *Message) error

	// ConversationExists verifica se uma conversa existe
	ConversationExists(ctx context.Context, id string) (bool, error)

	// DeleteConversation remove a conversa e, em cascata, suas mensagens
	DeleteConversation(ctx context.Context, id string) error
}
