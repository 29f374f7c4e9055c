package dto

import (
	"time"

	"github.com/hugohenrick/pitchdeck/internal/domain/chat"
)

// CreateConversationRequest representa os dados para criação de uma conversa
type CreateConversationRequest struct {
	Title *string `json:"title"`
}

// SendMessageRequest representa a mensagem enviada pelo usuário
type SendMessageRequest struct {
	Content string `json:"content"`
}

// ConversationResponse representa uma conversa sem mensagens
type ConversationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageResponse representa uma mensagem da conversa
type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ConversationWithMessagesResponse representa uma conversa com as mensagens em ordem
type ConversationWithMessagesResponse struct {
	ConversationResponse
	Messages []MessageResponse `json:"messages"`
}

// StreamFrame documenta os eventos enviados em text/event-stream
type StreamFrame struct {
	Content string `json:"content,omitempty"`
	Done    bool   `json:"done,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ToConversationResponse converte uma conversa para o DTO de resposta
func ToConversationResponse(c *chat.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
	}
}

// ToConversationListResponse converte a lista de conversas
func ToConversationListResponse(conversations []*chat.Conversation) []ConversationResponse {
	response := make([]ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		response = append(response, ToConversationResponse(c))
	}
	return response
}

// ToMessageResponse converte uma mensagem para o DTO de resposta
func ToMessageResponse(m *chat.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           string(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

// ToConversationWithMessagesResponse converte a conversa incluindo as mensagens
func ToConversationWithMessagesResponse(c *chat.Conversation) ConversationWithMessagesResponse {
	messages := make([]MessageResponse, 0, len(c.Messages))
	for _, m := range c.Messages {
		messages = append(messages, ToMessageResponse(m))
	}
	return ConversationWithMessagesResponse{
		ConversationResponse: ToConversationResponse(c),
		Messages:             messages,
	}
}
