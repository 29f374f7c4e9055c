package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pitchdeck/internal/adapter/api/dto"
	"github.com/hugohenrick/pitchdeck/internal/adapter/repository"
	"github.com/hugohenrick/pitchdeck/internal/domain/chat"
	"github.com/hugohenrick/pitchdeck/pkg/logger"
	"github.com/hugohenrick/pitchdeck/pkg/relay"
	"github.com/hugohenrick/pitchdeck/pkg/sse"
)

// MessageController recebe mensagens do usuário e transmite a resposta gerada
type MessageController struct {
	relay  *relay.Relay
	logger logger.Logger
}

// NewMessageController cria uma nova instância de MessageController
func NewMessageController(r *relay.Relay, log logger.Logger) *MessageController {
	return &MessageController{
		relay:  r,
		logger: log,
	}
}

// Send persiste a mensagem do usuário e transmite a resposta do assistente
// @Summary Envia uma mensagem
// @Description Persiste a mensagem e responde com text/event-stream. Cada evento é "data: <json>" com {content}, {done:true} ou {error}.
// @Tags conversations
// @Accept json
// @Produce text/event-stream
// @Param id path string true "ID da conversa"
// @Param message body dto.SendMessageRequest true "Conteúdo da mensagem"
// @Success 200 {object} dto.StreamFrame
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /conversations/{id}/messages [post]
func (c *MessageController) Send(ctx *gin.Context) {
	id := ctx.Param("id")

	var request dto.SendMessageRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	exchange, err := c.relay.Prepare(ctx.Request.Context(), id, request.Content)
	if err != nil {
		switch {
		case chat.IsValidationError(err):
			ctx.JSON(http.StatusBadRequest, dto.NewFieldErrorResponse(http.StatusBadRequest, "Content is required", "content"))
		case errors.Is(err, repository.ErrConversationNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Conversation not found", ""))
		default:
			c.logger.Error("erro ao preparar mensagem", "error", err, "conversation_id", id)
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Failed to send message", err.Error()))
		}
		return
	}

	writer, err := sse.NewWriter(ctx.Writer)
	if err != nil {
		c.logger.Error("resposta não suporta streaming", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Failed to send message", err.Error()))
		return
	}
	writer.Start()

	result := exchange.Stream(ctx.Request.Context(), writer)
	c.logger.Info("stream encerrado",
		"conversation_id", id,
		"outcome", result.Outcome.String(),
		"chars", len(result.Content))
}
