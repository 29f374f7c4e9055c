package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pitchdeck/internal/adapter/api/dto"
	"github.com/hugohenrick/pitchdeck/internal/adapter/repository"
	"github.com/hugohenrick/pitchdeck/internal/domain/chat"
	"github.com/hugohenrick/pitchdeck/pkg/logger"
)

// ConversationController gerencia as requisições relacionadas a conversas
type ConversationController struct {
	chatRepository chat.Repository
	logger         logger.Logger
}

// NewConversationController cria uma nova instância de ConversationController
func NewConversationController(chatRepository chat.Repository, log logger.Logger) *ConversationController {
	return &ConversationController{
		chatRepository: chatRepository,
		logger:         log,
	}
}

// Create cria uma nova conversa
// @Summary Cria uma nova conversa
// @Description Cria uma conversa vazia; sem título usa "New Chat"
// @Tags conversations
// @Accept json
// @Produce json
// @Param conversation body dto.CreateConversationRequest false "Título da conversa"
// @Success 201 {object} dto.ConversationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /conversations [post]
func (c *ConversationController) Create(ctx *gin.Context) {
	var request dto.CreateConversationRequest
	// O corpo é opcional
	if err := ctx.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	title := ""
	if request.Title != nil {
		title = *request.Title
	}
	conversation := chat.NewConversation(title)

	if err := c.chatRepository.CreateConversation(ctx.Request.Context(), conversation); err != nil {
		c.logger.Error("erro ao criar conversa", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar conversa", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToConversationResponse(conversation))
}

// List lista as conversas
// @Summary Lista as conversas
// @Description Lista as conversas da mais recente para a mais antiga, sem mensagens
// @Tags conversations
// @Produce json
// @Param limit query int false "Quantidade máxima (vazio ou 0 lista todas)"
// @Param offset query int false "Deslocamento" default(0)
// @Success 200 {array} dto.ConversationResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /conversations [get]
func (c *ConversationController) List(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	conversations, err := c.chatRepository.ListConversations(ctx.Request.Context(), limit, offset)
	if err != nil {
		c.logger.Error("erro ao listar conversas", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar conversas", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToConversationListResponse(conversations))
}

// GetByID busca uma conversa com suas mensagens
// @Summary Busca uma conversa pelo ID
// @Description Retorna a conversa com as mensagens em ordem cronológica
// @Tags conversations
// @Produce json
// @Param id path string true "ID da conversa"
// @Success 200 {object} dto.ConversationWithMessagesResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /conversations/{id} [get]
func (c *ConversationController) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")

	conversation, err := c.chatRepository.FindConversationWithMessages(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Conversation not found", ""))
			return
		}
		c.logger.Error("erro ao buscar conversa", "error", err, "conversation_id", id)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar conversa", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToConversationWithMessagesResponse(conversation))
}

// Delete remove uma conversa e suas mensagens
// @Summary Remove uma conversa
// @Description Remove a conversa e, em cascata, todas as suas mensagens
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da conversa"
// @Success 204
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/conversations/{id} [delete]
func (c *ConversationController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	if err := c.chatRepository.DeleteConversation(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Conversation not found", ""))
			return
		}
		c.logger.Error("erro ao excluir conversa", "error", err, "conversation_id", id)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao excluir conversa", err.Error()))
		return
	}

	ctx.Status(http.StatusNoContent)
}
