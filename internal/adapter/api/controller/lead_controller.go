package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pitchdeck/internal/adapter/api/dto"
	"github.com/hugohenrick/pitchdeck/internal/domain/lead"
	"github.com/hugohenrick/pitchdeck/internal/infrastructure/events"
	"github.com/hugohenrick/pitchdeck/pkg/logger"
)

// LeadController gerencia as requisições relacionadas a leads
type LeadController struct {
	leadRepository lead.Repository
	publisher      events.Publisher
	logger         logger.Logger
}

// NewLeadController cria uma nova instância de LeadController; publisher pode ser nil
func NewLeadController(leadRepository lead.Repository, publisher events.Publisher, log logger.Logger) *LeadController {
	return &LeadController{
		leadRepository: leadRepository,
		publisher:      publisher,
		logger:         log,
	}
}

// Create cadastra um novo lead
// @Summary Cadastra um lead
// @Description Registra o contato enviado pelo formulário da landing page
// @Tags leads
// @Accept json
// @Produce json
// @Param lead body dto.CreateLeadRequest true "Dados do contato"
// @Success 201 {object} dto.LeadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /leads [post]
func (c *LeadController) Create(ctx *gin.Context) {
	var request dto.CreateLeadRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	l, err := lead.NewLead(request.Name, request.Email, request.Company, request.Message)
	if err != nil {
		var validationErr *lead.ValidationError
		if errors.As(err, &validationErr) {
			ctx.JSON(http.StatusBadRequest, dto.NewFieldErrorResponse(http.StatusBadRequest, validationErr.Message, validationErr.Field))
			return
		}
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	if err := c.leadRepository.Create(ctx.Request.Context(), l); err != nil {
		c.logger.Error("erro ao criar lead", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar lead", err.Error()))
		return
	}

	// O lead já está salvo; falha na notificação não muda a resposta
	if c.publisher != nil {
		if err := c.publisher.PublishLeadCreated(ctx.Request.Context(), l); err != nil {
			c.logger.Warn("erro ao publicar evento de lead", "error", err, "lead_id", l.ID)
		}
	}

	ctx.JSON(http.StatusCreated, dto.ToLeadResponse(l))
}

// List lista os leads cadastrados
// @Summary Lista os leads
// @Description Lista paginada dos leads, do mais recente para o mais antigo
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Página" default(1)
// @Param size query int false "Itens por página" default(10)
// @Success 200 {object} dto.LeadListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/leads [get]
func (c *LeadController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "10"))
	pagination := dto.GetPagination(page, size)

	leads, err := c.leadRepository.List(ctx.Request.Context(), pagination.PageSize, pagination.Offset())
	if err != nil {
		c.logger.Error("erro ao listar leads", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar leads", err.Error()))
		return
	}

	total, err := c.leadRepository.Count(ctx.Request.Context())
	if err != nil {
		c.logger.Error("erro ao contar leads", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao contar leads", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToLeadListResponse(leads, total, pagination))
}
