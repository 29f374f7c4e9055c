package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pitchdeck/internal/adapter/api/dto"
	"github.com/hugohenrick/pitchdeck/pkg/auth"
	"github.com/hugohenrick/pitchdeck/pkg/logger"
)

// AuthController gerencia as requisições relacionadas à autenticação
type AuthController struct {
	authenticator *auth.AdminAuthenticator
	jwtService    *auth.JWTService
	logger        logger.Logger
}

// NewAuthController cria uma nova instância de AuthController.
// Com authenticator ou jwtService nil o login fica indisponível.
func NewAuthController(authenticator *auth.AdminAuthenticator, jwtService *auth.JWTService, log logger.Logger) *AuthController {
	return &AuthController{
		authenticator: authenticator,
		jwtService:    jwtService,
		logger:        log,
	}
}

// Login autentica o administrador e retorna um token JWT
// @Summary Autentica o administrador
// @Description Verifica as credenciais configuradas e retorna um token JWT
// @Tags admin
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Credenciais de login"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /admin/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	if c.authenticator == nil || c.jwtService == nil {
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(http.StatusServiceUnavailable, "Área administrativa desabilitada", ""))
		return
	}

	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	if err := c.authenticator.Authenticate(request.Email, request.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.logger.Warn("tentativa de login inválida", "email", request.Email, "ip", ctx.ClientIP())
			ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Credenciais inválidas", "Email ou senha incorretos"))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao autenticar", err.Error()))
		return
	}

	token, expiresAt, err := c.jwtService.GenerateToken(request.Email)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao gerar token", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
	})
}
