package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pitchdeck/internal/adapter/api/dto"
)

const (
	ctxAdminEmail = "admin_email"
	ctxAdminRole  = "admin_role"
)

// JWTAuthMiddleware cria um middleware para autenticação JWT
func JWTAuthMiddleware(jwtService *JWTService) gin.HandlerFunc {
	if jwtService == nil {
		// Sem chave configurada a área administrativa fica indisponível
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
				http.StatusServiceUnavailable,
				"Área administrativa desabilitada",
				"JWT_SECRET_KEY, ADMIN_EMAIL e ADMIN_PASSWORD_HASH devem ser configurados",
			))
		}
	}

	return func(c *gin.Context) {
		// Obter o token do cabeçalho Authorization
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Autenticação requerida",
				"O cabeçalho Authorization não foi fornecido",
			))
			return
		}

		// Verificar o formato "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Formato de token inválido",
				"Use o formato 'Bearer <token>'",
			))
			return
		}

		claims, err := jwtService.ValidateToken(tokenParts[1])
		if err != nil {
			message := "Token inválido"
			if errors.Is(err, ErrExpiredToken) {
				message = "Token expirado"
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				message,
				err.Error(),
			))
			return
		}

		// Armazenar as claims no contexto
		c.Set(ctxAdminEmail, claims.Email)
		c.Set(ctxAdminRole, claims.Role)

		c.Next()
	}
}

// GetCurrentAdmin obtém o e-mail do administrador autenticado
func GetCurrentAdmin(c *gin.Context) string {
	email, _ := c.Get(ctxAdminEmail)
	emailStr, _ := email.(string)
	return emailStr
}
