package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pitchdeck/internal/adapter/api/dto"
	"github.com/hugohenrick/pitchdeck/internal/infrastructure/ratelimit"
	"github.com/hugohenrick/pitchdeck/pkg/logger"
)

// RateLimit rejeita com 429 as requisições acima do limite por IP.
// Com limiter nil o middleware não faz nada; falhas do limitador liberam a requisição.
func RateLimit(limiter ratelimit.Limiter, scope string, log logger.Logger) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP())
		if err != nil {
			log.Warn("erro no limitador de requisições", "error", err, "scope", scope)
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(
				http.StatusTooManyRequests,
				"Too many requests",
				"Tente novamente em instantes",
			))
			return
		}

		c.Next()
	}
}
