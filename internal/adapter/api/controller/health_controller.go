package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pitchdeck/internal/adapter/api/dto"
)

// HealthController responde ao health check
type HealthController struct {
	version string
}

// NewHealthController cria uma nova instância de HealthController
func NewHealthController(version string) *HealthController {
	return &HealthController{version: version}
}

// Check retorna o estado da API
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Version: c.version,
	})
}
