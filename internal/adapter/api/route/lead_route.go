package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pitchdeck/internal/adapter/api/controller"
)

// SetupLeadRoutes configura as rotas públicas de leads
func SetupLeadRoutes(router *gin.RouterGroup, leadController *controller.LeadController, rateLimit gin.HandlerFunc) {
	router.POST("/leads", rateLimit, leadController.Create)
}
