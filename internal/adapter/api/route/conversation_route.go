package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pitchdeck/internal/adapter/api/controller"
)

// SetupConversationRoutes configura as rotas de conversas e do chat em streaming
func SetupConversationRoutes(router *gin.RouterGroup, conversationController *controller.ConversationController,
	messageController *controller.MessageController, rateLimit gin.HandlerFunc) {
	conversationRouter := router.Group("/conversations")
	{
		conversationRouter.POST("", conversationController.Create)
		conversationRouter.GET("", conversationController.List)
		conversationRouter.GET("/:id", conversationController.GetByID)
		conversationRouter.POST("/:id/messages", rateLimit, messageController.Send)
	}
}
