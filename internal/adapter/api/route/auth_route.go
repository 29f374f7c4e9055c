package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pitchdeck/internal/adapter/api/controller"
	"github.com/hugohenrick/pitchdeck/pkg/auth"
)

// SetupAdminRoutes configura as rotas da área administrativa
func SetupAdminRoutes(router *gin.RouterGroup, authController *controller.AuthController,
	leadController *controller.LeadController, conversationController *controller.ConversationController,
	jwtService *auth.JWTService) {
	adminRouter := router.Group("/admin")
	{
		// Rota de login (não requer autenticação)
		adminRouter.POST("/login", authController.Login)

		protected := adminRouter.Group("")
		protected.Use(auth.JWTAuthMiddleware(jwtService))
		{
			protected.GET("/leads", leadController.List)
			protected.DELETE("/conversations/:id", conversationController.Delete)
		}
	}
}
