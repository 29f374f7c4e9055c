package route

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pitchdeck/internal/adapter/api/controller"
	"github.com/hugohenrick/pitchdeck/internal/adapter/api/middleware"
	"github.com/hugohenrick/pitchdeck/internal/infrastructure/ratelimit"
	"github.com/hugohenrick/pitchdeck/pkg/auth"
	"github.com/hugohenrick/pitchdeck/pkg/logger"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// BasePath é o prefixo de todas as rotas da API
const BasePath = "/api"

// Dependencies reúne o que o router precisa para montar as rotas
type Dependencies struct {
	Logger         logger.Logger
	AllowedOrigins []string
	Limiter        ratelimit.Limiter
	JWTService     *auth.JWTService
	EnableSwagger  bool

	HealthController       *controller.HealthController
	ConversationController *controller.ConversationController
	MessageController      *controller.MessageController
	LeadController         *controller.LeadController
	AuthController         *controller.AuthController
}

// NewRouter cria o engine gin com middlewares globais e todas as rotas
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	api := router.Group(BasePath)
	api.GET("/health", deps.HealthController.Check)

	SetupLeadRoutes(api, deps.LeadController, middleware.RateLimit(deps.Limiter, "leads", deps.Logger))
	SetupConversationRoutes(api, deps.ConversationController, deps.MessageController,
		middleware.RateLimit(deps.Limiter, "chat", deps.Logger))
	SetupAdminRoutes(api, deps.AuthController, deps.LeadController, deps.ConversationController, deps.JWTService)

	if deps.EnableSwagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
