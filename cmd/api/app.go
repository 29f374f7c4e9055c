package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/hugohenrick/pitchdeck/docs"
	"github.com/hugohenrick/pitchdeck/internal/adapter/api/controller"
	"github.com/hugohenrick/pitchdeck/internal/adapter/api/route"
	"github.com/hugohenrick/pitchdeck/internal/adapter/repository"
	"github.com/hugohenrick/pitchdeck/internal/domain/chat"
	"github.com/hugohenrick/pitchdeck/internal/domain/lead"
	"github.com/hugohenrick/pitchdeck/internal/infrastructure/config"
	"github.com/hugohenrick/pitchdeck/internal/infrastructure/database"
	"github.com/hugohenrick/pitchdeck/internal/infrastructure/events"
	"github.com/hugohenrick/pitchdeck/internal/infrastructure/ratelimit"
	"github.com/hugohenrick/pitchdeck/pkg/auth"
	"github.com/hugohenrick/pitchdeck/pkg/logger"
	"github.com/hugohenrick/pitchdeck/pkg/pkcs12"
	"github.com/hugohenrick/pitchdeck/pkg/provider"
	"github.com/hugohenrick/pitchdeck/pkg/relay"
	"github.com/redis/go-redis/v9"
)

// Version é a versão reportada pelo health check
const Version = "1.0.0"

const shutdownTimeout = 10 * time.Second

// App representa a aplicação e suas dependências
type App struct {
	config    *config.Config
	logger    logger.Logger
	router    *gin.Engine
	tlsConfig *tls.Config
	closers   []func() error
}

// NewApp cria uma nova instância do aplicativo a partir da configuração
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	gin.SetMode(cfg.GinMode)

	app := &App{config: cfg, logger: log}

	chatRepo, leadRepo, err := app.openStorage(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	// Provedor de linguagem
	chatProvider, err := provider.New(cfg.Chat, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("erro ao configurar provedor de chat: %w", err)
	}

	chatRelay := relay.NewRelay(chatRepo, chatProvider, log,
		relay.WithSystemPrompt(cfg.Chat.SystemPrompt),
		relay.WithModel(cfg.Chat.Model),
		relay.WithMaxTokens(cfg.Chat.MaxTokens),
		relay.WithStreamTimeout(cfg.Chat.StreamTimeout),
	)

	// Redis é opcional: limitador compartilhado e transporte de eventos
	var redisClient redis.UniversalClient
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("erro ao interpretar REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			app.Close()
			return nil, fmt.Errorf("erro ao conectar no redis: %w", err)
		}
		redisClient = client
		app.closers = append(app.closers, client.Close)
	}

	bus, err := app.openEvents(ctx, redisClient)
	if err != nil {
		app.Close()
		return nil, err
	}

	// Área administrativa só é habilitada com todas as credenciais configuradas
	var (
		jwtService    *auth.JWTService
		authenticator *auth.AdminAuthenticator
	)
	if cfg.AdminEnabled() {
		jwtService, err = auth.NewJWTService(cfg.Auth.JWTSecretKey, cfg.Auth.JWTExpiration)
		if err != nil {
			app.Close()
			return nil, err
		}
		authenticator = auth.NewAdminAuthenticator(cfg.Auth.AdminEmail, cfg.Auth.AdminPasswordHash)
	} else {
		log.Warn("Área administrativa desabilitada: JWT_SECRET_KEY, ADMIN_EMAIL e ADMIN_PASSWORD_HASH são obrigatórios")
	}

	if cfg.TLSPKCS12File != "" {
		app.tlsConfig, err = pkcs12.LoadTLSConfig(cfg.TLSPKCS12File, cfg.TLSPKCS12Password)
		if err != nil {
			app.Close()
			return nil, err
		}
	}

	app.router = route.NewRouter(route.Dependencies{
		Logger:         log,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Limiter:        ratelimit.New(redisClient, cfg.RateLimitPerMinute),
		JWTService:     jwtService,
		EnableSwagger:  cfg.GinMode != gin.ReleaseMode,

		HealthController:       controller.NewHealthController(Version),
		ConversationController: controller.NewConversationController(chatRepo, log),
		MessageController:      controller.NewMessageController(chatRelay, log),
		LeadController:         controller.NewLeadController(leadRepo, bus, log),
		AuthController:         controller.NewAuthController(authenticator, jwtService, log),
	})

	return app, nil
}

// openStorage abre o banco escolhido em DB_DRIVER e cria os repositórios
func (a *App) openStorage(ctx context.Context) (chat.Repository, lead.Repository, error) {
	cfg := a.config.Database

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.logger.Info("Banco SQLite aberto", "path", cfg.SQLitePath)
		return repository.NewSQLiteChatRepository(db), repository.NewSQLiteLeadRepository(db), nil

	default:
		migrator, err := database.NewMigrator(cfg.ConnectionString(), a.logger)
		if err != nil {
			return nil, nil, err
		}
		err = migrator.Up()
		if closeErr := migrator.Close(); closeErr != nil {
			a.logger.Warn("Erro ao fechar migrator", "error", closeErr)
		}
		if err != nil {
			return nil, nil, err
		}

		db, err := database.NewPostgresDB(ctx, cfg, a.logger)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func() error {
			db.Close()
			return nil
		})
		return repository.NewPostgresChatRepository(db.Pool()), repository.NewPostgresLeadRepository(db.Pool()), nil
	}
}

// openEvents cria o barramento de eventos e registra o consumidor padrão
func (a *App) openEvents(ctx context.Context, redisClient redis.UniversalClient) (*events.Bus, error) {
	var (
		bus *events.Bus
		err error
	)

	if a.config.EventsBackend == config.EventsRedis {
		bus, err = events.NewRedisBus(redisClient, "pitchdeck-api", a.logger)
		if err != nil {
			return nil, err
		}
	} else {
		bus = events.NewMemoryBus(a.logger)
	}
	a.closers = append(a.closers, bus.Close)

	// O contexto do consumidor vive até o Close do barramento
	if err := bus.ConsumeLeadCreated(context.WithoutCancel(ctx), events.LogLeadCreated(a.logger)); err != nil {
		return nil, err
	}
	return bus, nil
}

// Start inicia o servidor HTTP e bloqueia até receber SIGINT/SIGTERM
func (a *App) Start() error {
	server := &http.Server{
		Addr:              ":" + a.config.Port,
		Handler:           a.router,
		TLSConfig:         a.tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Servidor iniciado", "addr", server.Addr, "tls", a.tlsConfig != nil, "version", Version)

		var err error
		if a.tlsConfig != nil {
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("erro no servidor HTTP: %w", err)
		}
		return nil
	case sig := <-sigCh:
		a.logger.Info("Sinal recebido, encerrando servidor", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("erro ao encerrar servidor: %w", err)
	}
	a.logger.Info("Servidor encerrado")
	return nil
}

// GetRouter retorna o router da aplicação
func (a *App) GetRouter() *gin.Engine {
	return a.router
}

// Close libera os recursos da aplicação na ordem inversa de abertura
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Erro ao liberar recurso", "error", err)
		}
	}
	a.closers = nil
}
