package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Drivers de banco suportados
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Provedores de linguagem suportados
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderCompat    = "compat"
)

// Backends de eventos suportados
const (
	EventsMemory = "memory"
	EventsRedis  = "redis"
)

var (
	ErrUnknownDriver   = errors.New("driver de banco desconhecido")
	ErrUnknownProvider = errors.New("provedor de chat desconhecido")
	ErrUnknownEvents   = errors.New("backend de eventos desconhecido")
)

// Config reúne todas as configurações da aplicação
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	Database DatabaseConfig
	Chat     ChatConfig
	Auth     AuthConfig

	CORSAllowedOrigins []string
	RedisURL           string
	RateLimitPerMinute int
	EventsBackend      string

	TLSPKCS12File     string
	TLSPKCS12Password string
}

// DatabaseConfig contém as configurações de persistência
type DatabaseConfig struct {
	Driver         string
	URL            string
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConnections int32
	MinConnections int32
	SQLitePath     string
}

// ChatConfig contém as configurações do provedor de linguagem
type ChatConfig struct {
	Provider        string
	Model           string
	MaxTokens       int
	SystemPrompt    string
	StreamTimeout   time.Duration
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	AnthropicAPIKey string
}

// AuthConfig contém as configurações da área administrativa
type AuthConfig struct {
	JWTSecretKey      string
	JWTExpiration     time.Duration
	AdminEmail        string
	AdminPasswordHash string
}

// ConnectionString retorna a string de conexão para o PostgreSQL
func (c DatabaseConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// setDefaults registra os valores padrão de cada chave
func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "pitchdeck")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNECTIONS", 10)
	v.SetDefault("DB_MIN_CONNECTIONS", 1)
	v.SetDefault("SQLITE_PATH", "pitchdeck.db")

	v.SetDefault("CHAT_PROVIDER", ProviderOpenAI)
	v.SetDefault("CHAT_MODEL", "")
	v.SetDefault("CHAT_MAX_TOKENS", 1024)
	v.SetDefault("CHAT_SYSTEM_PROMPT", "You are the demo assistant of a customer support AI startup. Answer concisely and helpfully.")
	v.SetDefault("CHAT_STREAM_TIMEOUT", "2m")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("ANTHROPIC_API_KEY", "")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 20)
	v.SetDefault("EVENTS_BACKEND", EventsMemory)

	v.SetDefault("JWT_SECRET_KEY", "")
	v.SetDefault("JWT_EXPIRATION_HOURS", 24)
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")

	v.SetDefault("TLS_PKCS12_FILE", "")
	v.SetDefault("TLS_PKCS12_PASSWORD", "")
}

// Load carrega o arquivo .env (se existir) e monta a configuração a partir do ambiente
func Load(envFiles ...string) (*Config, error) {
	// O .env é opcional; em produção as variáveis vêm do ambiente
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return FromViper(v)
}

// FromViper monta a configuração a partir de uma instância de viper já preenchida
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:      v.GetString("PORT"),
		GinMode:   v.GetString("GIN_MODE"),
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
		Database: DatabaseConfig{
			Driver:         strings.ToLower(v.GetString("DB_DRIVER")),
			URL:            v.GetString("DATABASE_URL"),
			Host:           v.GetString("DB_HOST"),
			Port:           v.GetInt("DB_PORT"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASSWORD"),
			Name:           v.GetString("DB_NAME"),
			SSLMode:        v.GetString("DB_SSL_MODE"),
			MaxConnections: v.GetInt32("DB_MAX_CONNECTIONS"),
			MinConnections: v.GetInt32("DB_MIN_CONNECTIONS"),
			SQLitePath:     v.GetString("SQLITE_PATH"),
		},
		Chat: ChatConfig{
			Provider:        strings.ToLower(v.GetString("CHAT_PROVIDER")),
			Model:           v.GetString("CHAT_MODEL"),
			MaxTokens:       v.GetInt("CHAT_MAX_TOKENS"),
			SystemPrompt:    v.GetString("CHAT_SYSTEM_PROMPT"),
			StreamTimeout:   v.GetDuration("CHAT_STREAM_TIMEOUT"),
			OpenAIAPIKey:    v.GetString("OPENAI_API_KEY"),
			OpenAIBaseURL:   v.GetString("OPENAI_BASE_URL"),
			AnthropicAPIKey: v.GetString("ANTHROPIC_API_KEY"),
		},
		Auth: AuthConfig{
			JWTSecretKey:      v.GetString("JWT_SECRET_KEY"),
			JWTExpiration:     time.Duration(v.GetInt("JWT_EXPIRATION_HOURS")) * time.Hour,
			AdminEmail:        v.GetString("ADMIN_EMAIL"),
			AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		},
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RedisURL:           v.GetString("REDIS_URL"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		EventsBackend:      strings.ToLower(v.GetString("EVENTS_BACKEND")),
		TLSPKCS12File:      v.GetString("TLS_PKCS12_FILE"),
		TLSPKCS12Password:  v.GetString("TLS_PKCS12_PASSWORD"),
	}

	if cfg.Chat.StreamTimeout <= 0 {
		cfg.Chat.StreamTimeout = 2 * time.Minute
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate verifica se os valores enumerados são conhecidos
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}

	switch c.Chat.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderCompat:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Chat.Provider)
	}

	switch c.EventsBackend {
	case EventsMemory:
	case EventsRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: EVENTS_BACKEND=redis exige REDIS_URL", ErrUnknownEvents)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvents, c.EventsBackend)
	}

	return nil
}

// AdminEnabled indica se a área administrativa pode emitir tokens
func (c *Config) AdminEnabled() bool {
	return c.Auth.JWTSecretKey != "" && c.Auth.AdminEmail != "" && c.Auth.AdminPasswordHash != ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
