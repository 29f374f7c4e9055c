package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]interface{}) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, ProviderOpenAI, cfg.Chat.Provider)
	assert.Equal(t, 2*time.Minute, cfg.Chat.StreamTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTExpiration)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 20, cfg.RateLimitPerMinute)
	assert.False(t, cfg.AdminEnabled())
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := FromViper(newViper(map[string]interface{}{
		"DB_DRIVER":            "SQLite",
		"CHAT_PROVIDER":        "anthropic",
		"CHAT_STREAM_TIMEOUT":  "30s",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example ,",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, ProviderAnthropic, cfg.Chat.Provider)
	assert.Equal(t, 30*time.Second, cfg.Chat.StreamTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestFromViper_RejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]interface{}
		wantErr error
	}{
		{"driver", map[string]interface{}{"DB_DRIVER": "mysql"}, ErrUnknownDriver},
		{"provider", map[string]interface{}{"CHAT_PROVIDER": "cohere"}, ErrUnknownProvider},
		{"events", map[string]interface{}{"EVENTS_BACKEND": "kafka"}, ErrUnknownEvents},
		{"redis events without url", map[string]interface{}{"EVENTS_BACKEND": "redis"}, ErrUnknownEvents},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromViper(newViper(tt.values))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=disable", c.ConnectionString())

	c.URL = "postgres://override"
	assert.Equal(t, "postgres://override", c.ConnectionString())
}
