// Package provider abstrai os provedores de linguagem que geram as respostas do chat.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pitchdeck/internal/infrastructure/config"
	"github.com/hugohenrick/pitchdeck/pkg/logger"
)

// Modelos usados quando CHAT_MODEL não é informado
const (
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
	DefaultMaxTokens      = 1024
)

var (
	ErrMissingAPIKey = errors.New("chave de API do provedor não configurada")
	ErrEmptyRequest  = errors.New("requisição sem turnos")
)

// Role identifica o autor de um turno enviado ao provedor
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn é um turno do histórico enviado ao provedor
type Turn struct {
	Role    Role
	Content string
}

// Request contém o histórico e os parâmetros da completação
type Request struct {
	System    string
	Turns     []Turn
	Model     string
	MaxTokens int
}

// Stream é uma sequência finita de fragmentos de texto.
// Não pode ser reiniciada; Close deve ser chamado ao final.
type Stream interface {
	// Next avança para o próximo fragmento; retorna false no fim ou em erro
	Next() bool
	// Fragment retorna o fragmento corrente
	Fragment() string
	// Err retorna o erro que encerrou a sequência, se houver
	Err() error
	// Close libera a conexão com o provedor
	Close() error
}

// Provider inicia completações em streaming
type Provider interface {
	Stream(ctx context.Context, req Request) (Stream, error)
}

// ProviderFunc adapta uma função ao contrato Provider
type ProviderFunc func(ctx context.Context, req Request) (Stream, error)

// Stream implementa Provider
func (f ProviderFunc) Stream(ctx context.Context, req Request) (Stream, error) {
	return f(ctx, req)
}

// New cria o provedor selecionado na configuração
func New(cfg config.ChatConfig, log logger.Logger) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY", ErrMissingAPIKey)
		}
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, log), nil
	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY", ErrMissingAPIKey)
		}
		return NewAnthropicProvider(cfg.AnthropicAPIKey, log), nil
	case config.ProviderCompat:
		if cfg.OpenAIBaseURL == "" {
			return nil, fmt.Errorf("%w: OPENAI_BASE_URL", ErrMissingAPIKey)
		}
		return NewCompatProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, nil, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, cfg.Provider)
	}
}

// eventStream é o formato comum dos streams dos SDKs
type eventStream[T any] interface {
	Next() bool
	Current() T
	Err() error
	Close() error
}

// sdkStream converte os eventos de um SDK em fragmentos de texto,
// descartando eventos sem texto
type sdkStream[T any] struct {
	events  eventStream[T]
	extract func(T) string
	current string
}

func newSDKStream[T any](events eventStream[T], extract func(T) string) *sdkStream[T] {
	return &sdkStream[T]{events: events, extract: extract}
}

func (s *sdkStream[T]) Next() bool {
	for s.events.Next() {
		if text := s.extract(s.events.Current()); text != "" {
			s.current = text
			return true
		}
	}
	s.current = ""
	return false
}

func (s *sdkStream[T]) Fragment() string {
	return s.current
}

func (s *sdkStream[T]) Err() error {
	return s.events.Err()
}

func (s *sdkStream[T]) Close() error {
	return s.events.Close()
}

func modelOrDefault(model, fallback string) string {
	if model == "" {
		return fallback
	}
	return model
}

func maxTokensOrDefault(n int) int64 {
	if n <= 0 {
		return DefaultMaxTokens
	}
	return int64(n)
}
