package provider

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hugohenrick/pitchdeck/pkg/logger"
)

// AnthropicProvider gera completações pela API de mensagens da Anthropic
type AnthropicProvider struct {
	client anthropic.Client
}

// NewAnthropicProvider cria um provedor Anthropic.
// Eventos malformados são descartados antes do decoder do SDK.
func NewAnthropicProvider(apiKey string, log logger.Logger, opts ...option.RequestOption) *AnthropicProvider {
	clientOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMiddleware(frameFilterMiddleware(log, anthropicTerminal)),
	}, opts...)
	return &AnthropicProvider{
		client: anthropic.NewClient(clientOpts...),
	}
}

// Stream implementa Provider
func (p *AnthropicProvider) Stream(ctx context.Context, req Request) (Stream, error) {
	if len(req.Turns) == 0 {
		return nil, ErrEmptyRequest
	}

	messages := make([]anthropic.MessageParam, 0, len(req.Turns))
	for _, turn := range req.Turns {
		block := anthropic.NewTextBlock(turn.Content)
		if turn.Role == RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(block))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(block))
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelOrDefault(req.Model, DefaultAnthropicModel)),
		MaxTokens: maxTokensOrDefault(req.MaxTokens),
		Messages:  messages,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	events := p.client.Messages.NewStreaming(ctx, params)
	return newSDKStream(events, func(event anthropic.MessageStreamEventUnion) string {
		delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
		if !ok {
			return ""
		}
		if text, ok := delta.Delta.AsAny().(anthropic.TextDelta); ok {
			return text.Text
		}
		return ""
	}), nil
}
