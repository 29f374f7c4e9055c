package provider

import (
	"context"

	"github.com/hugohenrick/pitchdeck/pkg/logger"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIProvider gera completações pela API de chat da OpenAI (ou compatível)
type OpenAIProvider struct {
	client openai.Client
}

// NewOpenAIProvider cria um provedor OpenAI; baseURL vazio usa o endpoint oficial.
// Eventos malformados são descartados antes do decoder do SDK.
func NewOpenAIProvider(apiKey, baseURL string, log logger.Logger, opts ...option.RequestOption) *OpenAIProvider {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMiddleware(frameFilterMiddleware(log, openAITerminal)),
	}
	if baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(baseURL))
	}
	clientOpts = append(clientOpts, opts...)

	return &OpenAIProvider{
		client: openai.NewClient(clientOpts...),
	}
}

// Stream implementa Provider
func (p *OpenAIProvider) Stream(ctx context.Context, req Request) (Stream, error) {
	if len(req.Turns) == 0 {
		return nil, ErrEmptyRequest
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Turns)+1)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, turn := range req.Turns {
		if turn.Role == RoleAssistant {
			messages = append(messages, openai.AssistantMessage(turn.Content))
			continue
		}
		messages = append(messages, openai.UserMessage(turn.Content))
	}

	params := openai.ChatCompletionNewParams{
		Messages:  messages,
		Model:     openai.ChatModel(modelOrDefault(req.Model, DefaultOpenAIModel)),
		MaxTokens: openai.Int(maxTokensOrDefault(req.MaxTokens)),
	}

	events := p.client.Chat.Completions.NewStreaming(ctx, params)
	return newSDKStream(events, func(chunk openai.ChatCompletionChunk) string {
		if len(chunk.Choices) == 0 {
			return ""
		}
		return chunk.Choices[0].Delta.Content
	}), nil
}
