package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hugohenrick/pitchdeck/pkg/logger"
)

// CompatProvider fala diretamente com qualquer endpoint compatível com
// /chat/completions, lendo o stream SSE linha a linha
type CompatProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  logger.Logger
}

// NewCompatProvider cria um provedor compatível; client nil usa http.DefaultClient
func NewCompatProvider(baseURL, apiKey string, client *http.Client, log logger.Logger) *CompatProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &CompatProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		logger:  log,
	}
}

type compatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type compatRequest struct {
	Model     string          `json:"model"`
	Messages  []compatMessage `json:"messages"`
	MaxTokens int64           `json:"max_tokens"`
	Stream    bool            `json:"stream"`
}

// Stream implementa Provider
func (p *CompatProvider) Stream(ctx context.Context, req Request) (Stream, error) {
	if len(req.Turns) == 0 {
		return nil, ErrEmptyRequest
	}

	body := compatRequest{
		Model:     modelOrDefault(req.Model, DefaultOpenAIModel),
		MaxTokens: maxTokensOrDefault(req.MaxTokens),
		Stream:    true,
	}
	if req.System != "" {
		body.Messages = append(body.Messages, compatMessage{Role: "system", Content: req.System})
	}
	for _, turn := range req.Turns {
		body.Messages = append(body.Messages, compatMessage{Role: string(turn.Role), Content: turn.Content})
	}

	reqJSON, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar requisição: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(reqJSON))
	if err != nil {
		return nil, fmt.Errorf("erro ao criar requisição HTTP: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	p.logger.Debug("Abrindo stream no provedor compatível",
		"model", body.Model,
		"numMessages", len(body.Messages))

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("erro na chamada do provedor: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		p.logger.Error("Provedor retornou erro",
			"status", resp.Status,
			"body", string(respBody))
		return nil, fmt.Errorf("%w: %s", ErrUpstream, resp.Status)
	}

	return &compatStream{
		Decoder: NewDecoder(resp.Body, p.logger),
		body:    resp.Body,
	}, nil
}

type compatStream struct {
	*Decoder
	body io.ReadCloser
}

func (s *compatStream) Close() error {
	return s.body.Close()
}
