// Package relay conduz uma troca de mensagens: persiste o turno do usuário,
// repassa a geração do provedor ao cliente e persiste a resposta completa.
package relay

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hugohenrick/pitchdeck/internal/domain/chat"
	"github.com/hugohenrick/pitchdeck/pkg/logger"
	"github.com/hugohenrick/pitchdeck/pkg/provider"
)

// DefaultStreamTimeout limita a duração total de uma geração
const DefaultStreamTimeout = 2 * time.Minute

// Mensagens enviadas ao cliente no frame de erro
const (
	MsgGenerationFailed = "Failed to generate response"
	MsgPersistFailed    = "Failed to save response"
	MsgTimeout          = "Response timed out"
)

// Outcome descreve como uma troca terminou
type Outcome int

const (
	OutcomeDone Outcome = iota
	OutcomeProviderError
	OutcomeClientGone
	OutcomeStorageError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeProviderError:
		return "provider_error"
	case OutcomeClientGone:
		return "client_gone"
	case OutcomeStorageError:
		return "storage_error"
	default:
		return "unknown"
	}
}

// Result é o resumo de uma troca
type Result struct {
	Outcome Outcome
	// Content é a concatenação dos fragmentos repassados ao cliente
	Content string
	// Message é a mensagem do assistente persistida (apenas em OutcomeDone)
	Message *chat.Message
	Err     error
}

// Relay é compartilhado entre requisições; cada troca tem seu próprio Exchange
type Relay struct {
	repo          chat.Repository
	provider      provider.Provider
	logger        logger.Logger
	systemPrompt  string
	model         string
	maxTokens     int
	streamTimeout time.Duration
}

// Option configura um Relay
type Option func(*Relay)

// WithSystemPrompt define o prompt de sistema enviado ao provedor
func WithSystemPrompt(prompt string) Option {
	return func(r *Relay) { r.systemPrompt = prompt }
}

// WithModel define o modelo solicitado ao provedor
func WithModel(model string) Option {
	return func(r *Relay) { r.model = model }
}

// WithMaxTokens define o limite de tokens da resposta
func WithMaxTokens(n int) Option {
	return func(r *Relay) { r.maxTokens = n }
}

// WithStreamTimeout define o tempo máximo de uma geração
func WithStreamTimeout(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.streamTimeout = d
		}
	}
}

// NewRelay cria um novo Relay
func NewRelay(repo chat.Repository, p provider.Provider, log logger.Logger, opts ...Option) *Relay {
	r := &Relay{
		repo:          repo,
		provider:      p,
		logger:        log,
		streamTimeout: DefaultStreamTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Exchange é uma troca preparada: o turno do usuário já está persistido
type Exchange struct {
	relay          *Relay
	conversationID string
	userMessage    *chat.Message
	request        provider.Request
	logger         logger.Logger
}

// Prepare valida a entrada, persiste a mensagem do usuário e monta o contexto.
// Retorna chat.ErrEmptyContent, chat.ErrConversationNotFound ou um chat.StorageError;
// em qualquer erro nenhum stream é aberto.
func (r *Relay) Prepare(ctx context.Context, conversationID, content string) (*Exchange, error) {
	if strings.TrimSpace(content) == "" {
		return nil, chat.ErrEmptyContent
	}

	exists, err := r.repo.ConversationExists(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, chat.ErrConversationNotFound
	}

	userMessage, err := chat.NewMessage(conversationID, chat.RoleUser, content)
	if err != nil {
		return nil, err
	}
	if err := r.repo.AppendMessage(ctx, userMessage); err != nil {
		return nil, err
	}

	conversation, err := r.repo.FindConversationWithMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	return &Exchange{
		relay:          r,
		conversationID: conversationID,
		userMessage:    userMessage,
		request: provider.Request{
			System:    r.systemPrompt,
			Turns:     BuildTurns(conversation.Messages),
			Model:     r.model,
			MaxTokens: r.maxTokens,
		},
		logger: r.logger.With("conversation_id", conversationID),
	}, nil
}

// BuildTurns converte o histórico em turnos na mesma ordem.
// Turnos do assistente sem conteúdo são descartados.
func BuildTurns(messages []*chat.Message) []provider.Turn {
	turns := make([]provider.Turn, 0, len(messages))
	for _, m := range messages {
		if m.Role == chat.RoleAssistant && strings.TrimSpace(m.Content) == "" {
			continue
		}
		turns = append(turns, provider.Turn{Role: provider.Role(m.Role), Content: m.Content})
	}
	return turns
}

// UserMessage retorna a mensagem do usuário persistida em Prepare
func (e *Exchange) UserMessage() *chat.Message {
	return e.userMessage
}

// Request retorna a requisição que será enviada ao provedor
func (e *Exchange) Request() provider.Request {
	return e.request
}

// Stream abre a geração e repassa cada fragmento ao cliente.
// Emite exatamente um frame terminal enquanto o cliente estiver acessível;
// a resposta do assistente só é persistida quando o provedor conclui com sucesso.
func (e *Exchange) Stream(ctx context.Context, w FrameWriter) Result {
	streamCtx, cancel := context.WithTimeout(ctx, e.relay.streamTimeout)
	defer cancel()

	stream, err := e.relay.provider.Stream(streamCtx, e.request)
	if err != nil {
		return e.fail(ctx, streamCtx, w, "", err)
	}
	defer stream.Close()

	var content strings.Builder
	for stream.Next() {
		fragment := stream.Fragment()
		if fragment == "" {
			continue
		}
		content.WriteString(fragment)
		if err := w.WriteFrame(ContentFrame(fragment)); err != nil {
			e.logger.Warn("Cliente desconectado durante o stream", "error", err)
			return Result{Outcome: OutcomeClientGone, Content: content.String(), Err: err}
		}
	}

	if err := stream.Err(); err != nil {
		return e.fail(ctx, streamCtx, w, content.String(), err)
	}
	if streamCtx.Err() != nil {
		return e.fail(ctx, streamCtx, w, content.String(), streamCtx.Err())
	}

	return e.finish(ctx, w, content.String())
}

// finish persiste a resposta completa e emite o frame terminal
func (e *Exchange) finish(ctx context.Context, w FrameWriter, content string) Result {
	assistant, err := chat.NewMessage(e.conversationID, chat.RoleAssistant, content)
	if err == nil {
		err = e.relay.repo.AppendMessage(ctx, assistant)
	}
	if err != nil {
		e.logger.Error("Erro ao salvar resposta do assistente", "error", err, "chars", len(content))
		if writeErr := w.WriteFrame(ErrorFrame(MsgPersistFailed)); writeErr != nil {
			e.logger.Warn("Não foi possível enviar o frame de erro", "error", writeErr)
		}
		return Result{Outcome: OutcomeStorageError, Content: content, Err: err}
	}

	if err := w.WriteFrame(DoneFrame()); err != nil {
		e.logger.Warn("Cliente desconectado antes do frame final", "error", err)
	}

	e.logger.Info("Resposta do assistente concluída", "message_id", assistant.ID, "chars", len(content))
	return Result{Outcome: OutcomeDone, Content: content, Message: assistant}
}

// fail descarta o conteúdo parcial e, se o cliente ainda estiver acessível, emite o frame de erro
func (e *Exchange) fail(ctx, streamCtx context.Context, w FrameWriter, partial string, cause error) Result {
	if ctx.Err() != nil {
		e.logger.Warn("Cliente cancelou a requisição durante o stream", "error", cause, "chars", len(partial))
		return Result{Outcome: OutcomeClientGone, Content: partial, Err: ctx.Err()}
	}

	message := MsgGenerationFailed
	if errors.Is(streamCtx.Err(), context.DeadlineExceeded) {
		message = MsgTimeout
	}

	e.logger.Error("Erro no stream do provedor", "error", cause, "chars", len(partial))
	if err := w.WriteFrame(ErrorFrame(message)); err != nil {
		e.logger.Warn("Não foi possível enviar o frame de erro", "error", err)
		return Result{Outcome: OutcomeClientGone, Content: partial, Err: cause}
	}
	return Result{Outcome: OutcomeProviderError, Content: partial, Err: cause}
}
