// Package events publica eventos de domínio pelo watermill.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/hugohenrick/pitchdeck/internal/domain/lead"
	"github.com/hugohenrick/pitchdeck/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// TopicLeadCreated recebe um evento para cada lead cadastrado
const TopicLeadCreated = "lead.created"

// LeadCreated é o corpo do evento publicado em TopicLeadCreated
type LeadCreated struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Company   *string `json:"company,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

// Publisher publica eventos de domínio
type Publisher interface {
	PublishLeadCreated(ctx context.Context, l *lead.Lead) error
	Close() error
}

// Bus agrupa o publisher e o subscriber de um mesmo transporte
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     logger.Logger
	// shared indica que publisher e subscriber são o mesmo objeto (gochannel)
	shared bool
}

// NewMemoryBus cria um barramento em memória (gochannel)
func NewMemoryBus(log logger.Logger) *Bus {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, NewWatermillLogger(log))

	return &Bus{publisher: pubSub, subscriber: pubSub, logger: log, shared: true}
}

// NewRedisBus cria um barramento sobre Redis Streams
func NewRedisBus(client redis.UniversalClient, consumerGroup string, log logger.Logger) (*Bus, error) {
	wmLogger := NewWatermillLogger(log)
	marshaler := redisstream.DefaultMarshallerUnmarshaller{}

	pub, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client:     client,
		Marshaller: marshaler,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar publisher redis: %w", err)
	}

	sub, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client,
		Unmarshaller:  marshaler,
		ConsumerGroup: consumerGroup,
	}, wmLogger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("erro ao criar subscriber redis: %w", err)
	}

	return &Bus{publisher: pub, subscriber: sub, logger: log}, nil
}

// Subscriber retorna o subscriber do barramento
func (b *Bus) Subscriber() message.Subscriber {
	return b.subscriber
}

// PublishLeadCreated implementa Publisher
func (b *Bus) PublishLeadCreated(ctx context.Context, l *lead.Lead) error {
	payload, err := json.Marshal(LeadCreated{
		ID:        l.ID,
		Name:      l.Name,
		Email:     l.Email,
		Company:   l.Company,
		CreatedAt: l.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
	if err != nil {
		return fmt.Errorf("erro ao serializar evento: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(context.WithoutCancel(ctx))
	msg.Metadata.Set("type", TopicLeadCreated)

	if err := b.publisher.Publish(TopicLeadCreated, msg); err != nil {
		return fmt.Errorf("erro ao publicar evento: %w", err)
	}
	return nil
}

// Close encerra publisher e subscriber
func (b *Bus) Close() error {
	if err := b.publisher.Close(); err != nil {
		return err
	}
	if b.shared {
		return nil
	}
	return b.subscriber.Close()
}

// ConsumeLeadCreated processa os eventos de lead até o contexto ser cancelado
func (b *Bus) ConsumeLeadCreated(ctx context.Context, handle func(context.Context, LeadCreated) error) error {
	messages, err := b.subscriber.Subscribe(ctx, TopicLeadCreated)
	if err != nil {
		return fmt.Errorf("erro ao assinar tópico: %w", err)
	}

	go func() {
		for msg := range messages {
			var event LeadCreated
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				b.logger.Warn("Evento de lead malformado descartado", "error", err, "message_uuid", msg.UUID)
				msg.Ack()
				continue
			}
			if err := handle(msg.Context(), event); err != nil {
				b.logger.Error("Erro ao processar evento de lead", "error", err, "lead_id", event.ID)
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()

	return nil
}

// LogLeadCreated é o consumidor padrão: registra o lead recebido
func LogLeadCreated(log logger.Logger) func(context.Context, LeadCreated) error {
	return func(_ context.Context, e LeadCreated) error {
		log.Info("Novo lead recebido", "lead_id", e.ID, "email", e.Email)
		return nil
	}
}
