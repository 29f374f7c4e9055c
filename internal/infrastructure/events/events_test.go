package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hugohenrick/pitchdeck/internal/domain/lead"
	"github.com/hugohenrick/pitchdeck/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLead(t *testing.T) *lead.Lead {
	t.Helper()
	company := "Acme"
	l, err := lead.NewLead("Ana", "ana@example.com", &company, nil)
	require.NoError(t, err)
	return l
}

func TestMemoryBus_PublishAndConsume(t *testing.T) {
	bus := NewMemoryBus(logger.NewNop())
	t.Cleanup(func() { _ = bus.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan LeadCreated, 1)
	require.NoError(t, bus.ConsumeLeadCreated(ctx, func(_ context.Context, e LeadCreated) error {
		received <- e
		return nil
	}))

	l := newLead(t)
	require.NoError(t, bus.PublishLeadCreated(context.Background(), l))

	select {
	case e := <-received:
		assert.Equal(t, l.ID, e.ID)
		assert.Equal(t, "ana@example.com", e.Email)
		require.NotNil(t, e.Company)
		assert.Equal(t, "Acme", *e.Company)
	case <-time.After(2 * time.Second):
		t.Fatal("evento não recebido")
	}
}

func TestMemoryBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewMemoryBus(logger.NewNop())
	defer bus.Close()

	require.NoError(t, bus.PublishLeadCreated(context.Background(), newLead(t)))
}

func TestRedisBus_Publish(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	bus, err := NewRedisBus(client, "pitchdeck-test", logger.NewNop())
	require.NoError(t, err)
	defer bus.Close()

	require.NoError(t, bus.PublishLeadCreated(context.Background(), newLead(t)))

	n, err := client.XLen(context.Background(), TopicLeadCreated).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
