package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopgraph/internal/domain/entity"
)

// recordingPublisher is a Publisher that keeps every event in memory.
type recordingPublisher struct {
	topics []string
	keys   []string
	events []any
	err    error
}

func (r *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	if r.err != nil {
		return r.err
	}
	r.topics = append(r.topics, topic)
	r.keys = append(r.keys, key)
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func TestOrderEvents_PublishOrderPlaced(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	order := &entity.Order{
		ID:         "order-1",
		UserID:     "user-1",
		TotalPrice: 25,
		Items: []entity.OrderLine{
			{ProductID: "p", Quantity: 2},
			{ProductID: "q", Quantity: 1},
		},
		CreatedAt: createdAt,
	}

	t.Run("publishes keyed by user", func(t *testing.T) {
		pub := &recordingPublisher{}
		require.NoError(t, NewOrderEvents(pub, "orders.placed").PublishOrderPlaced(context.Background(), order))

		require.Len(t, pub.events, 1)
		assert.Equal(t, "orders.placed", pub.topics[0])
		assert.Equal(t, "user-1", pub.keys[0])
		assert.Equal(t, OrderPlaced{
			OrderID:    "order-1",
			UserID:     "user-1",
			TotalPrice: 25,
			Items:      []OrderPlacedItem{{ProductID: "p", Quantity: 2}, {ProductID: "q", Quantity: 1}},
			CreatedAt:  createdAt,
		}, pub.events[0])
	})

	t.Run("publisher error is returned", func(t *testing.T) {
		boom := errors.New("broker down")
		err := NewOrderEvents(&recordingPublisher{err: boom}, "orders.placed").PublishOrderPlaced(context.Background(), order)
		assert.ErrorIs(t, err, boom)
	})
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.PublishEvent(context.Background(), "t", "k", struct{}{}))
	assert.NoError(t, p.Close())
}

func TestNewKafkaPublisher(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"})

	require.NotNil(t, p.w)
	assert.Equal(t, "localhost:9092", p.w.Addr.String())
	assert.True(t, p.w.Async)
	assert.Empty(t, p.w.Topic, "topic is set per message")

	err := p.PublishEvent(context.Background(), "orders.placed", "k", func() {})
	assert.Error(t, err, "unmarshalable payload must fail before reaching the writer")
	assert.NoError(t, p.Close())
}
