package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unihub/unidrop/internal/messaging"
)

func TestPublisher_TopicName(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "unidrop.").(*publisher)
	defer p.Close()
	assert.Equal(t, "unidrop.order.placed", p.TopicName(messaging.TopicOrderPlaced))
}

func TestPublisher_UnmarshalableEvent(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "")
	defer p.Close()
	err := p.PublishEvent(context.Background(), "t", "k", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal")
}

func TestPublisher_UnreachableBroker(t *testing.T) {
	p := NewPublisher([]string{"127.0.0.1:1"}, "")
	defer p.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.Error(t, p.PublishEvent(ctx, "t", "k", messaging.NewEvent("t", map[string]string{"a": "b"})))
}
