// Package kafka implements messaging.Publisher on segmentio/kafka-go.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/unihub/unidrop/internal/messaging"
)

type publisher struct {
	prefix string
	w      *kafkaGo.Writer
}

// NewPublisher returns a publisher writing to brokers. Topic names are
// prefixed with prefix, e.g. "unidrop." + "order.placed".
func NewPublisher(brokers []string, prefix string) messaging.Publisher {
	return &publisher{
		prefix: prefix,
		w: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(brokers...),
			Balancer:               &kafkaGo.Hash{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
			RequiredAcks:           kafkaGo.RequireOne,
		},
	}
}

// TopicName returns the prefixed topic.
func (p *publisher) TopicName(topic string) string { return p.prefix + topic }

func (p *publisher) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	err = p.w.WriteMessages(ctx, kafkaGo.Message{
		Topic: p.TopicName(topic),
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (p *publisher) Close() error { return p.w.Close() }
