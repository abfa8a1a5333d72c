package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const (
	_defaultBatchTimeout = 50 * time.Millisecond
	_defaultWriteTimeout = 5 * time.Second
)

// Publisher sends JSON encoded events keyed for partitioning.
type Publisher interface {
	Publish(ctx context.Context, key string, payload any) error
	Close() error
}

// KafkaPublisher writes to a single topic. The writer is async: Publish
// returns once the message is queued and delivery errors are logged.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    zerolog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log zerolog.Logger, opts ...Option) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("events - NewKafkaPublisher: no brokers configured")
	}
	if topic == "" {
		return nil, fmt.Errorf("events - NewKafkaPublisher: empty topic")
	}

	p := &KafkaPublisher{log: log.With().Str("component", "kafka-publisher").Str("topic", topic).Logger()}
	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           _defaultBatchTimeout,
		WriteTimeout:           _defaultWriteTimeout,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				p.log.Error().Err(err).Int("messages", len(messages)).Msg("kafka delivery failed")
			}
		},
	}
	for _, opt := range opts {
		opt(p.writer)
	}
	return p, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("events - Publish - json.Marshal: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		return fmt.Errorf("events - Publish - WriteMessages: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// Nop drops every event; used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }
