package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"

	"github.com/Skotchmaster/furniture_shop/internal/logging"
)

const (
	TopicCart    = "cart_events"
	TopicOrder   = "order_events"
	TopicUser    = "user_events"
	TopicProduct = "product_events"

	publishTimeout = 5 * time.Second
)

type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes JSON events to Kafka. After five consecutive delivery
// failures the breaker opens and publishes fail fast for 30s.
type Producer struct {
	writer  messageWriter
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewProducer(brokers []string) *Producer {
	return newProducer(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	})
}

func newProducer(w messageWriter) *Producer {
	return &Producer{
		writer: w,
		breaker: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:        "kafka-producer",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
		}),
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("kafka: publish to %s: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, Event) error { return nil }
func (Nop) Close() error                                         { return nil }

// Emit publishes an event and logs a failure instead of returning it: events
// never decide the outcome of the request that produced them.
func Emit(ctx context.Context, p Publisher, topic, key, typ string, data any) {
	if p == nil {
		return
	}
	err := p.Publish(ctx, topic, key, Event{Type: typ, OccurredAt: time.Now().UTC(), Data: data})
	if err == nil {
		return
	}

	l := logging.FromContext(ctx)
	if errors.Is(err, gobreaker.ErrOpenState) {
		l.Debug("publish_event_skipped", "topic", topic, "type", typ, "reason", "breaker open")
		return
	}
	l.Error("publish_event_error", "topic", topic, "type", typ, "error", err)
}
