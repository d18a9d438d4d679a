package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
)

// DefaultQueue is the RabbitMQ queue used when none is configured
const DefaultQueue = "analytics.events"

// publisher is the part of *amqp.Channel the sink uses
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPSink publishes records to a durable RabbitMQ queue
type AMQPSink struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	pub   publisher
	queue string
}

// NewAMQPSink dials the broker and declares the queue
func NewAMQPSink(url, queue string) (*AMQPSink, error) {
	if queue == "" {
		queue = DefaultQueue
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	return &AMQPSink{conn: conn, ch: ch, pub: ch, queue: queue}, nil
}

// Record publishes the event as a persistent JSON message
func (s *AMQPSink) Record(ctx context.Context, event *domain.AnalyticsEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal analytics event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         event.EventType,
		Timestamp:    event.Timestamp,
		Body:         body,
	}

	// channels are not safe for concurrent publishing
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.pub.PublishWithContext(ctx, "", s.queue, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

// Close closes the channel and the connection
func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil {
		_ = s.ch.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
