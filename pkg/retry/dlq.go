package retry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrDeadLettered wraps the processing error of a message that was moved to the DLQ
var ErrDeadLettered = errors.New("moved to DLQ")

// DLQMessage is what lands on a dead letter topic
type DLQMessage struct {
	ID             string            `json:"id"`
	OriginalTopic  string            `json:"original_topic"`
	OriginalKey    string            `json:"original_key"`
	Payload        json.RawMessage   `json:"payload"`
	Headers        map[string]string `json:"headers,omitempty"`
	Error          string            `json:"error"`
	Attempts       int               `json:"attempts"`
	FirstAttemptAt time.Time         `json:"first_attempt_at"`
	MovedToDLQAt   time.Time         `json:"moved_to_dlq_at"`
	Source         string            `json:"source"`
}

// DLQPublisher publishes failed messages to a dead letter queue
type DLQPublisher interface {
	PublishToDLQ(ctx context.Context, msg *DLQMessage) error
}

// JSONProducer is satisfied by pkg/kafka.Producer
type JSONProducer interface {
	ProduceJSON(ctx context.Context, topic, key string, data interface{}, headers map[string]string) error
}

// KafkaDLQPublisher writes to "<original topic><suffix>"
type KafkaDLQPublisher struct {
	producer JSONProducer
	suffix   string
	source   string
}

// NewKafkaDLQPublisher creates a publisher; an empty suffix means ".dlq"
func NewKafkaDLQPublisher(producer JSONProducer, suffix, source string) *KafkaDLQPublisher {
	if suffix == "" {
		suffix = ".dlq"
	}
	return &KafkaDLQPublisher{producer: producer, suffix: suffix, source: source}
}

// Topic returns the DLQ topic for originalTopic
func (p *KafkaDLQPublisher) Topic(originalTopic string) string {
	return originalTopic + p.suffix
}

// PublishToDLQ publishes msg with diagnostic headers
func (p *KafkaDLQPublisher) PublishToDLQ(ctx context.Context, msg *DLQMessage) error {
	if msg == nil {
		return fmt.Errorf("DLQ message cannot be nil")
	}
	msg.MovedToDLQAt = time.Now()
	msg.Source = p.source

	headers := map[string]string{
		"original_topic": msg.OriginalTopic,
		"error":          msg.Error,
		"attempts":       strconv.Itoa(msg.Attempts),
		"source":         msg.Source,
	}
	for k, v := range msg.Headers {
		headers["original_"+k] = v
	}

	return p.producer.ProduceJSON(ctx, p.Topic(msg.OriginalTopic), msg.OriginalKey, msg, headers)
}

// MessageContext identifies the message being processed
type MessageContext struct {
	ID      string
	Topic   string
	Key     string
	Payload json.RawMessage
	Headers map[string]string
}

// DLQHandler retries an operation and dead-letters it when retries run out
type DLQHandler struct {
	retrier   *Retrier
	publisher DLQPublisher
	// OnDLQ is called before a message is published to the DLQ
	OnDLQ func(msg *DLQMessage)
}

// NewDLQHandler creates a new DLQ handler
func NewDLQHandler(publisher DLQPublisher, cfg *Config) *DLQHandler {
	return &DLQHandler{retrier: New(cfg), publisher: publisher}
}

// ProcessWithDLQ returns nil on success. When retries run out the message is
// published to the DLQ and an error wrapping ErrDeadLettered is returned; the
// caller may then commit it. A failed publish or a canceled context returns
// an error that does not wrap ErrDeadLettered.
func (h *DLQHandler) ProcessWithDLQ(ctx context.Context, msgCtx *MessageContext, op Operation) error {
	first := time.Now()
	result := h.retrier.Do(ctx, op)
	if result.Err == nil {
		return nil
	}
	if result.Err == ErrContextCanceled {
		return result.Err
	}

	cause := result.Err
	if result.LastError != nil {
		cause = result.LastError
	}

	msg := &DLQMessage{
		ID:             msgCtx.ID,
		OriginalTopic:  msgCtx.Topic,
		OriginalKey:    msgCtx.Key,
		Payload:        msgCtx.Payload,
		Headers:        msgCtx.Headers,
		Error:          cause.Error(),
		Attempts:       result.Attempts,
		FirstAttemptAt: first,
	}
	if h.OnDLQ != nil {
		h.OnDLQ(msg)
	}

	if err := h.publisher.PublishToDLQ(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish to DLQ: %w (original error: %v)", err, cause)
	}
	return fmt.Errorf("%w: %v", ErrDeadLettered, cause)
}
