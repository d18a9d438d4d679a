package analytics

import (
	"context"
	"fmt"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
)

// DefaultTopic carries analytics records between the API and the worker
const DefaultTopic = "analytics.events"

// Producer is satisfied by pkg/kafka.Producer
type Producer interface {
	ProduceJSON(ctx context.Context, topic, key string, data interface{}, headers map[string]string) error
}

// KafkaSink publishes records to a topic for the analytics worker
type KafkaSink struct {
	producer Producer
	topic    string
	source   string
}

// NewKafkaSink creates a new KafkaSink
func NewKafkaSink(producer Producer, topic, source string) *KafkaSink {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaSink{producer: producer, topic: topic, source: source}
}

// Record publishes the event keyed by user so one user's records stay ordered
func (s *KafkaSink) Record(ctx context.Context, event *domain.AnalyticsEvent) error {
	key := event.UserID
	if key == "" {
		key = event.ID
	}

	headers := map[string]string{
		"event_type":   event.EventType,
		"event_id":     event.ID,
		"source":       s.source,
		"content_type": "application/json",
	}

	if err := s.producer.ProduceJSON(ctx, s.topic, key, event, headers); err != nil {
		return fmt.Errorf("failed to publish %s analytics event: %w", event.EventType, err)
	}
	return nil
}
