package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
)

// recordingSink stores every record it receives
type recordingSink struct {
	mu      sync.Mutex
	events  []*domain.AnalyticsEvent
	failFor map[string]bool
}

func (s *recordingSink) Record(ctx context.Context, event *domain.AnalyticsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[event.EventType] {
		return errors.New("sink unavailable")
	}
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestEmitter_DeliversAndDrainsOnClose(t *testing.T) {
	sink := &recordingSink{}
	e := NewEmitter(sink, &EmitterConfig{QueueSize: 100, Workers: 3, WriteTimeout: time.Second})

	for i := 0; i < 50; i++ {
		assert.True(t, e.Record("user-1", domain.AnalyticsSearch, map[string]any{"i": i}))
	}

	require.NoError(t, e.Close(context.Background()))
	assert.Equal(t, 50, sink.count())
	assert.Equal(t, int64(50), e.Written())
	assert.Zero(t, e.Dropped())
}

func TestEmitter_DropsWhenFull(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	sink := SinkFunc(func(ctx context.Context, event *domain.AnalyticsEvent) error {
		select {
		case started <- struct{}{}:
		default:
		}
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	})

	e := NewEmitter(sink, &EmitterConfig{QueueSize: 1, Workers: 1, WriteTimeout: 5 * time.Second})

	require.True(t, e.Record("u", domain.AnalyticsEventView, nil))
	<-started // worker is busy with the first event

	assert.True(t, e.Record("u", domain.AnalyticsEventView, nil), "fills the queue")
	assert.False(t, e.Record("u", domain.AnalyticsEventView, nil), "queue full")
	assert.Equal(t, int64(1), e.Dropped())

	close(release)
	require.NoError(t, e.Close(context.Background()))
	assert.Equal(t, int64(2), e.Written())
}

func TestEmitter_FailuresAreCounted(t *testing.T) {
	sink := &recordingSink{failFor: map[string]bool{domain.AnalyticsEventSave: true}}
	e := NewEmitter(sink, nil)

	e.Record("u", domain.AnalyticsEventSave, nil)
	e.Record("u", domain.AnalyticsEventShare, nil)
	require.NoError(t, e.Close(context.Background()))

	assert.Equal(t, int64(1), e.Failed())
	assert.Equal(t, int64(1), e.Written())
}

func TestEmitter_EmitAfterClose(t *testing.T) {
	e := NewEmitter(NopSink{}, nil)
	require.NoError(t, e.Close(context.Background()))
	require.NoError(t, e.Close(context.Background()), "close is idempotent")

	assert.False(t, e.Record("u", domain.AnalyticsSearch, nil))
	assert.False(t, e.Emit(nil))
	assert.Equal(t, int64(1), e.Dropped())
}

func TestEmitter_CloseHonorsContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	sink := SinkFunc(func(ctx context.Context, event *domain.AnalyticsEvent) error {
		<-release
		return nil
	})
	e := NewEmitter(sink, &EmitterConfig{Workers: 1, QueueSize: 4, WriteTimeout: time.Minute})
	e.Record("u", domain.AnalyticsSearch, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, e.Close(ctx), context.DeadlineExceeded)
}

// fakeProducer captures ProduceJSON calls
type fakeProducer struct {
	mu      sync.Mutex
	topic   string
	key     string
	payload []byte
	headers map[string]string
	calls   int
	err     error
}

func (p *fakeProducer) ProduceJSON(ctx context.Context, topic, key string, data interface{}, headers map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return p.err
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	p.topic, p.key, p.payload, p.headers = topic, key, b, headers
	return nil
}

func TestKafkaSink_Record(t *testing.T) {
	p := &fakeProducer{}
	sink := NewKafkaSink(p, "", "event-service")
	ev := domain.NewAnalyticsEvent("user-7", domain.AnalyticsSearch, map[string]any{"search": "jazz"})

	require.NoError(t, sink.Record(context.Background(), ev))
	assert.Equal(t, DefaultTopic, p.topic)
	assert.Equal(t, "user-7", p.key)
	assert.Equal(t, domain.AnalyticsSearch, p.headers["event_type"])
	assert.Equal(t, ev.ID, p.headers["event_id"])
	assert.Equal(t, "event-service", p.headers["source"])

	var got domain.AnalyticsEvent
	require.NoError(t, json.Unmarshal(p.payload, &got))
	assert.Equal(t, ev.ID, got.ID)
	assert.Equal(t, "jazz", got.Properties["search"])
}

func TestKafkaSink_AnonymousKeyedByID(t *testing.T) {
	p := &fakeProducer{}
	ev := domain.NewAnalyticsEvent("", domain.AnalyticsEventView, nil)
	require.NoError(t, NewKafkaSink(p, "t", "s").Record(context.Background(), ev))
	assert.Equal(t, ev.ID, p.key)

	p.err = errors.New("broker down")
	err := NewKafkaSink(p, "t", "s").Record(context.Background(), ev)
	assert.ErrorContains(t, err, "broker down")
}

type fakePublisher struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (p *fakePublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	p.exchange, p.key, p.msg = exchange, key, msg
	return p.err
}

func TestAMQPSink_Record(t *testing.T) {
	pub := &fakePublisher{}
	sink := &AMQPSink{pub: pub, queue: "analytics.q"}
	ev := domain.NewAnalyticsEvent("user-1", domain.AnalyticsEventShare, map[string]any{"eventId": "e1"})

	require.NoError(t, sink.Record(context.Background(), ev))
	assert.Equal(t, "", pub.exchange)
	assert.Equal(t, "analytics.q", pub.key)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.Equal(t, "application/json", pub.msg.ContentType)
	assert.Equal(t, ev.ID, pub.msg.MessageId)

	var got domain.AnalyticsEvent
	require.NoError(t, json.Unmarshal(pub.msg.Body, &got))
	assert.Equal(t, domain.AnalyticsEventShare, got.EventType)

	pub.err = errors.New("channel closed")
	assert.ErrorContains(t, sink.Record(context.Background(), ev), "channel closed")
	assert.NoError(t, sink.Close())
}

type fakeAnalyticsRepo struct {
	mu       sync.Mutex
	inserted []*domain.AnalyticsEvent
	failures int
}

func (r *fakeAnalyticsRepo) Insert(ctx context.Context, event *domain.AnalyticsEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return errors.New("insert failed")
	}
	r.inserted = append(r.inserted, event)
	return nil
}

func TestPostgresSink_Record(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	ev := domain.NewAnalyticsEvent("u", domain.AnalyticsSearch, nil)

	require.NoError(t, NewPostgresSink(repo).Record(context.Background(), ev))
	require.Len(t, repo.inserted, 1)
	assert.Same(t, ev, repo.inserted[0])
}
