package analytics

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
	"github.com/dreammeanings/aroundmenow-sub001/internal/metrics"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/logger"
)

// EmitterConfig sizes the emitter
type EmitterConfig struct {
	QueueSize    int
	Workers      int
	WriteTimeout time.Duration
}

// DefaultEmitterConfig returns the default emitter configuration
func DefaultEmitterConfig() *EmitterConfig {
	return &EmitterConfig{
		QueueSize:    1024,
		Workers:      2,
		WriteTimeout: 3 * time.Second,
	}
}

// Emitter hands records to a Sink from a fixed pool of workers. Emit never
// blocks: when the queue is full the record is dropped and counted. Records
// are not delivered in any particular order.
type Emitter struct {
	sink   Sink
	config EmitterConfig
	queue  chan *domain.AnalyticsEvent
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	dropped atomic.Int64
	failed  atomic.Int64
	written atomic.Int64
}

// NewEmitter starts the workers
func NewEmitter(sink Sink, cfg *EmitterConfig) *Emitter {
	def := DefaultEmitterConfig()
	if cfg == nil {
		cfg = def
	}
	c := *cfg
	if c.QueueSize <= 0 {
		c.QueueSize = def.QueueSize
	}
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}

	e := &Emitter{
		sink:   sink,
		config: c,
		queue:  make(chan *domain.AnalyticsEvent, c.QueueSize),
	}
	for i := 0; i < c.Workers; i++ {
		e.wg.Add(1)
		go e.work()
	}
	return e
}

// Emit enqueues an event and reports whether it was accepted
func (e *Emitter) Emit(event *domain.AnalyticsEvent) bool {
	if event == nil {
		return false
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		e.drop(event, "closed")
		return false
	}

	select {
	case e.queue <- event:
		metrics.TrackAnalytics(event.EventType, metrics.AnalyticsEmitted)
		metrics.SetAnalyticsQueueDepth(len(e.queue))
		return true
	default:
		e.drop(event, "queue full")
		return false
	}
}

// Record builds and emits an event
func (e *Emitter) Record(userID, eventType string, properties map[string]any) bool {
	return e.Emit(domain.NewAnalyticsEvent(userID, eventType, properties))
}

func (e *Emitter) drop(event *domain.AnalyticsEvent, reason string) {
	e.dropped.Add(1)
	metrics.TrackAnalytics(event.EventType, metrics.AnalyticsDropped)
	logger.Warn("analytics event dropped",
		zap.String("event_type", event.EventType),
		zap.String("reason", reason),
	)
}

func (e *Emitter) work() {
	defer e.wg.Done()
	for event := range e.queue {
		metrics.SetAnalyticsQueueDepth(len(e.queue))
		e.write(event)
	}
}

func (e *Emitter) write(event *domain.AnalyticsEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), e.config.WriteTimeout)
	defer cancel()

	if err := e.sink.Record(ctx, event); err != nil {
		e.failed.Add(1)
		metrics.TrackAnalytics(event.EventType, metrics.AnalyticsFailed)
		logger.Error("analytics write failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
		return
	}
	e.written.Add(1)
	metrics.TrackAnalytics(event.EventType, metrics.AnalyticsWritten)
}

// Close stops accepting events and waits for queued ones to be written,
// or for ctx to end.
func (e *Emitter) Close(ctx context.Context) error {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.queue)
	}
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped returns the number of events rejected by Emit
func (e *Emitter) Dropped() int64 { return e.dropped.Load() }

// Failed returns the number of events the sink rejected
func (e *Emitter) Failed() int64 { return e.failed.Load() }

// Written returns the number of events the sink accepted
func (e *Emitter) Written() int64 { return e.written.Load() }
