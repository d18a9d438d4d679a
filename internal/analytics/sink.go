package analytics

import (
	"context"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
	"github.com/dreammeanings/aroundmenow-sub001/internal/repository"
)

// Sink receives analytics records
type Sink interface {
	Record(ctx context.Context, event *domain.AnalyticsEvent) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ctx context.Context, event *domain.AnalyticsEvent) error

// Record calls f
func (f SinkFunc) Record(ctx context.Context, event *domain.AnalyticsEvent) error {
	return f(ctx, event)
}

// NopSink discards every record
type NopSink struct{}

// Record does nothing
func (NopSink) Record(context.Context, *domain.AnalyticsEvent) error { return nil }

// PostgresSink writes records straight to the analytics_events table
type PostgresSink struct {
	repo repository.AnalyticsRepository
}

// NewPostgresSink creates a new PostgresSink
func NewPostgresSink(repo repository.AnalyticsRepository) *PostgresSink {
	return &PostgresSink{repo: repo}
}

// Record inserts the event
func (s *PostgresSink) Record(ctx context.Context, event *domain.AnalyticsEvent) error {
	return s.repo.Insert(ctx, event)
}
