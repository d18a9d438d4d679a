package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
	"github.com/dreammeanings/aroundmenow-sub001/internal/repository"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/kafka"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/logger"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/retry"
)

// RecordSource is satisfied by pkg/kafka.Consumer
type RecordSource interface {
	Poll(ctx context.Context) ([]*kafka.Record, error)
	CommitRecords(ctx context.Context, records []*kafka.Record) error
}

// Worker moves analytics records from Kafka into Postgres. Each record is
// retried with backoff; records that keep failing go to the DLQ topic.
// Offsets are committed only for records that were stored or dead-lettered.
type Worker struct {
	source      RecordSource
	repo        repository.AnalyticsRepository
	dlq         *retry.DLQHandler
	pollBackoff time.Duration
}

// NewWorker creates a new Worker
func NewWorker(source RecordSource, repo repository.AnalyticsRepository, dlq *retry.DLQHandler) *Worker {
	return &Worker{
		source:      source,
		repo:        repo,
		dlq:         dlq,
		pollBackoff: time.Second,
	}
}

// Run polls until ctx is canceled. A record that can be neither stored nor
// dead-lettered ends Run with an error; it is redelivered after restart.
func (w *Worker) Run(ctx context.Context) error {
	for {
		records, err := w.source.Poll(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			logger.Error("analytics poll failed", zap.Error(err))
			if len(records) == 0 {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(w.pollBackoff):
				}
				continue
			}
		}

		done, err := w.ProcessBatch(ctx, records)
		if cerr := w.source.CommitRecords(ctx, done); cerr != nil {
			logger.Error("analytics commit failed", zap.Int("records", len(done)), zap.Error(cerr))
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// ProcessBatch handles records in order and returns those safe to commit.
// It stops at the first record that could be neither stored nor
// dead-lettered so that record is redelivered.
func (w *Worker) ProcessBatch(ctx context.Context, records []*kafka.Record) ([]*kafka.Record, error) {
	done := make([]*kafka.Record, 0, len(records))
	for _, rec := range records {
		if err := w.handle(ctx, rec); err != nil {
			if errors.Is(err, retry.ErrDeadLettered) {
				logger.Warn("analytics record dead-lettered",
					zap.String("topic", rec.Topic),
					zap.Int64("offset", rec.Offset),
					zap.Error(err),
				)
				done = append(done, rec)
				continue
			}
			return done, fmt.Errorf("record %s/%d@%d: %w", rec.Topic, rec.Partition, rec.Offset, err)
		}
		done = append(done, rec)
	}
	return done, nil
}

func (w *Worker) handle(ctx context.Context, rec *kafka.Record) error {
	headers := kafka.Headers(rec)
	msgCtx := &retry.MessageContext{
		ID:      headers["event_id"],
		Topic:   rec.Topic,
		Key:     string(rec.Key),
		Payload: rec.Value,
		Headers: headers,
	}

	return w.dlq.ProcessWithDLQ(ctx, msgCtx, func(ctx context.Context) error {
		event, err := decodeEvent(rec.Value)
		if err != nil {
			// malformed payloads never succeed
			return retry.Permanent(err)
		}
		return w.repo.Insert(ctx, event)
	})
}

func decodeEvent(payload []byte) (*domain.AnalyticsEvent, error) {
	var event domain.AnalyticsEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAnalyticsEvent, err)
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if event.Properties == nil {
		event.Properties = map[string]any{}
	}
	return &event, nil
}
