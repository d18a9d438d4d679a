package di

import (
	"context"
	"fmt"
	"time"

	"github.com/dreammeanings/aroundmenow-sub001/internal/analytics"
	"github.com/dreammeanings/aroundmenow-sub001/internal/repository"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/config"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/database"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/kafka"
)

// Analytics sink names accepted by ANALYTICS_SINK
const (
	SinkPostgres = "postgres"
	SinkKafka    = "kafka"
	SinkAMQP     = "amqp"
	SinkNone     = "none"
)

// NewAnalyticsSink builds the sink named by cfg.Analytics.Sink. The returned
// func releases any broker connection the sink holds.
func NewAnalyticsSink(ctx context.Context, cfg *config.Config, db *database.PostgresDB) (analytics.Sink, func(), error) {
	switch cfg.Analytics.Sink {
	case SinkPostgres, "":
		repo := repository.NewPostgresAnalyticsRepository(db.Pool())
		return analytics.NewPostgresSink(repo), func() {}, nil

	case SinkKafka:
		producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
			Brokers:        cfg.Kafka.Brokers,
			ClientID:       cfg.Kafka.ClientID,
			MaxRetries:     3,
			RetryInterval:  time.Second,
			ProduceTimeout: cfg.Analytics.WriteTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("analytics kafka producer: %w", err)
		}
		return analytics.NewKafkaSink(producer, cfg.Analytics.Topic, cfg.App.Name), producer.Close, nil

	case SinkAMQP:
		sink, err := analytics.NewAMQPSink(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() { _ = sink.Close() }, nil

	case SinkNone:
		return analytics.NopSink{}, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown analytics sink %q", cfg.Analytics.Sink)
}
