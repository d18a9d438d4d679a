package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dreammeanings/aroundmenow-sub001/internal/analytics"
	"github.com/dreammeanings/aroundmenow-sub001/internal/repository"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/config"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/database"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/kafka"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/logger"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/retry"
)

const serviceName = "analytics-worker"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: serviceName,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting Analytics Worker...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:          cfg.Database.Host,
		Port:          cfg.Database.Port,
		User:          cfg.Database.User,
		Password:      cfg.Database.Password,
		Database:      cfg.Database.DBName,
		SSLMode:       cfg.Database.SSLMode,
		MaxConns:      cfg.Database.MaxConns,
		MinConns:      cfg.Database.MinConns,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	appLog.Info("Database connected")

	// Initialize Kafka consumer
	topic := cfg.Analytics.Topic
	if topic == "" {
		topic = analytics.DefaultTopic
	}
	consumer, err := kafka.NewConsumer(ctx, &kafka.ConsumerConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.ConsumerGroup,
		Topics:         []string{topic},
		ClientID:       serviceName,
		MaxRetries:     3,
		RetryInterval:  2 * time.Second,
		SessionTimeout: 30 * time.Second,
		MaxPollRecords: 500,
	})
	if err != nil {
		appLog.Fatal("Failed to create Kafka consumer", zap.Error(err))
	}
	defer consumer.Close()
	appLog.Info("Kafka consumer connected", zap.String("topic", topic))

	// DLQ producer
	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:        cfg.Kafka.Brokers,
		ClientID:       serviceName + "-dlq",
		MaxRetries:     3,
		RetryInterval:  2 * time.Second,
		ProduceTimeout: 10 * time.Second,
	})
	if err != nil {
		appLog.Fatal("Failed to create Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = cfg.Analytics.MaxRetries
	dlq := retry.NewDLQHandler(retry.NewKafkaDLQPublisher(producer, "", serviceName), retryCfg)

	worker := analytics.NewWorker(consumer, repository.NewPostgresAnalyticsRepository(db.Pool()), dlq)

	done := make(chan error, 1)
	go func() {
		done <- worker.Run(ctx)
	}()
	appLog.Info("Analytics worker started")

	// Wait for shutdown signal or a fatal worker error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		appLog.Info("Shutting down analytics worker...")
		cancel()
		if err := <-done; err != nil {
			appLog.Error("Analytics worker stopped with error", zap.Error(err))
		}
	case err := <-done:
		if err != nil {
			appLog.Error("Analytics worker failed", zap.Error(err))
			cancel()
			logger.Sync()
			os.Exit(1)
		}
	}

	appLog.Info("Analytics worker stopped")
}
