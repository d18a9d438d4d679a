package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dreammeanings/aroundmenow-sub001/internal/analytics"
	"github.com/dreammeanings/aroundmenow-sub001/internal/di"
	"github.com/dreammeanings/aroundmenow-sub001/migrations"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/config"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/database"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/logger"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/middleware"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/redis"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/telemetry"
)

const serviceName = "event-service"

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
	appLog.Info("Starting Event Service...")

	ctx := context.Background()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    serviceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn("Failed to initialize telemetry", zap.Error(err))
	} else if telemetryCfg.Enabled {
		appLog.Info("Telemetry initialized", zap.String("collector", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(ctx)

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()
	appLog.Info("Database connected", zap.Int32("min_conns", dbCfg.MinConns), zap.Int32("max_conns", dbCfg.MaxConns))

	if cfg.Database.AutoMigrate {
		applied, err := db.Migrate(ctx, migrations.FS)
		if err != nil {
			appLog.Fatal("Migration failed", zap.Error(err))
		}
		appLog.Info("Migrations applied", zap.Strings("files", applied))
	}

	// Initialize Redis connection (optional - cache and idempotency are disabled without it)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisCfg := &redis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    3,
			RetryInterval: time.Second,
		}
		redisClient, err = redis.NewClient(ctx, redisCfg)
		if err != nil {
			appLog.Warn("Redis connection failed (caching disabled)", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLog.Info("Redis connected", zap.String("addr", redisCfg.Addr()))
		}
	}

	// Analytics emitter
	sink, closeSink, err := di.NewAnalyticsSink(ctx, cfg, db)
	if err != nil {
		appLog.Fatal("Analytics sink setup failed", zap.Error(err))
	}
	defer closeSink()
	emitter := analytics.NewEmitter(sink, &analytics.EmitterConfig{
		QueueSize:    cfg.Analytics.QueueSize,
		Workers:      cfg.Analytics.Workers,
		WriteTimeout: cfg.Analytics.WriteTimeout,
	})
	appLog.Info("Analytics emitter started", zap.String("sink", cfg.Analytics.Sink))

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		DB:      db,
		Redis:   redisClient,
		Search:  cfg.Search,
		Emitter: emitter,
	})

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(appLog, "/health", "/ready", "/metrics"))

	// Add OpenTelemetry tracing middleware if enabled
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(serviceName))
	}

	// Health check endpoints
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	jwtConfig := middleware.JWTConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
	}
	requireAuth := middleware.JWTMiddleware(jwtConfig)
	optionalAuth := middleware.OptionalJWT(jwtConfig)
	requireOwner := middleware.RequireRole(middleware.RoleVenueOwner, middleware.RoleAdmin)

	idempotencyCfg := middleware.IdempotencyConfig{}
	if redisClient != nil {
		idempotencyCfg.Redis = redisClient.Client()
	}
	idempotent := middleware.Idempotency(idempotencyCfg)

	// API routes
	v1 := router.Group("/api/v1")
	{
		events := v1.Group("/events")
		{
			// Static paths must be registered alongside /:id
			events.GET("/search", optionalAuth, container.EventHandler.Search)
			events.GET("/trending", container.EventHandler.Trending)
			events.GET("/:id", optionalAuth, container.EventHandler.GetByID)

			events.POST("/:id/save", requireAuth, container.EventHandler.Save)
			events.POST("/:id/share", requireAuth, container.EventHandler.Share)

			// Protected endpoints (venue owner/admin only)
			protected := events.Group("")
			protected.Use(requireAuth, requireOwner)
			{
				protected.POST("", idempotent, container.EventHandler.Create)
				protected.PATCH("/:id/status", container.EventHandler.UpdateStatus)
				protected.DELETE("/:id", container.EventHandler.Delete)
			}
		}

		venues := v1.Group("/venues")
		{
			venues.GET("", container.VenueHandler.List)
			venues.GET("/:id", container.VenueHandler.GetByID)
			venues.GET("/:id/events", container.VenueHandler.ListEvents)
			venues.POST("", requireAuth, requireOwner, idempotent, container.VenueHandler.Create)
		}
	}

	// Create HTTP server
	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLog.Info(fmt.Sprintf("Event Service listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", zap.Error(err))
	}

	// Flush queued analytics after the last request has finished
	if err := emitter.Close(shutdownCtx); err != nil {
		appLog.Warn("Analytics emitter did not drain", zap.Error(err), zap.Int64("dropped", emitter.Dropped()))
	}

	appLog.Info("Server exited gracefully")
}
