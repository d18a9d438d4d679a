package di

import (
	"time"

	"github.com/dreammeanings/aroundmenow-sub001/internal/handler"
	"github.com/dreammeanings/aroundmenow-sub001/internal/repository"
	"github.com/dreammeanings/aroundmenow-sub001/internal/service"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/config"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/database"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/redis"
)

// Container holds all dependencies for the event service
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories
	EventRepo     repository.EventRepository
	VenueRepo     repository.VenueRepository
	AnalyticsRepo repository.AnalyticsRepository

	// Services
	SearchService service.SearchService
	EventService  service.EventService
	VenueService  service.VenueService

	// Handlers
	HealthHandler *handler.HealthHandler
	EventHandler  *handler.EventHandler
	VenueHandler  *handler.VenueHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB      *database.PostgresDB
	Redis   *redis.Client
	Search  config.SearchConfig
	Emitter service.AnalyticsEmitter
	// Now overrides the search clock; nil means time.Now
	Now func() time.Time
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:    cfg.DB,
		Redis: cfg.Redis,
	}

	// Initialize repositories
	pgEventRepo := repository.NewPostgresEventRepository(c.DB.Pool())

	// Wrap with cache if Redis is available
	if c.Redis != nil {
		c.EventRepo = repository.NewCachedEventRepository(pgEventRepo, c.Redis.Client(), cfg.Search.CacheTTL)
	} else {
		c.EventRepo = pgEventRepo
	}
	c.VenueRepo = repository.NewPostgresVenueRepository(c.DB.Pool())
	c.AnalyticsRepo = repository.NewPostgresAnalyticsRepository(c.DB.Pool())

	// Initialize services
	loc := cfg.Search.Location()
	c.SearchService = service.NewSearchService(c.EventRepo, cfg.Emitter, &service.SearchConfig{
		DefaultLimit: cfg.Search.DefaultLimit,
		MaxLimit:     cfg.Search.MaxLimit,
		Location:     loc,
		Now:          cfg.Now,
	})
	c.EventService = service.NewEventService(c.EventRepo, c.VenueRepo, c.SearchService, cfg.Emitter)
	c.VenueService = service.NewVenueService(c.VenueRepo, c.SearchService)

	// Initialize handlers
	var redisCheck handler.HealthChecker
	if c.Redis != nil {
		redisCheck = c.Redis
	}
	c.HealthHandler = handler.NewHealthHandler(c.DB, redisCheck)
	c.EventHandler = handler.NewEventHandler(c.SearchService, c.EventService, loc)
	c.VenueHandler = handler.NewVenueHandler(c.VenueService)

	return c
}
