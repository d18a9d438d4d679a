package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
	"github.com/dreammeanings/aroundmenow-sub001/internal/metrics"
	"github.com/dreammeanings/aroundmenow-sub001/internal/search"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/logger"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/redis"
)

const (
	// SearchKeyPrefix prefixes every cached search page
	SearchKeyPrefix = "search:"

	// DefaultSearchCacheTTL applies when no TTL is configured
	DefaultSearchCacheTTL = 60 * time.Second
)

// CachedEventRepository wraps EventRepository with a Redis read-through cache
// for search pages. Cache failures fall back to the wrapped repository.
type CachedEventRepository struct {
	repo  EventRepository
	cache goredis.Cmdable
	ttl   time.Duration
}

// NewCachedEventRepository creates a new CachedEventRepository
func NewCachedEventRepository(repo EventRepository, cache goredis.Cmdable, ttl time.Duration) *CachedEventRepository {
	if ttl <= 0 {
		ttl = DefaultSearchCacheTTL
	}
	return &CachedEventRepository{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}
}

type cachedSearchPage struct {
	Events []*domain.EventListing `json:"events"`
	Total  int64                  `json:"total"`
}

// SearchCacheKey is the Redis key of a plan's page. The page statement
// carries every argument, resolved date bounds and paging included.
func SearchCacheKey(plan search.Plan) string {
	return SearchKeyPrefix + plan.Page.Key()
}

// Search serves a page from cache or loads and stores it
func (r *CachedEventRepository) Search(ctx context.Context, plan search.Plan) ([]*domain.EventListing, int64, error) {
	key := SearchCacheKey(plan)

	cached, err := r.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var page cachedSearchPage
		if err := json.Unmarshal(cached, &page); err == nil {
			metrics.CacheHit()
			if page.Events == nil {
				page.Events = []*domain.EventListing{}
			}
			return page.Events, page.Total, nil
		}
		metrics.CacheError()
	case errors.Is(err, goredis.Nil):
		metrics.CacheMiss()
	default:
		metrics.CacheError()
		logger.Warn("search cache read failed", zap.String("key", key), zap.Error(err))
	}

	events, total, err := r.repo.Search(ctx, plan)
	if err != nil {
		return nil, 0, err
	}

	r.store(ctx, key, cachedSearchPage{Events: events, Total: total})
	return events, total, nil
}

func (r *CachedEventRepository) store(ctx context.Context, key string, page cachedSearchPage) {
	data, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, data, r.ttl).Err(); err != nil {
		logger.Warn("search cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateSearch drops every cached search page
func (r *CachedEventRepository) InvalidateSearch(ctx context.Context) {
	if _, err := redis.DeleteByPattern(ctx, r.cache, SearchKeyPrefix+"*"); err != nil {
		logger.Warn("search cache invalidation failed", zap.Error(err))
	}
}

// GetByID is not cached; view counts change on every read
func (r *CachedEventRepository) GetByID(ctx context.Context, id string) (*domain.EventListing, error) {
	return r.repo.GetByID(ctx, id)
}

// Create creates a new event and invalidates search caches
func (r *CachedEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if err := r.repo.Create(ctx, event); err != nil {
		return err
	}
	r.InvalidateSearch(ctx)
	return nil
}

// UpdateStatus updates the status and invalidates search caches
func (r *CachedEventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) error {
	if err := r.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	r.InvalidateSearch(ctx)
	return nil
}

// Deactivate soft deletes an event and invalidates search caches
func (r *CachedEventRepository) Deactivate(ctx context.Context, id string) error {
	if err := r.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	r.InvalidateSearch(ctx)
	return nil
}

// IncrementCounter passes through. Cached pages keep their counts until the TTL expires.
func (r *CachedEventRepository) IncrementCounter(ctx context.Context, id string, kind domain.CounterKind) (int, error) {
	return r.repo.IncrementCounter(ctx, id, kind)
}
