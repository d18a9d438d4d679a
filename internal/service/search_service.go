package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
	"github.com/dreammeanings/aroundmenow-sub001/internal/geo"
	"github.com/dreammeanings/aroundmenow-sub001/internal/metrics"
	"github.com/dreammeanings/aroundmenow-sub001/internal/repository"
	"github.com/dreammeanings/aroundmenow-sub001/internal/search"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/telemetry"
)

// SearchConfig controls paging defaults and the calendar used for date ranges
type SearchConfig struct {
	DefaultLimit int
	MaxLimit     int
	// Location sets the calendar day for today/tomorrow/weekend; nil means UTC
	Location *time.Location
	// Now is the clock; nil means time.Now
	Now func() time.Time
}

// searchService implements SearchService
type searchService struct {
	eventRepo repository.EventRepository
	emitter   AnalyticsEmitter
	config    SearchConfig
}

// NewSearchService creates a new SearchService
func NewSearchService(eventRepo repository.EventRepository, emitter AnalyticsEmitter, cfg *SearchConfig) SearchService {
	c := SearchConfig{}
	if cfg != nil {
		c = *cfg
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if emitter == nil {
		emitter = nopEmitter{}
	}
	return &searchService{
		eventRepo: eventRepo,
		emitter:   emitter,
		config:    c,
	}
}

// Search builds one predicate set, runs the page and count queries from it,
// and annotates distance when the caller sent coordinates.
func (s *searchService) Search(ctx context.Context, criteria search.Criteria, userID string) (*domain.SearchResult, error) {
	c := criteria.Normalize(s.config.DefaultLimit, s.config.MaxLimit)
	now := s.config.Now().In(s.config.Location)
	filters := search.Build(c, now)
	plan := search.NewPlan(c, filters)

	ctx, span := telemetry.StartSpan(ctx, "search.events")
	defer span.End()
	span.SetAttributes(
		attribute.StringSlice("search.filters", filters.Names()),
		attribute.Int("search.page", c.Page),
		attribute.Int("search.limit", c.Limit),
	)

	start := time.Now()
	events, total, err := s.eventRepo.Search(ctx, plan)
	if err != nil {
		telemetry.RecordError(span, err)
		metrics.TrackSearch("error", time.Since(start), 0, nil)
		return nil, fmt.Errorf("failed to search events: %w", err)
	}
	metrics.TrackSearch("ok", time.Since(start), len(events), filters.Names()[1:])
	span.SetAttributes(attribute.Int64("search.total", total))

	if events == nil {
		events = []*domain.EventListing{}
	}
	AnnotateDistance(events, c)

	result := &domain.SearchResult{
		Events:     events,
		Total:      total,
		Page:       c.Page,
		Limit:      c.Limit,
		TotalPages: TotalPages(total, c.Limit),
	}

	if userID != "" {
		props := c.Properties()
		props["result_count"] = len(events)
		props["total"] = total
		s.emitter.Emit(domain.NewAnalyticsEvent(userID, domain.AnalyticsSearch, props))
	}

	return result, nil
}

// AnnotateDistance sets each event's distance in kilometers from the
// criteria's coordinates. Events without coordinates are left unset.
func AnnotateDistance(events []*domain.EventListing, c search.Criteria) {
	if !c.HasLocation() {
		return
	}
	for _, e := range events {
		if !e.HasLocation() {
			continue
		}
		d := geo.Haversine(*c.Latitude, *c.Longitude, *e.Latitude, *e.Longitude)
		e.Distance = &d
	}
}

// TotalPages is ceil(total / limit); zero results give zero pages
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
