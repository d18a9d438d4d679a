package service

import (
	"context"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
	"github.com/dreammeanings/aroundmenow-sub001/internal/dto"
	"github.com/dreammeanings/aroundmenow-sub001/internal/search"
)

// SearchService defines the interface for event search
type SearchService interface {
	// Search returns one page of listed events matching the criteria.
	// userID is empty for anonymous requests.
	Search(ctx context.Context, criteria search.Criteria, userID string) (*domain.SearchResult, error)
}

// EventService defines the interface for event business logic
type EventService interface {
	// GetEvent retrieves an event and records a view
	GetEvent(ctx context.Context, id, userID string) (*domain.EventListing, error)
	// SaveEvent increments the save counter
	SaveEvent(ctx context.Context, id, userID string) (int, error)
	// ShareEvent increments the share counter
	ShareEvent(ctx context.Context, id, userID string) (int, error)
	// CreateEvent creates a new event
	CreateEvent(ctx context.Context, req *dto.CreateEventRequest, actor domain.Actor) (*domain.Event, error)
	// UpdateEventStatus changes an event's lifecycle status
	UpdateEventStatus(ctx context.Context, id string, status domain.EventStatus, actor domain.Actor) (*domain.EventListing, error)
	// DeactivateEvent soft deletes an event
	DeactivateEvent(ctx context.Context, id string, actor domain.Actor) error
	// Trending returns the top listed events
	Trending(ctx context.Context, limit int) ([]*domain.EventListing, error)
}

// VenueService defines the interface for venue business logic
type VenueService interface {
	// CreateVenue creates a new venue
	CreateVenue(ctx context.Context, req *dto.CreateVenueRequest) (*domain.Venue, error)
	// GetVenue retrieves a venue by ID
	GetVenue(ctx context.Context, id string) (*domain.Venue, error)
	// ListVenues lists venues with pagination
	ListVenues(ctx context.Context, filter *dto.VenueListFilter) ([]*domain.Venue, int, error)
	// ListVenueEvents lists a venue's listed events
	ListVenueEvents(ctx context.Context, venueID string, page, limit int) (*domain.SearchResult, error)
}

// AnalyticsEmitter accepts analytics events without blocking.
// Satisfied by analytics.Emitter.
type AnalyticsEmitter interface {
	Emit(event *domain.AnalyticsEvent) bool
}

type nopEmitter struct{}

func (nopEmitter) Emit(*domain.AnalyticsEvent) bool { return false }
