package repository

import (
	"context"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
	"github.com/dreammeanings/aroundmenow-sub001/internal/search"
)

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Search runs the page and count statements of a plan
	Search(ctx context.Context, plan search.Plan) ([]*domain.EventListing, int64, error)
	// GetByID retrieves an event with its venue fields, listed or not
	GetByID(ctx context.Context, id string) (*domain.EventListing, error)
	// Create creates a new event
	Create(ctx context.Context, event *domain.Event) error
	// UpdateStatus sets the lifecycle status of an event
	UpdateStatus(ctx context.Context, id string, status domain.EventStatus) error
	// Deactivate soft deletes an event
	Deactivate(ctx context.Context, id string) error
	// IncrementCounter bumps an engagement counter and returns the new value
	IncrementCounter(ctx context.Context, id string, kind domain.CounterKind) (int, error)
}

// VenueRepository defines the interface for venue data access
type VenueRepository interface {
	// Create creates a new venue
	Create(ctx context.Context, venue *domain.Venue) error
	// GetByID retrieves a venue by ID
	GetByID(ctx context.Context, id string) (*domain.Venue, error)
	// List lists venues, optionally by city, with pagination
	List(ctx context.Context, city string, limit, offset int) ([]*domain.Venue, int, error)
	// Exists checks if a venue exists
	Exists(ctx context.Context, id string) (bool, error)
}

// AnalyticsRepository stores analytics records
type AnalyticsRepository interface {
	// Insert writes one record; replays of the same id are ignored
	Insert(ctx context.Context, event *domain.AnalyticsEvent) error
}
