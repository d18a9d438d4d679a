package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
	"github.com/dreammeanings/aroundmenow-sub001/internal/dto"
	"github.com/dreammeanings/aroundmenow-sub001/internal/repository"
	"github.com/dreammeanings/aroundmenow-sub001/internal/search"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/logger"
)

// eventService implements EventService
type eventService struct {
	eventRepo repository.EventRepository
	venueRepo repository.VenueRepository
	searcher  SearchService
	emitter   AnalyticsEmitter
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repository.EventRepository, venueRepo repository.VenueRepository, searcher SearchService, emitter AnalyticsEmitter) EventService {
	if emitter == nil {
		emitter = nopEmitter{}
	}
	return &eventService{
		eventRepo: eventRepo,
		venueRepo: venueRepo,
		searcher:  searcher,
		emitter:   emitter,
	}
}

// GetEvent retrieves an event by ID and bumps its view count. The view
// counter is best effort; a failed increment still returns the event.
func (s *eventService) GetEvent(ctx context.Context, id, userID string) (*domain.EventListing, error) {
	if !isUUID(id) {
		return nil, domain.ErrEventNotFound
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	views, err := s.eventRepo.IncrementCounter(ctx, id, domain.CounterView)
	if err != nil {
		logger.Warn("failed to increment view count", zap.String("event_id", id), zap.Error(err))
	} else {
		event.ViewCount = views
	}

	s.track(userID, domain.AnalyticsEventView, id)
	return event, nil
}

// SaveEvent increments the save counter
func (s *eventService) SaveEvent(ctx context.Context, id, userID string) (int, error) {
	return s.engage(ctx, id, userID, domain.CounterSave, domain.AnalyticsEventSave)
}

// ShareEvent increments the share counter
func (s *eventService) ShareEvent(ctx context.Context, id, userID string) (int, error) {
	return s.engage(ctx, id, userID, domain.CounterShare, domain.AnalyticsEventShare)
}

func (s *eventService) engage(ctx context.Context, id, userID string, kind domain.CounterKind, eventType string) (int, error) {
	if !isUUID(id) {
		return 0, domain.ErrEventNotFound
	}
	n, err := s.eventRepo.IncrementCounter(ctx, id, kind)
	if err != nil {
		return 0, err
	}
	s.track(userID, eventType, id)
	return n, nil
}

// CreateEvent creates a new event at a venue the actor manages
func (s *eventService) CreateEvent(ctx context.Context, req *dto.CreateEventRequest, actor domain.Actor) (*domain.Event, error) {
	// Validate request
	if valid, msg := req.Validate(); !valid {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidEvent, msg)
	}

	if err := s.authorize(ctx, req.VenueID, actor); err != nil {
		return nil, err
	}

	event, err := domain.NewEvent(req.ToDomain())
	if err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// UpdateEventStatus changes an event's status after checking the transition
func (s *eventService) UpdateEventStatus(ctx context.Context, id string, status domain.EventStatus, actor domain.Actor) (*domain.EventListing, error) {
	if !isUUID(id) {
		return nil, domain.ErrEventNotFound
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, event.VenueID, actor); err != nil {
		return nil, err
	}
	if err := event.CanTransitionTo(status); err != nil {
		return nil, err
	}

	if err := s.eventRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	event.Status = status
	return event, nil
}

// DeactivateEvent soft deletes an event
func (s *eventService) DeactivateEvent(ctx context.Context, id string, actor domain.Actor) error {
	if !isUUID(id) {
		return domain.ErrEventNotFound
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, event.VenueID, actor); err != nil {
		return err
	}
	return s.eventRepo.Deactivate(ctx, id)
}

// authorize loads the venue and checks the actor may manage its events.
// A missing venue reports ErrVenueNotFound.
func (s *eventService) authorize(ctx context.Context, venueID string, actor domain.Actor) error {
	venue, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		return err
	}
	if !actor.CanManage(venue) {
		return domain.ErrNotVenueOwner
	}
	return nil
}

// Trending returns the first page of the unfiltered listing, which is
// ordered by trending score.
func (s *eventService) Trending(ctx context.Context, limit int) ([]*domain.EventListing, error) {
	result, err := s.searcher.Search(ctx, search.Criteria{Page: 1, Limit: limit}, "")
	if err != nil {
		return nil, err
	}
	return result.Events, nil
}

func (s *eventService) track(userID, eventType, eventID string) {
	if userID == "" {
		return
	}
	s.emitter.Emit(domain.NewAnalyticsEvent(userID, eventType, map[string]any{"eventId": eventID}))
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
