package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
	"github.com/dreammeanings/aroundmenow-sub001/internal/dto"
)

type eventFixture struct {
	events  *MockEventRepository
	venues  *MockVenueRepository
	emitter *recordingEmitter
	svc     EventService
	venueID string
}

var owner = domain.Actor{UserID: "owner-1", Role: "venue_owner"}

func newEventFixture() *eventFixture {
	events := NewMockEventRepository()
	venues := NewMockVenueRepository()
	emitter := &recordingEmitter{}
	searcher := NewSearchService(events, nil, nil)
	f := &eventFixture{
		events:  events,
		venues:  venues,
		emitter: emitter,
		svc:     NewEventService(events, venues, searcher, emitter),
	}
	f.venueID = f.addVenue()
	return f
}

func (f *eventFixture) addEvent(status domain.EventStatus, start *time.Time) string {
	id := uuid.NewString()
	f.events.events[id] = &domain.EventListing{Event: domain.Event{
		ID:        id,
		VenueID:   f.venueID,
		Title:     "Jazz Night",
		Status:    status,
		StartDate: start,
		IsActive:  true,
	}}
	return id
}

func (f *eventFixture) addVenue() string {
	id := uuid.NewString()
	f.venues.venues[id] = &domain.Venue{ID: id, Name: "Blue Note", SubscriptionTier: domain.TierFree, OwnerID: owner.UserID}
	return id
}

func TestGetEvent(t *testing.T) {
	f := newEventFixture()
	id := f.addEvent(domain.EventStatusActive, ptr(time.Now()))

	event, err := f.svc.GetEvent(context.Background(), id, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night", event.Title)
	assert.Equal(t, 1, event.ViewCount)
	assert.Equal(t, []string{domain.AnalyticsEventView}, f.emitter.types())
	assert.Equal(t, id, f.emitter.events[0].Properties["eventId"])
}

func TestGetEvent_NotFound(t *testing.T) {
	f := newEventFixture()

	_, err := f.svc.GetEvent(context.Background(), "not-a-uuid", "")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	_, err = f.svc.GetEvent(context.Background(), uuid.NewString(), "")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
	assert.Empty(t, f.emitter.events)
}

func TestGetEvent_ViewCounterIsBestEffort(t *testing.T) {
	f := newEventFixture()
	id := f.addEvent(domain.EventStatusActive, ptr(time.Now()))
	f.events.counterErr = errors.New("deadlock")

	event, err := f.svc.GetEvent(context.Background(), id, "")
	require.NoError(t, err)
	assert.Zero(t, event.ViewCount)
}

func TestSaveAndShareEvent(t *testing.T) {
	f := newEventFixture()
	id := f.addEvent(domain.EventStatusActive, ptr(time.Now()))

	n, err := f.svc.SaveEvent(context.Background(), id, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = f.svc.SaveEvent(context.Background(), id, "user-2")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = f.svc.ShareEvent(context.Background(), id, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, []string{domain.AnalyticsEventSave, domain.AnalyticsEventSave}, f.emitter.types())

	_, err = f.svc.ShareEvent(context.Background(), uuid.NewString(), "user-1")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestCreateEvent(t *testing.T) {
	f := newEventFixture()
	venueID := f.addVenue()
	start := time.Now().Add(24 * time.Hour)

	event, err := f.svc.CreateEvent(context.Background(), &dto.CreateEventRequest{
		VenueID:    venueID,
		Title:      "  Jazz Night ",
		StartDate:  &start,
		Price:      decimal.NewFromInt(15),
		PriceRange: "$",
		Currency:   "usd",
		EventTypes: []string{"Music, Nightlife"},
		Status:     "active",
		CreatedBy:  "owner-1",
	}, owner)
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "Jazz Night", event.Title)
	assert.Equal(t, "USD", event.Currency)
	assert.Equal(t, []string{"Music", "Nightlife"}, event.EventTypes)
	assert.Equal(t, domain.EventStatusActive, event.Status)
	assert.True(t, event.IsActive)
	assert.Contains(t, f.events.events, event.ID)
}

func TestCreateEvent_DefaultsToDraft(t *testing.T) {
	f := newEventFixture()
	venueID := f.addVenue()

	event, err := f.svc.CreateEvent(context.Background(), &dto.CreateEventRequest{VenueID: venueID, Title: "TBA"}, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusDraft, event.Status)
	assert.Equal(t, domain.PriceRangeFree, event.PriceRange)
}

func TestCreateEvent_Errors(t *testing.T) {
	f := newEventFixture()
	venueID := f.addVenue()

	_, err := f.svc.CreateEvent(context.Background(), &dto.CreateEventRequest{VenueID: uuid.NewString(), Title: "x"}, owner)
	assert.ErrorIs(t, err, domain.ErrVenueNotFound)

	_, err = f.svc.CreateEvent(context.Background(), &dto.CreateEventRequest{VenueID: venueID, Title: "x", Status: "active"}, owner)
	assert.ErrorIs(t, err, domain.ErrInvalidEvent)

	_, err = f.svc.CreateEvent(context.Background(), &dto.CreateEventRequest{VenueID: venueID, Title: "x", Price: decimal.NewFromInt(-1)}, owner)
	assert.True(t, domain.IsValidationError(err))

	f.events.createErr = errors.New("insert failed")
	_, err = f.svc.CreateEvent(context.Background(), &dto.CreateEventRequest{VenueID: venueID, Title: "x"}, owner)
	assert.EqualError(t, err, "insert failed")
}

func TestUpdateEventStatus(t *testing.T) {
	f := newEventFixture()
	dated := f.addEvent(domain.EventStatusDraft, ptr(time.Now()))
	undated := f.addEvent(domain.EventStatusDraft, nil)

	event, err := f.svc.UpdateEventStatus(context.Background(), dated, domain.EventStatusActive, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusActive, event.Status)
	assert.Equal(t, domain.EventStatusActive, f.events.events[dated].Status)

	_, err = f.svc.UpdateEventStatus(context.Background(), undated, domain.EventStatusActive, owner)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.svc.UpdateEventStatus(context.Background(), dated, "archived", owner)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.svc.UpdateEventStatus(context.Background(), uuid.NewString(), domain.EventStatusCancelled, owner)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestDeactivateEvent(t *testing.T) {
	f := newEventFixture()
	id := f.addEvent(domain.EventStatusActive, ptr(time.Now()))

	require.NoError(t, f.svc.DeactivateEvent(context.Background(), id, owner))
	assert.False(t, f.events.events[id].IsActive)

	assert.ErrorIs(t, f.svc.DeactivateEvent(context.Background(), "bad", owner), domain.ErrEventNotFound)
}

func TestTrending(t *testing.T) {
	f := newEventFixture()
	f.events.searchResult = []*domain.EventListing{listing("a", nil, nil), listing("b", nil, nil)}
	f.events.searchTotal = 2

	events, err := f.svc.Trending(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	plan := f.events.plans[0]
	assert.Equal(t, 5, plan.Criteria.Limit)
	assert.Equal(t, 1, plan.Criteria.Page)
	assert.Equal(t, 1, plan.Filters.Len())
}

func TestEventWrites_RequireVenueOwnership(t *testing.T) {
	f := newEventFixture()
	id := f.addEvent(domain.EventStatusDraft, ptr(time.Now()))
	stranger := domain.Actor{UserID: "owner-2", Role: "venue_owner"}
	admin := domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}

	_, err := f.svc.CreateEvent(context.Background(), &dto.CreateEventRequest{VenueID: f.venueID, Title: "x"}, stranger)
	assert.ErrorIs(t, err, domain.ErrNotVenueOwner)
	assert.Len(t, f.events.events, 1)

	_, err = f.svc.UpdateEventStatus(context.Background(), id, domain.EventStatusActive, stranger)
	assert.ErrorIs(t, err, domain.ErrNotVenueOwner)
	assert.Equal(t, domain.EventStatusDraft, f.events.events[id].Status)

	assert.ErrorIs(t, f.svc.DeactivateEvent(context.Background(), id, stranger), domain.ErrNotVenueOwner)
	assert.True(t, f.events.events[id].IsActive)

	// an anonymous actor never matches an unowned venue
	unowned := uuid.NewString()
	f.venues.venues[unowned] = &domain.Venue{ID: unowned, Name: "Open Mic", SubscriptionTier: domain.TierFree}
	_, err = f.svc.CreateEvent(context.Background(), &dto.CreateEventRequest{VenueID: unowned, Title: "x"}, domain.Actor{})
	assert.ErrorIs(t, err, domain.ErrNotVenueOwner)

	_, err = f.svc.CreateEvent(context.Background(), &dto.CreateEventRequest{VenueID: unowned, Title: "x"}, admin)
	require.NoError(t, err)
	_, err = f.svc.UpdateEventStatus(context.Background(), id, domain.EventStatusActive, admin)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeactivateEvent(context.Background(), id, admin))
	assert.False(t, f.events.events[id].IsActive)
}
