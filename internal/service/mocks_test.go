package service

import (
	"context"
	"sync"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
	"github.com/dreammeanings/aroundmenow-sub001/internal/search"
)

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	events       map[string]*domain.EventListing
	searchResult []*domain.EventListing
	searchTotal  int64
	searchErr    error
	counterErr   error
	createErr    error
	plans        []search.Plan
}

func NewMockEventRepository() *MockEventRepository {
	return &MockEventRepository{
		events: make(map[string]*domain.EventListing),
	}
}

func (m *MockEventRepository) Search(ctx context.Context, plan search.Plan) ([]*domain.EventListing, int64, error) {
	m.plans = append(m.plans, plan)
	if m.searchErr != nil {
		return nil, 0, m.searchErr
	}
	return m.searchResult, m.searchTotal, nil
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*domain.EventListing, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.events[event.ID] = &domain.EventListing{Event: *event}
	return nil
}

func (m *MockEventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) error {
	e, ok := m.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.Status = status
	return nil
}

func (m *MockEventRepository) Deactivate(ctx context.Context, id string) error {
	e, ok := m.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.IsActive = false
	return nil
}

func (m *MockEventRepository) IncrementCounter(ctx context.Context, id string, kind domain.CounterKind) (int, error) {
	if m.counterErr != nil {
		return 0, m.counterErr
	}
	e, ok := m.events[id]
	if !ok {
		return 0, domain.ErrEventNotFound
	}
	switch kind {
	case domain.CounterView:
		e.ViewCount++
		return e.ViewCount, nil
	case domain.CounterSave:
		e.SaveCount++
		return e.SaveCount, nil
	default:
		e.ShareCount++
		return e.ShareCount, nil
	}
}

// MockVenueRepository is a mock implementation of VenueRepository
type MockVenueRepository struct {
	venues    map[string]*domain.Venue
	createErr error
}

func NewMockVenueRepository() *MockVenueRepository {
	return &MockVenueRepository{venues: make(map[string]*domain.Venue)}
}

func (m *MockVenueRepository) Create(ctx context.Context, venue *domain.Venue) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.venues[venue.ID] = venue
	return nil
}

func (m *MockVenueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	v, ok := m.venues[id]
	if !ok {
		return nil, domain.ErrVenueNotFound
	}
	return v, nil
}

func (m *MockVenueRepository) List(ctx context.Context, city string, limit, offset int) ([]*domain.Venue, int, error) {
	var out []*domain.Venue
	for _, v := range m.venues {
		if city == "" || v.City == city {
			out = append(out, v)
		}
	}
	total := len(out)
	if offset >= len(out) {
		return []*domain.Venue{}, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *MockVenueRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := m.venues[id]
	return ok, nil
}

// recordingEmitter keeps emitted analytics events
type recordingEmitter struct {
	mu     sync.Mutex
	events []*domain.AnalyticsEvent
}

func (e *recordingEmitter) Emit(ev *domain.AnalyticsEvent) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
	return true
}

func (e *recordingEmitter) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.events))
	for i, ev := range e.events {
		out[i] = ev.EventType
	}
	return out
}
