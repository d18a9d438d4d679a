package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventStatus represents the lifecycle status of an event (matches DB CHECK)
type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusSoldOut   EventStatus = "sold_out"
	EventStatusDraft     EventStatus = "draft"
)

// IsValid reports whether s is one of the known statuses
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusActive, EventStatusCancelled, EventStatusSoldOut, EventStatusDraft:
		return true
	}
	return false
}

// PriceRange is the coarse price bucket shown in listings
type PriceRange string

const (
	PriceRangeFree PriceRange = "Free"
	PriceRangeLow  PriceRange = "$"
	PriceRangeMid  PriceRange = "$$"
	PriceRangeHigh PriceRange = "$$$"
)

// DefaultCurrency applies when an event is created without one
const DefaultCurrency = "USD"

// IsValid reports whether r is one of the known price ranges
func (r PriceRange) IsValid() bool {
	switch r {
	case PriceRangeFree, PriceRangeLow, PriceRangeMid, PriceRangeHigh:
		return true
	}
	return false
}

// Event represents a listed event
type Event struct {
	ID            string          `json:"id"`
	VenueID       string          `json:"venue_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	ImageURL      string          `json:"image_url,omitempty"`
	StartDate     *time.Time      `json:"start_date,omitempty"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	Price         decimal.Decimal `json:"price"`
	PriceRange    PriceRange      `json:"price_range"`
	Currency      string          `json:"currency"`
	EventTypes    []string        `json:"event_types"`
	Vibe          []string        `json:"vibe"`
	Latitude      *float64        `json:"latitude,omitempty"`
	Longitude     *float64        `json:"longitude,omitempty"`
	Address       string          `json:"address,omitempty"`
	City          string          `json:"city,omitempty"`
	State         string          `json:"state,omitempty"`
	Status        EventStatus     `json:"status"`
	IsActive      bool            `json:"is_active"`
	TrendingScore float64         `json:"trending_score"`
	ViewCount     int             `json:"view_count"`
	SaveCount     int             `json:"save_count"`
	ShareCount    int             `json:"share_count"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// HasLocation reports whether the event carries coordinates
func (e *Event) HasLocation() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// Validate checks the event invariants
func (e *Event) Validate() error {
	if e.VenueID == "" {
		return fmt.Errorf("%w: venue_id is required", ErrInvalidEvent)
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if !e.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, e.Status)
	}
	if !e.PriceRange.IsValid() {
		return fmt.Errorf("%w: unknown price range %q", ErrInvalidEvent, e.PriceRange)
	}
	if e.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidEvent)
	}
	if e.Status != EventStatusDraft && e.StartDate == nil {
		return fmt.Errorf("%w: start_date is required unless the event is a draft", ErrInvalidEvent)
	}
	if e.StartDate != nil && e.EndDate != nil && e.EndDate.Before(*e.StartDate) {
		return fmt.Errorf("%w: end_date is before start_date", ErrInvalidEvent)
	}
	if (e.Latitude == nil) != (e.Longitude == nil) {
		return fmt.Errorf("%w: latitude and longitude must be set together", ErrInvalidEvent)
	}
	if e.HasLocation() && (*e.Latitude < -90 || *e.Latitude > 90 || *e.Longitude < -180 || *e.Longitude > 180) {
		return fmt.Errorf("%w: coordinates out of range", ErrInvalidEvent)
	}
	return nil
}

// CanTransitionTo checks a status change against the start-date invariant
func (e *Event) CanTransitionTo(status EventStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if status != EventStatusDraft && e.StartDate == nil {
		return fmt.Errorf("%w: event has no start_date", ErrInvalidStatus)
	}
	return nil
}

// NewEvent fills identity, defaults and timestamps, then validates
func NewEvent(e Event) (*Event, error) {
	now := time.Now().UTC()
	e.ID = uuid.NewString()
	if e.Status == "" {
		e.Status = EventStatusDraft
	}
	if e.PriceRange == "" {
		e.PriceRange = PriceRangeFree
	}
	if e.Currency == "" {
		e.Currency = DefaultCurrency
	}
	if e.EventTypes == nil {
		e.EventTypes = []string{}
	}
	if e.Vibe == nil {
		e.Vibe = []string{}
	}
	e.IsActive = true
	e.CreatedAt = now
	e.UpdatedAt = now

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// VenueSummary holds the venue display fields denormalized into listings
type VenueSummary struct {
	Name    string `json:"venue_name"`
	LogoURL string `json:"venue_logo,omitempty"`
	Address string `json:"venue_address,omitempty"`
	City    string `json:"venue_city,omitempty"`
	State   string `json:"venue_state,omitempty"`
}

// EventListing is an event row as returned by search, with venue fields and
// an optional distance in kilometers from the querying user.
type EventListing struct {
	Event
	Venue    VenueSummary `json:"venue"`
	Distance *float64     `json:"distance,omitempty"`
}

// SearchResult is one page of listings plus the unpaged total
type SearchResult struct {
	Events     []*EventListing `json:"events"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// CounterKind names an engagement counter column
type CounterKind string

const (
	CounterView  CounterKind = "view_count"
	CounterSave  CounterKind = "save_count"
	CounterShare CounterKind = "share_count"
)
