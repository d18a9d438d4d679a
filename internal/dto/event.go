package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
)

// CreateEventRequest represents the request to create a new event
type CreateEventRequest struct {
	VenueID     string          `json:"venueId" binding:"required,uuid"`
	Title       string          `json:"title" binding:"required,min=1,max=255"`
	Description string          `json:"description" binding:"max=5000"`
	ImageURL    string          `json:"imageUrl" binding:"omitempty,url"`
	StartDate   *time.Time      `json:"startDate"`
	EndDate     *time.Time      `json:"endDate"`
	Price       decimal.Decimal `json:"price"`
	PriceRange  string          `json:"priceRange" binding:"omitempty,oneof=Free $ $$ $$$"`
	Currency    string          `json:"currency" binding:"omitempty,len=3"`
	EventTypes  []string        `json:"eventTypes" binding:"max=20"`
	Vibe        []string        `json:"vibe" binding:"max=20"`
	Latitude    *float64        `json:"latitude"`
	Longitude   *float64        `json:"longitude"`
	Address     string          `json:"address" binding:"max=255"`
	City        string          `json:"city" binding:"max=100"`
	State       string          `json:"state" binding:"max=100"`
	Status      string          `json:"status" binding:"omitempty,oneof=active cancelled sold_out draft"`
	CreatedBy   string          `json:"-"` // Set from context
}

// Validate validates the CreateEventRequest
func (r *CreateEventRequest) Validate() (bool, string) {
	if strings.TrimSpace(r.Title) == "" {
		return false, "Event title is required"
	}
	if r.Price.IsNegative() {
		return false, "Price cannot be negative"
	}
	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return false, "End date must be after start date"
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return false, "Latitude and longitude must be provided together"
	}
	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90 || *r.Longitude < -180 || *r.Longitude > 180) {
		return false, "Coordinates out of range"
	}
	if r.Status != "" && r.Status != string(domain.EventStatusDraft) && r.StartDate == nil {
		return false, "Start date is required unless the event is a draft"
	}
	return true, ""
}

// ToDomain maps the request onto an unsaved event
func (r *CreateEventRequest) ToDomain() domain.Event {
	return domain.Event{
		VenueID:     r.VenueID,
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		ImageURL:    r.ImageURL,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Price:       r.Price,
		PriceRange:  domain.PriceRange(r.PriceRange),
		Currency:    strings.ToUpper(r.Currency),
		EventTypes:  splitTokens(r.EventTypes),
		Vibe:        splitTokens(r.Vibe),
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Address:     r.Address,
		City:        r.City,
		State:       r.State,
		Status:      domain.EventStatus(r.Status),
		CreatedBy:   r.CreatedBy,
	}
}

// UpdateEventStatusRequest represents a status transition
type UpdateEventStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active cancelled sold_out draft"`
}

// EventResponse represents the response for an event listing
type EventResponse struct {
	ID            string   `json:"id"`
	VenueID       string   `json:"venueId"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	StartDate     *string  `json:"startDate"`
	EndDate       *string  `json:"endDate"`
	Price         float64  `json:"price"`
	PriceRange    string   `json:"priceRange"`
	Currency      string   `json:"currency"`
	EventTypes    []string `json:"eventTypes"`
	Vibe          []string `json:"vibe"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Address       string   `json:"address,omitempty"`
	City          string   `json:"city,omitempty"`
	State         string   `json:"state,omitempty"`
	Status        string   `json:"status"`
	IsActive      bool     `json:"isActive"`
	TrendingScore float64  `json:"trendingScore"`
	ViewCount     int      `json:"viewCount"`
	SaveCount     int      `json:"saveCount"`
	ShareCount    int      `json:"shareCount"`
	VenueName     string   `json:"venueName,omitempty"`
	VenueLogo     string   `json:"venueLogo,omitempty"`
	VenueAddress  string   `json:"venueAddress,omitempty"`
	VenueCity     string   `json:"venueCity,omitempty"`
	VenueState    string   `json:"venueState,omitempty"`
	Distance      *float64 `json:"distance,omitempty"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

// EventCounterResponse is returned by save/share
type EventCounterResponse struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}
