package dto

import (
	"strings"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
)

// CreateVenueRequest represents the request to create a venue
type CreateVenueRequest struct {
	Name             string   `json:"name" binding:"required,min=1,max=255"`
	Description      string   `json:"description" binding:"max=5000"`
	LogoURL          string   `json:"logo" binding:"omitempty,url"`
	Address          string   `json:"address" binding:"max=255"`
	City             string   `json:"city" binding:"max=100"`
	State            string   `json:"state" binding:"max=100"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	Phone            string   `json:"phone" binding:"max=50"`
	Email            string   `json:"email" binding:"omitempty,email"`
	Website          string   `json:"website" binding:"omitempty,url"`
	Instagram        string   `json:"instagram" binding:"max=100"`
	SubscriptionTier string   `json:"subscriptionTier" binding:"omitempty,oneof=Free Lite Pro Elite"`
	OwnerID          string   `json:"-"` // Set from context
}

// Validate validates the CreateVenueRequest
func (r *CreateVenueRequest) Validate() (bool, string) {
	if strings.TrimSpace(r.Name) == "" {
		return false, "Venue name is required"
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return false, "Latitude and longitude must be provided together"
	}
	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90 || *r.Longitude < -180 || *r.Longitude > 180) {
		return false, "Coordinates out of range"
	}
	return true, ""
}

// ToDomain maps the request onto an unsaved venue
func (r *CreateVenueRequest) ToDomain() domain.Venue {
	return domain.Venue{
		Name:             strings.TrimSpace(r.Name),
		Description:      r.Description,
		LogoURL:          r.LogoURL,
		Address:          r.Address,
		City:             r.City,
		State:            r.State,
		Latitude:         r.Latitude,
		Longitude:        r.Longitude,
		Phone:            r.Phone,
		Email:            r.Email,
		Website:          r.Website,
		Instagram:        r.Instagram,
		SubscriptionTier: domain.SubscriptionTier(r.SubscriptionTier),
		OwnerID:          r.OwnerID,
	}
}

// VenueListFilter represents filters for listing venues
type VenueListFilter struct {
	City  string `form:"city" binding:"max=100"`
	Page  int    `form:"page" binding:"omitempty,min=1,max=21474837"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// SetDefaults sets default values for pagination
func (f *VenueListFilter) SetDefaults() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
}

// Offset returns the row offset of the current page
func (f *VenueListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// VenueResponse represents the response for a venue
type VenueResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	LogoURL          string   `json:"logo,omitempty"`
	Address          string   `json:"address,omitempty"`
	City             string   `json:"city,omitempty"`
	State            string   `json:"state,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	Phone            string   `json:"phone,omitempty"`
	Email            string   `json:"email,omitempty"`
	Website          string   `json:"website,omitempty"`
	Instagram        string   `json:"instagram,omitempty"`
	SubscriptionTier string   `json:"subscriptionTier"`
	IsVerified       bool     `json:"isVerified"`
	CreatedAt        string   `json:"createdAt"`
	UpdatedAt        string   `json:"updatedAt"`
}
