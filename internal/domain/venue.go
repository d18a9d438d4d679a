package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SubscriptionTier is the venue's paid plan
type SubscriptionTier string

const (
	TierFree  SubscriptionTier = "Free"
	TierLite  SubscriptionTier = "Lite"
	TierPro   SubscriptionTier = "Pro"
	TierElite SubscriptionTier = "Elite"
)

// IsValid reports whether t is one of the known tiers
func (t SubscriptionTier) IsValid() bool {
	switch t {
	case TierFree, TierLite, TierPro, TierElite:
		return true
	}
	return false
}

// Venue hosts events
type Venue struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description,omitempty"`
	LogoURL          string           `json:"logo_url,omitempty"`
	Address          string           `json:"address,omitempty"`
	City             string           `json:"city,omitempty"`
	State            string           `json:"state,omitempty"`
	Latitude         *float64         `json:"latitude,omitempty"`
	Longitude        *float64         `json:"longitude,omitempty"`
	Phone            string           `json:"phone,omitempty"`
	Email            string           `json:"email,omitempty"`
	Website          string           `json:"website,omitempty"`
	Instagram        string           `json:"instagram,omitempty"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier"`
	IsVerified       bool             `json:"is_verified"`
	OwnerID          string           `json:"owner_id,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// RoleAdmin may manage every venue's events
const RoleAdmin = "admin"

// Actor is the authenticated caller of a venue-scoped write
type Actor struct {
	UserID string
	Role   string
}

// CanManage reports whether the actor owns v or is an admin
func (a Actor) CanManage(v *Venue) bool {
	if a.Role == RoleAdmin {
		return true
	}
	return a.UserID != "" && v.OwnerID == a.UserID
}

// Validate checks the venue invariants
func (v *Venue) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidVenue)
	}
	if !v.SubscriptionTier.IsValid() {
		return fmt.Errorf("%w: unknown subscription tier %q", ErrInvalidVenue, v.SubscriptionTier)
	}
	if (v.Latitude == nil) != (v.Longitude == nil) {
		return fmt.Errorf("%w: latitude and longitude must be set together", ErrInvalidVenue)
	}
	return nil
}

// NewVenue assigns an id and defaults, then validates. New venues start unverified.
func NewVenue(v Venue) (*Venue, error) {
	now := time.Now().UTC()
	v.ID = uuid.NewString()
	if v.SubscriptionTier == "" {
		v.SubscriptionTier = TierFree
	}
	v.IsVerified = false
	v.CreatedAt = now
	v.UpdatedAt = now

	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}
