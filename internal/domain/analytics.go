package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Analytics event types
const (
	AnalyticsSearch     = "search"
	AnalyticsEventView  = "event_view"
	AnalyticsEventSave  = "event_save"
	AnalyticsEventShare = "event_share"
)

// AnalyticsEvent is one best-effort usage record
type AnalyticsEvent struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	EventType  string         `json:"eventType"`
	Properties map[string]any `json:"properties"`
	Timestamp  time.Time      `json:"timestamp"`
}

// NewAnalyticsEvent stamps an id and the current time
func NewAnalyticsEvent(userID, eventType string, properties map[string]any) *AnalyticsEvent {
	if properties == nil {
		properties = map[string]any{}
	}
	return &AnalyticsEvent{
		ID:         uuid.NewString(),
		UserID:     userID,
		EventType:  eventType,
		Properties: properties,
		Timestamp:  time.Now().UTC(),
	}
}

// Validate is applied to records arriving from the message bus
func (a *AnalyticsEvent) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidAnalyticsEvent)
	}
	if a.EventType == "" {
		return fmt.Errorf("%w: eventType is required", ErrInvalidAnalyticsEvent)
	}
	if a.Timestamp.IsZero() {
		return fmt.Errorf("%w: timestamp is required", ErrInvalidAnalyticsEvent)
	}
	return nil
}
