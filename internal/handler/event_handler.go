package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
	"github.com/dreammeanings/aroundmenow-sub001/internal/dto"
	"github.com/dreammeanings/aroundmenow-sub001/internal/service"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/middleware"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/response"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

const defaultTrendingLimit = 10

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	searchService service.SearchService
	eventService  service.EventService
	loc           *time.Location
}

// NewEventHandler creates a new EventHandler. loc is used to read
// date-only custom range bounds.
func NewEventHandler(searchService service.SearchService, eventService service.EventService, loc *time.Location) *EventHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &EventHandler{
		searchService: searchService,
		eventService:  eventService,
		loc:           loc,
	}
}

// Search handles GET /events/search - filtered, paginated event discovery
func (h *EventHandler) Search(c *gin.Context) {
	var req dto.SearchEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid query parameters"))
		return
	}

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	userID, _ := middleware.GetUserID(c)
	result, err := h.searchService.Search(c.Request.Context(), req.ToCriteria(h.loc), userID)
	if err != nil {
		writeError(c, "search events", err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated("events", toEventResponses(result.Events), result.Page, result.Limit, result.Total))
}

// Trending handles GET /events/trending
func (h *EventHandler) Trending(c *gin.Context) {
	var req dto.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid query parameters"))
		return
	}
	if req.Limit == 0 {
		req.Limit = defaultTrendingLimit
	}

	events, err := h.eventService.Trending(c.Request.Context(), req.Limit)
	if err != nil {
		writeError(c, "trending events", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(toEventResponses(events)))
}

// GetByID handles GET /events/:id - retrieves an event and records a view
func (h *EventHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("ID is required"))
		return
	}

	userID, _ := middleware.GetUserID(c)
	event, err := h.eventService.GetEvent(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, "get event", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(toEventResponse(event)))
}

// Save handles POST /events/:id/save
func (h *EventHandler) Save(c *gin.Context) {
	h.engage(c, "save event", h.eventService.SaveEvent)
}

// Share handles POST /events/:id/share
func (h *EventHandler) Share(c *gin.Context) {
	h.engage(c, "share event", h.eventService.ShareEvent)
}

func (h *EventHandler) engage(c *gin.Context, op string, fn func(ctx context.Context, id, userID string) (int, error)) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("ID is required"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User ID not found in token"))
		return
	}

	count, err := fn(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, op, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(&dto.EventCounterResponse{ID: id, Count: count}))
}

// Create handles POST /events - creates a new event (venue owner or admin)
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	// Get user ID from JWT context
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User ID not found in token"))
		return
	}
	req.CreatedBy = userID

	// Validate request
	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), &req, actorFrom(c))
	if err != nil {
		if errors.Is(err, domain.ErrVenueNotFound) {
			c.JSON(http.StatusBadRequest, response.BadRequest("Venue not found"))
			return
		}
		writeError(c, "create event", err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(toEventResponse(&domain.EventListing{Event: *event})))
}

// UpdateStatus handles PATCH /events/:id/status
func (h *EventHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("ID is required"))
		return
	}

	var req dto.UpdateEventStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	event, err := h.eventService.UpdateEventStatus(c.Request.Context(), id, domain.EventStatus(req.Status), actorFrom(c))
	if err != nil {
		writeError(c, "update event status", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(toEventResponse(event)))
}

// Delete handles DELETE /events/:id - soft deletes an event
func (h *EventHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("ID is required"))
		return
	}

	if err := h.eventService.DeactivateEvent(c.Request.Context(), id, actorFrom(c)); err != nil {
		writeError(c, "delete event", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(map[string]string{"message": "Event deleted successfully"}))
}

// actorFrom reads the caller set by the JWT middleware
func actorFrom(c *gin.Context) domain.Actor {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetRole(c)
	return domain.Actor{UserID: userID, Role: role}
}

func toEventResponses(events []*domain.EventListing) []*dto.EventResponse {
	out := make([]*dto.EventResponse, len(events))
	for i, e := range events {
		out[i] = toEventResponse(e)
	}
	return out
}

// toEventResponse converts a domain listing to response DTO
func toEventResponse(event *domain.EventListing) *dto.EventResponse {
	return &dto.EventResponse{
		ID:            event.ID,
		VenueID:       event.VenueID,
		Title:         event.Title,
		Description:   event.Description,
		ImageURL:      event.ImageURL,
		StartDate:     formatTimePtr(event.StartDate),
		EndDate:       formatTimePtr(event.EndDate),
		Price:         event.Price.InexactFloat64(),
		PriceRange:    string(event.PriceRange),
		Currency:      event.Currency,
		EventTypes:    nonNil(event.EventTypes),
		Vibe:          nonNil(event.Vibe),
		Latitude:      event.Latitude,
		Longitude:     event.Longitude,
		Address:       event.Address,
		City:          event.City,
		State:         event.State,
		Status:        string(event.Status),
		IsActive:      event.IsActive,
		TrendingScore: event.TrendingScore,
		ViewCount:     event.ViewCount,
		SaveCount:     event.SaveCount,
		ShareCount:    event.ShareCount,
		VenueName:     event.Venue.Name,
		VenueLogo:     event.Venue.LogoURL,
		VenueAddress:  event.Venue.Address,
		VenueCity:     event.Venue.City,
		VenueState:    event.Venue.State,
		Distance:      event.Distance,
		CreatedAt:     event.CreatedAt.Format(timeLayout),
		UpdatedAt:     event.UpdatedAt.Format(timeLayout),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeLayout)
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
