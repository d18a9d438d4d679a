package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
	"github.com/dreammeanings/aroundmenow-sub001/internal/dto"
	"github.com/dreammeanings/aroundmenow-sub001/internal/service"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/middleware"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/response"
)

// VenueHandler handles venue-related HTTP requests
type VenueHandler struct {
	venueService service.VenueService
}

// NewVenueHandler creates a new VenueHandler
func NewVenueHandler(venueService service.VenueService) *VenueHandler {
	return &VenueHandler{
		venueService: venueService,
	}
}

// List handles GET /venues
func (h *VenueHandler) List(c *gin.Context) {
	var filter dto.VenueListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid query parameters"))
		return
	}

	venues, total, err := h.venueService.ListVenues(c.Request.Context(), &filter)
	if err != nil {
		writeError(c, "list venues", err)
		return
	}

	items := make([]*dto.VenueResponse, len(venues))
	for i, v := range venues {
		items[i] = toVenueResponse(v)
	}

	c.JSON(http.StatusOK, response.Paginated("venues", items, filter.Page, filter.Limit, int64(total)))
}

// GetByID handles GET /venues/:id
func (h *VenueHandler) GetByID(c *gin.Context) {
	venue, err := h.venueService.GetVenue(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "get venue", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(toVenueResponse(venue)))
}

// ListEvents handles GET /venues/:id/events
func (h *VenueHandler) ListEvents(c *gin.Context) {
	var req dto.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid query parameters"))
		return
	}

	result, err := h.venueService.ListVenueEvents(c.Request.Context(), c.Param("id"), req.Page, req.Limit)
	if err != nil {
		writeError(c, "list venue events", err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated("events", toEventResponses(result.Events), result.Page, result.Limit, result.Total))
}

// Create handles POST /venues
func (h *VenueHandler) Create(c *gin.Context) {
	var req dto.CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User ID not found in token"))
		return
	}
	req.OwnerID = userID

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	venue, err := h.venueService.CreateVenue(c.Request.Context(), &req)
	if err != nil {
		writeError(c, "create venue", err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(toVenueResponse(venue)))
}

func toVenueResponse(v *domain.Venue) *dto.VenueResponse {
	return &dto.VenueResponse{
		ID:               v.ID,
		Name:             v.Name,
		Description:      v.Description,
		LogoURL:          v.LogoURL,
		Address:          v.Address,
		City:             v.City,
		State:            v.State,
		Latitude:         v.Latitude,
		Longitude:        v.Longitude,
		Phone:            v.Phone,
		Email:            v.Email,
		Website:          v.Website,
		Instagram:        v.Instagram,
		SubscriptionTier: string(v.SubscriptionTier),
		IsVerified:       v.IsVerified,
		CreatedAt:        v.CreatedAt.Format(timeLayout),
		UpdatedAt:        v.UpdatedAt.Format(timeLayout),
	}
}
