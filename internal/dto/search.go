package dto

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dreammeanings/aroundmenow-sub001/internal/search"
)

const dateLayout = "2006-01-02"

// SearchEventsRequest is the query string of GET /events/search.
// List parameters accept repeated keys, comma separated values, or both.
type SearchEventsRequest struct {
	Search     string   `form:"search" binding:"max=200"`
	DateRange  string   `form:"dateRange" binding:"omitempty,oneof=today tomorrow weekend custom"`
	From       string   `form:"from"`
	To         string   `form:"to"`
	PriceRange []string `form:"priceRange"`
	Distance   *float64 `form:"distance"`
	EventTypes []string `form:"eventTypes"`
	Vibe       []string `form:"vibe"`
	Place      string   `form:"place" binding:"max=200"`
	FreeOnly   bool     `form:"freeOnly"`
	Latitude   *float64 `form:"latitude"`
	Longitude  *float64 `form:"longitude"`
	Page       *int     `form:"page"`
	Limit      *int     `form:"limit"`
}

// Validate validates the SearchEventsRequest
func (r *SearchEventsRequest) Validate() (bool, string) {
	if r.Page != nil && *r.Page < 1 {
		return false, "page must be at least 1"
	}
	if r.Page != nil && *r.Page > search.MaxPage {
		return false, fmt.Sprintf("page must be at most %d", search.MaxPage)
	}
	if r.Limit != nil && (*r.Limit < 1 || *r.Limit > search.MaxLimit) {
		return false, "limit must be between 1 and 100"
	}
	// NaN compares false against every bound, so finiteness is checked first
	if r.Latitude != nil && (!isFinite(*r.Latitude) || *r.Latitude < -90 || *r.Latitude > 90) {
		return false, "latitude must be between -90 and 90"
	}
	if r.Longitude != nil && (!isFinite(*r.Longitude) || *r.Longitude < -180 || *r.Longitude > 180) {
		return false, "longitude must be between -180 and 180"
	}
	if r.Distance != nil && !isFinite(*r.Distance) {
		return false, "distance must be a finite number"
	}
	if r.Distance != nil && *r.Distance < 0 {
		return false, "distance cannot be negative"
	}
	for _, tok := range splitTokens(r.PriceRange) {
		switch tok {
		case "Free", "$", "$$", "$$$":
		default:
			return false, "priceRange must be one of Free, $, $$, $$$"
		}
	}

	from, err := parseBound(r.From, false, time.UTC)
	if err != nil {
		return false, "from must be RFC3339 or YYYY-MM-DD"
	}
	to, err := parseBound(r.To, true, time.UTC)
	if err != nil {
		return false, "to must be RFC3339 or YYYY-MM-DD"
	}
	if from != nil && to != nil && to.Before(*from) {
		return false, "to must not be before from"
	}
	return true, ""
}

// ToCriteria converts a validated request. Date-only bounds are read in loc.
func (r *SearchEventsRequest) ToCriteria(loc *time.Location) search.Criteria {
	if loc == nil {
		loc = time.UTC
	}
	c := search.Criteria{
		Search:      r.Search,
		DateRange:   search.DateRange(r.DateRange),
		PriceRanges: splitTokens(r.PriceRange),
		FreeOnly:    r.FreeOnly,
		EventTypes:  splitTokens(r.EventTypes),
		Vibes:       splitTokens(r.Vibe),
		Place:       r.Place,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Distance:    r.Distance,
	}
	if r.Page != nil {
		c.Page = *r.Page
	}
	if r.Limit != nil {
		c.Limit = *r.Limit
	}
	c.From, _ = parseBound(r.From, false, loc)
	c.To, _ = parseBound(r.To, true, loc)
	return c
}

// PageRequest is a plain page/limit query
type PageRequest struct {
	Page  int `form:"page" binding:"omitempty,min=1,max=21474837"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// parseBound accepts RFC3339 or a calendar date. A date-only upper bound
// covers the whole day.
func parseBound(s string, upper bool, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return nil, err
	}
	if upper {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

// splitTokens flattens comma separated values
func splitTokens(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
