package search

import (
	"math"
	"strings"
	"time"
)

// DateRange selects a start-date window relative to now
type DateRange string

const (
	DateRangeToday    DateRange = "today"
	DateRangeTomorrow DateRange = "tomorrow"
	DateRangeWeekend  DateRange = "weekend"
	DateRangeCustom   DateRange = "custom"
)

// IsValid reports whether d is empty or a known range
func (d DateRange) IsValid() bool {
	switch d {
	case "", DateRangeToday, DateRangeTomorrow, DateRangeWeekend, DateRangeCustom:
		return true
	}
	return false
}

// Paging bounds
const (
	DefaultLimit = 20
	MaxLimit     = 100

	// MaxOffset caps the rows a page may skip
	MaxOffset = math.MaxInt32
	// MaxPage keeps (page-1)*MaxLimit within MaxOffset
	MaxPage = MaxOffset/MaxLimit + 1
)

// Criteria is a set of optional event filters. The zero value matches every
// listed event, first page, default page size.
type Criteria struct {
	Search      string
	DateRange   DateRange
	From        *time.Time // custom range only
	To          *time.Time // custom range only
	PriceRanges []string
	FreeOnly    bool
	EventTypes  []string
	Vibes       []string
	Place       string
	Latitude    *float64
	Longitude   *float64
	Distance    *float64 // kilometers
	VenueID     string

	Page  int
	Limit int
}

// Normalize trims text, drops empty and duplicate tokens, and clamps paging.
// defaultLimit and maxLimit fall back to the package defaults when not positive.
func (c Criteria) Normalize(defaultLimit, maxLimit int) Criteria {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}

	c.Search = strings.TrimSpace(c.Search)
	c.Place = strings.TrimSpace(c.Place)
	c.VenueID = strings.TrimSpace(c.VenueID)
	c.DateRange = DateRange(strings.ToLower(strings.TrimSpace(string(c.DateRange))))
	c.PriceRanges = cleanTokens(c.PriceRanges)
	c.EventTypes = cleanTokens(c.EventTypes)
	c.Vibes = cleanTokens(c.Vibes)

	if c.Page < 1 {
		c.Page = 1
	}
	switch {
	case c.Limit < 1:
		c.Limit = defaultLimit
	case c.Limit > maxLimit:
		c.Limit = maxLimit
	}
	return c
}

// HasLocation reports whether both query coordinates are present
func (c Criteria) HasLocation() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// Offset is the number of rows skipped before the current page
func (c Criteria) Offset() int {
	if c.Page < 1 || c.Limit < 1 {
		return 0
	}
	if c.Page-1 > MaxOffset/c.Limit {
		return MaxOffset
	}
	return (c.Page - 1) * c.Limit
}

// Properties describes the active filters for analytics
func (c Criteria) Properties() map[string]any {
	p := map[string]any{
		"page":  c.Page,
		"limit": c.Limit,
	}
	if c.Search != "" {
		p["search"] = c.Search
	}
	if c.DateRange != "" {
		p["dateRange"] = string(c.DateRange)
	}
	if c.From != nil {
		p["from"] = c.From.Format(time.RFC3339)
	}
	if c.To != nil {
		p["to"] = c.To.Format(time.RFC3339)
	}
	if len(c.PriceRanges) > 0 {
		p["priceRange"] = c.PriceRanges
	}
	if c.FreeOnly {
		p["freeOnly"] = true
	}
	if len(c.EventTypes) > 0 {
		p["eventTypes"] = c.EventTypes
	}
	if len(c.Vibes) > 0 {
		p["vibe"] = c.Vibes
	}
	if c.Place != "" {
		p["place"] = c.Place
	}
	if c.HasLocation() {
		p["latitude"] = *c.Latitude
		p["longitude"] = *c.Longitude
	}
	if c.Distance != nil {
		p["distance"] = *c.Distance
	}
	if c.VenueID != "" {
		p["venueId"] = c.VenueID
	}
	return p
}

func cleanTokens(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, tok := range in {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
