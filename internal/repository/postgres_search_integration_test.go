package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
	"github.com/dreammeanings/aroundmenow-sub001/internal/geo"
	"github.com/dreammeanings/aroundmenow-sub001/internal/search"
)

func startsAt(ts time.Time) eventOpt {
	return func(e *domain.Event) { e.StartDate = &ts }
}

func priced(r domain.PriceRange, amount int64) eventOpt {
	return func(e *domain.Event) {
		e.PriceRange = r
		e.Price = decimal.NewFromInt(amount)
	}
}

func vibes(v ...string) eventOpt {
	return func(e *domain.Event) { e.Vibe = v }
}

func located(city, address string) eventOpt {
	return func(e *domain.Event) { e.City, e.Address = city, address }
}

func titles(events []*domain.EventListing) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Title
	}
	return out
}

func overlaps(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func TestIntegration_Place(t *testing.T) {
	f := newFixture(t)
	f.addEvent(t, "Lake Merritt Jam", located("Oakland", "Grand Ave"))
	f.addEvent(t, "Campus Show", located("Berkeley", "2400 Telegraph Ave"))

	tests := []struct {
		name  string
		place string
		want  []string
	}{
		{"event city", "oakland", []string{"Lake Merritt Jam"}},
		{"event address", "TELEGRAPH", []string{"Campus Show"}},
		{"venue city", "francisco", []string{"Lake Merritt Jam", "Campus Show"}},
		{"venue state", "CA", []string{"Lake Merritt Jam", "Campus Show"}},
		{"venue name", "blue note", []string{"Lake Merritt Jam", "Campus Show"}},
		{"no match", "Portland", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, total := f.search(t, search.Criteria{Place: tt.place})
			assert.ElementsMatch(t, tt.want, titles(events))
			assert.Equal(t, int64(len(tt.want)), total)

			needle := strings.ToLower(tt.place)
			for _, e := range events {
				fields := []string{e.City, e.Address, e.Venue.Name, e.Venue.City, e.Venue.State, e.Venue.Address}
				assert.True(t, strings.Contains(strings.ToLower(strings.Join(fields, "|")), needle), e.Title)
			}
		})
	}
}

func TestIntegration_Vibe(t *testing.T) {
	f := newFixture(t)
	f.addEvent(t, "Candlelight Quartet", vibes("chill", "romantic"))
	f.addEvent(t, "Warehouse Rave", vibes("loud"))
	f.addEvent(t, "Untagged")

	want := []string{"chill", "cozy"}
	events, total := f.search(t, search.Criteria{Vibes: want})
	require.Len(t, events, 1)
	assert.Equal(t, int64(1), total)
	for _, e := range events {
		assert.True(t, overlaps(e.Vibe, want), e.Title)
	}

	events, _ = f.search(t, search.Criteria{Vibes: []string{"loud", "romantic"}})
	assert.ElementsMatch(t, []string{"Candlelight Quartet", "Warehouse Rave"}, titles(events))
}

func TestIntegration_PriceRange(t *testing.T) {
	f := newFixture(t)
	f.addEvent(t, "Open Mic", free)
	f.addEvent(t, "Cover Band", priced(domain.PriceRangeLow, 10))
	f.addEvent(t, "Symphony", priced(domain.PriceRangeMid, 60))
	f.addEvent(t, "Gala", priced(domain.PriceRangeHigh, 250))

	want := []string{"$$", "$$$"}
	events, total := f.search(t, search.Criteria{PriceRanges: want})
	assert.ElementsMatch(t, []string{"Symphony", "Gala"}, titles(events))
	assert.Equal(t, int64(2), total)
	for _, e := range events {
		assert.Contains(t, want, string(e.PriceRange))
	}

	// freeOnly narrows priceRange rather than widening it
	events, total = f.search(t, search.Criteria{PriceRanges: want, FreeOnly: true})
	assert.Empty(t, events)
	assert.Zero(t, total)
}

func TestIntegration_DateRanges(t *testing.T) {
	f := newFixture(t)
	f.now = time.Date(2030, 6, 12, 15, 0, 0, 0, time.UTC) // Wednesday

	f.addEvent(t, "Yesterday", startsAt(time.Date(2030, 6, 11, 10, 0, 0, 0, time.UTC)))
	f.addEvent(t, "Midnight", startsAt(time.Date(2030, 6, 12, 0, 0, 0, 0, time.UTC)))
	f.addEvent(t, "Thursday", startsAt(time.Date(2030, 6, 13, 9, 0, 0, 0, time.UTC)))
	f.addEvent(t, "Friday", startsAt(time.Date(2030, 6, 14, 20, 0, 0, 0, time.UTC)))
	f.addEvent(t, "Saturday", startsAt(time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)))
	f.addEvent(t, "Next Month", startsAt(time.Date(2030, 7, 10, 19, 0, 0, 0, time.UTC)))

	ts := func(s string) *time.Time {
		v, err := time.Parse(time.RFC3339, s)
		require.NoError(t, err)
		return &v
	}

	tests := []struct {
		name     string
		criteria search.Criteria
		from, to *time.Time
		want     []string
	}{
		{
			name:     "today includes the rest of today and later",
			criteria: search.Criteria{DateRange: search.DateRangeToday},
			from:     ts("2030-06-12T00:00:00Z"),
			want:     []string{"Midnight", "Thursday", "Friday", "Saturday", "Next Month"},
		},
		{
			name:     "tomorrow",
			criteria: search.Criteria{DateRange: search.DateRangeTomorrow},
			from:     ts("2030-06-13T00:00:00Z"),
			want:     []string{"Thursday", "Friday", "Saturday", "Next Month"},
		},
		{
			name:     "weekend",
			criteria: search.Criteria{DateRange: search.DateRangeWeekend},
			from:     ts("2030-06-15T00:00:00Z"),
			want:     []string{"Saturday", "Next Month"},
		},
		{
			name: "custom window",
			criteria: search.Criteria{DateRange: search.DateRangeCustom,
				From: ts("2030-06-13T00:00:00Z"), To: ts("2030-06-14T23:59:59Z")},
			from: ts("2030-06-13T00:00:00Z"),
			to:   ts("2030-06-14T23:59:59Z"),
			want: []string{"Thursday", "Friday"},
		},
		{
			name:     "custom upper bound only is inclusive",
			criteria: search.Criteria{DateRange: search.DateRangeCustom, To: ts("2030-06-12T00:00:00Z")},
			to:       ts("2030-06-12T00:00:00Z"),
			want:     []string{"Yesterday", "Midnight"},
		},
		{
			name:     "custom without bounds",
			criteria: search.Criteria{DateRange: search.DateRangeCustom},
			want:     []string{"Yesterday", "Midnight", "Thursday", "Friday", "Saturday", "Next Month"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, total := f.search(t, tt.criteria)
			assert.ElementsMatch(t, tt.want, titles(events))
			assert.Equal(t, int64(len(tt.want)), total)

			for _, e := range events {
				require.NotNil(t, e.StartDate)
				if tt.from != nil {
					assert.False(t, e.StartDate.Before(*tt.from), e.Title)
				}
				if tt.to != nil {
					assert.False(t, e.StartDate.After(*tt.to), e.Title)
				}
			}
		})
	}
}

func TestIntegration_TextSearchVenueAndTags(t *testing.T) {
	f := newFixture(t)
	f.addEvent(t, "Friday Night", tags("karaoke", "nightlife"))
	f.addEvent(t, "Sunday Brunch", tags("food"))

	events, _ := f.search(t, search.Criteria{Search: "KARAO"})
	require.Len(t, events, 1)
	assert.Equal(t, "Friday Night", events[0].Title)
	assert.Contains(t, events[0].EventTypes, "karaoke")

	// the venue name matches every event it hosts
	events, total := f.search(t, search.Criteria{Search: "blue note"})
	assert.ElementsMatch(t, []string{"Friday Night", "Sunday Brunch"}, titles(events))
	assert.Equal(t, int64(2), total)

	// LIKE wildcards in the query are literal
	events, _ = f.search(t, search.Criteria{Search: "%"})
	assert.Empty(t, events)
}

func TestIntegration_DistanceBoundaryInclusive(t *testing.T) {
	f := newFixture(t)
	lat, lng := 37.7749, -122.4194
	f.addEvent(t, "Here", at(lat, lng))
	f.addEvent(t, "Ferry Building", at(37.7955, -122.3937))

	// a zero radius still keeps the co-located event
	zero := 0.0
	events, total := f.search(t, search.Criteria{Latitude: &lat, Longitude: &lng, Distance: &zero})
	assert.Equal(t, []string{"Here"}, titles(events))
	assert.Equal(t, int64(1), total)

	d := geo.Haversine(lat, lng, 37.7955, -122.3937)
	tests := []struct {
		radius float64
		want   []string
	}{
		{d + 1e-9, []string{"Here", "Ferry Building"}},
		{d - 1e-6, []string{"Here"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("radius %.9f", tt.radius), func(t *testing.T) {
			radius := tt.radius
			events, _ := f.search(t, search.Criteria{Latitude: &lat, Longitude: &lng, Distance: &radius})
			assert.ElementsMatch(t, tt.want, titles(events))
			for _, e := range events {
				require.NotNil(t, e.Latitude)
				assert.LessOrEqual(t, geo.Haversine(lat, lng, *e.Latitude, *e.Longitude), radius, e.Title)
			}
		})
	}
}
