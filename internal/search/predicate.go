package search

import (
	"strconv"
	"strings"
	"time"

	"github.com/dreammeanings/aroundmenow-sub001/internal/geo"
)

// Predicate is one SQL boolean condition. Placeholders are written {0}, {1}, ...
// and refer to the predicate's own arguments, so an argument can be used more
// than once; they are numbered into $n when a PredicateSet is rendered.
type Predicate struct {
	name string
	sql  string
	args []any
}

func newPredicate(name, sql string, args ...any) Predicate {
	return Predicate{name: name, sql: sql, args: args}
}

// Name identifies the filter that produced the predicate
func (p Predicate) Name() string { return p.name }

// SQL returns the condition with local {i} placeholders
func (p Predicate) SQL() string { return p.sql }

// Args returns a copy of the predicate's arguments
func (p Predicate) Args() []any { return append([]any(nil), p.args...) }

// PredicateSet is an immutable conjunction of predicates. Both the page query
// and the count query are rendered from the same set.
type PredicateSet struct {
	preds []Predicate
}

// Len returns the number of predicates, including the base listing filter
func (s PredicateSet) Len() int { return len(s.preds) }

// Names lists predicate names in order
func (s PredicateSet) Names() []string {
	names := make([]string, len(s.preds))
	for i, p := range s.preds {
		names[i] = p.name
	}
	return names
}

// Has reports whether a predicate with the given name is present
func (s PredicateSet) Has(name string) bool {
	for _, p := range s.preds {
		if p.name == name {
			return true
		}
	}
	return false
}

// Where renders "WHERE a AND b ..." with placeholders numbered from $1
func (s PredicateSet) Where() (string, []any) {
	if len(s.preds) == 0 {
		return "", nil
	}

	var (
		b    strings.Builder
		args []any
	)
	b.WriteString("WHERE ")
	for i, p := range s.preds {
		if i > 0 {
			b.WriteString(" AND ")
		}
		b.WriteString(renumber(p.sql, len(args)))
		args = append(args, p.args...)
	}
	return b.String(), args
}

// renumber rewrites {i} to $(offset+i+1)
func renumber(sql string, offset int) string {
	var b strings.Builder
	b.Grow(len(sql))
	for i := 0; i < len(sql); i++ {
		if sql[i] == '{' {
			if end := strings.IndexByte(sql[i:], '}'); end > 1 {
				if n, err := strconv.Atoi(sql[i+1 : i+end]); err == nil {
					b.WriteByte('$')
					b.WriteString(strconv.Itoa(offset + n + 1))
					i += end
					continue
				}
			}
		}
		b.WriteByte(sql[i])
	}
	return b.String()
}

// Predicate names
const (
	PredListed   = "listed"
	PredVenue    = "venue"
	PredSearch   = "search"
	PredDateFrom = "date_from"
	PredDateTo   = "date_to"
	PredPrice    = "price_range"
	PredFreeOnly = "free_only"
	PredTypes    = "event_types"
	PredVibe     = "vibe"
	PredPlace    = "place"
	PredDistance = "distance"
)

// Build turns criteria into the predicate set shared by the page and count
// queries. It is pure: now (whose location sets the calendar for relative
// date ranges) is its only clock. Filters missing a companion value are
// skipped rather than rejected.
func Build(c Criteria, now time.Time) PredicateSet {
	preds := []Predicate{
		newPredicate(PredListed, "e.is_active = TRUE AND e.status = 'active'"),
	}

	if c.VenueID != "" {
		preds = append(preds, newPredicate(PredVenue, "e.venue_id = {0}::uuid", c.VenueID))
	}

	if c.Search != "" {
		preds = append(preds, newPredicate(PredSearch,
			"(e.title ILIKE {0} OR e.description ILIKE {0} OR v.name ILIKE {0} OR e.event_types::text ILIKE {0})",
			containsPattern(c.Search)))
	}

	from, to := dateBounds(c, now)
	if from != nil {
		preds = append(preds, newPredicate(PredDateFrom, "e.start_date >= {0}", *from))
	}
	if to != nil {
		preds = append(preds, newPredicate(PredDateTo, "e.start_date <= {0}", *to))
	}

	if len(c.PriceRanges) > 0 {
		preds = append(preds, newPredicate(PredPrice, "e.price_range = ANY({0}::text[])", c.PriceRanges))
	}

	if c.FreeOnly {
		preds = append(preds, newPredicate(PredFreeOnly, "e.price = 0"))
	}

	if len(c.EventTypes) > 0 {
		preds = append(preds, newPredicate(PredTypes, "e.event_types ?| {0}::text[]", c.EventTypes))
	}

	if len(c.Vibes) > 0 {
		preds = append(preds, newPredicate(PredVibe, "e.vibe ?| {0}::text[]", c.Vibes))
	}

	if c.Place != "" {
		preds = append(preds, newPredicate(PredPlace,
			"(v.name ILIKE {0} OR v.city ILIKE {0} OR v.address ILIKE {0} OR v.state ILIKE {0} OR e.city ILIKE {0} OR e.address ILIKE {0})",
			containsPattern(c.Place)))
	}

	if c.HasLocation() && c.Distance != nil {
		preds = append(preds, newPredicate(PredDistance,
			geo.HaversineSQL("{0}::float8", "{1}::float8", "e.latitude", "e.longitude")+" <= {2}::float8",
			*c.Latitude, *c.Longitude, *c.Distance))
	}

	return PredicateSet{preds: preds}
}

// dateBounds resolves the start-date window. Relative ranges only set a lower bound.
func dateBounds(c Criteria, now time.Time) (from, to *time.Time) {
	today := StartOfDay(now)
	switch c.DateRange {
	case DateRangeToday:
		return &today, nil
	case DateRangeTomorrow:
		t := today.AddDate(0, 0, 1)
		return &t, nil
	case DateRangeWeekend:
		t := UpcomingSaturday(now)
		return &t, nil
	case DateRangeCustom:
		return c.From, c.To
	}
	return nil, nil
}

// StartOfDay is midnight of t's calendar day in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// UpcomingSaturday is the start of the next Saturday, or of today when today is Saturday
func UpcomingSaturday(now time.Time) time.Time {
	days := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
	return StartOfDay(now).AddDate(0, 0, days)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
