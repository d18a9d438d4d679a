package search

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ListingColumns is the projection of the page query; repository scanning
// follows this order.
const ListingColumns = `e.id, e.venue_id, e.title, COALESCE(e.description, ''), COALESCE(e.image_url, ''),
	e.start_date, e.end_date, e.price, e.price_range, e.currency, e.event_types, e.vibe,
	e.latitude, e.longitude, COALESCE(e.address, ''), COALESCE(e.city, ''), COALESCE(e.state, ''),
	e.status, e.is_active, e.trending_score, e.view_count, e.save_count, e.share_count,
	COALESCE(e.created_by, ''), e.created_at, e.updated_at,
	COALESCE(v.name, ''), COALESCE(v.logo_url, ''), COALESCE(v.address, ''), COALESCE(v.city, ''), COALESCE(v.state, '')`

const fromClause = "FROM events e LEFT JOIN venues v ON v.id = e.venue_id"

const orderClause = "ORDER BY e.trending_score DESC, e.start_date ASC NULLS LAST, e.id ASC"

// Query is a rendered statement with positional arguments
type Query struct {
	SQL  string
	Args []any
}

// Key is a stable digest of the statement and its arguments
func (q Query) Key() string {
	h := sha1.New()
	h.Write([]byte(q.SQL))
	h.Write([]byte{0})
	if b, err := json.Marshal(q.Args); err == nil {
		h.Write(b)
	} else {
		fmt.Fprintf(h, "%#v", q.Args)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// PageQuery selects one ordered page of listings
func PageQuery(set PredicateSet, limit, offset int) Query {
	where, args := set.Where()
	n := len(args)
	sql := fmt.Sprintf("SELECT %s %s %s %s LIMIT $%d OFFSET $%d",
		ListingColumns, fromClause, where, orderClause, n+1, n+2)
	return Query{SQL: sql, Args: append(args, limit, offset)}
}

// CountQuery counts every listing matching the set
func CountQuery(set PredicateSet) Query {
	where, args := set.Where()
	return Query{SQL: fmt.Sprintf("SELECT COUNT(*) %s %s", fromClause, where), Args: args}
}

// Plan holds the page and count statements for one search
type Plan struct {
	Criteria Criteria
	Filters  PredicateSet
	Page     Query
	Count    Query
}

// NewPlan builds both statements from a single predicate set. c must already be normalized.
func NewPlan(c Criteria, filters PredicateSet) Plan {
	return Plan{
		Criteria: c,
		Filters:  filters,
		Page:     PageQuery(filters, c.Limit, c.Offset()),
		Count:    CountQuery(filters),
	}
}
