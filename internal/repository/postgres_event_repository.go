package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
	"github.com/dreammeanings/aroundmenow-sub001/internal/search"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/database"
)

// PostgresEventRepository implements EventRepository using PostgreSQL
type PostgresEventRepository struct {
	db database.Querier
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(db database.Querier) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// scanListing scans a row selected with search.ListingColumns
func scanListing(row pgx.Row) (*domain.EventListing, error) {
	l := &domain.EventListing{}
	var typesJSON, vibeJSON []byte
	var status, priceRange string

	err := row.Scan(
		&l.ID,
		&l.VenueID,
		&l.Title,
		&l.Description,
		&l.ImageURL,
		&l.StartDate,
		&l.EndDate,
		&l.Price,
		&priceRange,
		&l.Currency,
		&typesJSON,
		&vibeJSON,
		&l.Latitude,
		&l.Longitude,
		&l.Address,
		&l.City,
		&l.State,
		&status,
		&l.IsActive,
		&l.TrendingScore,
		&l.ViewCount,
		&l.SaveCount,
		&l.ShareCount,
		&l.CreatedBy,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.Venue.Name,
		&l.Venue.LogoURL,
		&l.Venue.Address,
		&l.Venue.City,
		&l.Venue.State,
	)
	if err != nil {
		return nil, err
	}

	l.Status = domain.EventStatus(status)
	l.PriceRange = domain.PriceRange(priceRange)
	l.EventTypes = decodeTags(typesJSON)
	l.Vibe = decodeTags(vibeJSON)
	return l, nil
}

func decodeTags(raw []byte) []string {
	var tags []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &tags); err != nil {
			tags = nil
		}
	}
	if tags == nil {
		tags = []string{}
	}
	return tags
}

func encodeTags(tags []string) []byte {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return b
}

// Search runs the page query then the count query. They are separate reads,
// so a concurrent write can shift the total by one.
func (r *PostgresEventRepository) Search(ctx context.Context, plan search.Plan) ([]*domain.EventListing, int64, error) {
	rows, err := r.db.Query(ctx, plan.Page.SQL, plan.Page.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.EventListing, 0, plan.Criteria.Limit)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate events: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, plan.Count.SQL, plan.Count.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	return events, total, nil
}

// GetByID retrieves an event by ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.EventListing, error) {
	query := fmt.Sprintf(`SELECT %s FROM events e LEFT JOIN venues v ON v.id = e.venue_id WHERE e.id = $1`, search.ListingColumns)
	l, err := scanListing(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return l, nil
}

// Create creates a new event
func (r *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (
			id, venue_id, title, description, image_url, start_date, end_date,
			price, price_range, currency, event_types, vibe, latitude, longitude,
			address, city, state, status, is_active, trending_score, created_by,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23
		)
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.VenueID,
		event.Title,
		event.Description,
		event.ImageURL,
		event.StartDate,
		event.EndDate,
		event.Price,
		string(event.PriceRange),
		event.Currency,
		encodeTags(event.EventTypes),
		encodeTags(event.Vibe),
		event.Latitude,
		event.Longitude,
		event.Address,
		event.City,
		event.State,
		string(event.Status),
		event.IsActive,
		event.TrendingScore,
		event.CreatedBy,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// UpdateStatus sets the lifecycle status of an event
func (r *PostgresEventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) error {
	query := `UPDATE events SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, string(status), time.Now())
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// Deactivate soft deletes an event by clearing is_active
func (r *PostgresEventRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE events SET is_active = FALSE, updated_at = $2 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to deactivate event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// IncrementCounter bumps view_count, save_count or share_count
func (r *PostgresEventRepository) IncrementCounter(ctx context.Context, id string, kind domain.CounterKind) (int, error) {
	switch kind {
	case domain.CounterView, domain.CounterSave, domain.CounterShare:
	default:
		return 0, fmt.Errorf("unknown counter %q", kind)
	}

	// kind is one of three fixed column names
	query := fmt.Sprintf(`UPDATE events SET %[1]s = %[1]s + 1 WHERE id = $1 RETURNING %[1]s`, kind)
	var n int
	if err := r.db.QueryRow(ctx, query, id).Scan(&n); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrEventNotFound
		}
		return 0, fmt.Errorf("failed to increment %s: %w", kind, err)
	}
	return n, nil
}
