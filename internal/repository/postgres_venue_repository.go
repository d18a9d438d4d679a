package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/database"
)

// PostgresVenueRepository implements VenueRepository using PostgreSQL
type PostgresVenueRepository struct {
	db database.Querier
}

// NewPostgresVenueRepository creates a new PostgresVenueRepository
func NewPostgresVenueRepository(db database.Querier) *PostgresVenueRepository {
	return &PostgresVenueRepository{db: db}
}

const venueColumns = `id, name, COALESCE(description, ''), COALESCE(logo_url, ''),
	COALESCE(address, ''), COALESCE(city, ''), COALESCE(state, ''), latitude, longitude,
	COALESCE(phone, ''), COALESCE(email, ''), COALESCE(website, ''), COALESCE(instagram, ''),
	subscription_tier, is_verified, COALESCE(owner_id, ''), created_at, updated_at`

func scanVenue(row pgx.Row) (*domain.Venue, error) {
	v := &domain.Venue{}
	var tier string
	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Description,
		&v.LogoURL,
		&v.Address,
		&v.City,
		&v.State,
		&v.Latitude,
		&v.Longitude,
		&v.Phone,
		&v.Email,
		&v.Website,
		&v.Instagram,
		&tier,
		&v.IsVerified,
		&v.OwnerID,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.SubscriptionTier = domain.SubscriptionTier(tier)
	return v, nil
}

// Create creates a new venue
func (r *PostgresVenueRepository) Create(ctx context.Context, venue *domain.Venue) error {
	query := `
		INSERT INTO venues (
			id, name, description, logo_url, address, city, state, latitude, longitude,
			phone, email, website, instagram, subscription_tier, is_verified, owner_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := r.db.Exec(ctx, query,
		venue.ID,
		venue.Name,
		venue.Description,
		venue.LogoURL,
		venue.Address,
		venue.City,
		venue.State,
		venue.Latitude,
		venue.Longitude,
		venue.Phone,
		venue.Email,
		venue.Website,
		venue.Instagram,
		string(venue.SubscriptionTier),
		venue.IsVerified,
		venue.OwnerID,
		venue.CreatedAt,
		venue.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert venue: %w", err)
	}
	return nil
}

// GetByID retrieves a venue by ID
func (r *PostgresVenueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	query := fmt.Sprintf(`SELECT %s FROM venues WHERE id = $1`, venueColumns)
	v, err := scanVenue(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	return v, nil
}

// List lists venues by name, optionally restricted to a city (case-insensitive)
func (r *PostgresVenueRepository) List(ctx context.Context, city string, limit, offset int) ([]*domain.Venue, int, error) {
	where := ""
	args := []any{}
	if city != "" {
		where = "WHERE city ILIKE $1"
		args = append(args, city)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM venues %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count venues: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM venues %s ORDER BY name ASC, id ASC LIMIT $%d OFFSET $%d`,
		venueColumns, where, n+1, n+2)
	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list venues: %w", err)
	}
	defer rows.Close()

	venues := make([]*domain.Venue, 0, limit)
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan venue: %w", err)
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate venues: %w", err)
	}
	return venues, total, nil
}

// Exists checks if a venue exists
func (r *PostgresVenueRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM venues WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check venue: %w", err)
	}
	return exists, nil
}
