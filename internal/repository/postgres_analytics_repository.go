package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/database"
)

// PostgresAnalyticsRepository implements AnalyticsRepository using PostgreSQL
type PostgresAnalyticsRepository struct {
	db database.Querier
}

// NewPostgresAnalyticsRepository creates a new PostgresAnalyticsRepository
func NewPostgresAnalyticsRepository(db database.Querier) *PostgresAnalyticsRepository {
	return &PostgresAnalyticsRepository{db: db}
}

// Insert writes one analytics record. The id makes redelivery harmless.
func (r *PostgresAnalyticsRepository) Insert(ctx context.Context, event *domain.AnalyticsEvent) error {
	props, err := json.Marshal(event.Properties)
	if err != nil {
		return fmt.Errorf("failed to encode properties: %w", err)
	}

	var userID *string
	if event.UserID != "" {
		userID = &event.UserID
	}

	query := `
		INSERT INTO analytics_events (id, user_id, event_type, properties, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, event.ID, userID, event.EventType, props, event.Timestamp); err != nil {
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}
	return nil
}
