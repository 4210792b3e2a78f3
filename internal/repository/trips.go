package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wanderai-backend/internal/common"
	"wanderai-backend/internal/models"
)

const tripColumns = `id, user_id, title, destination, start_date, end_date, budget, status,
       image_url, photographer, photographer_url, created_at, updated_at`

type TripRepository struct {
	db DBTX
}

func NewTripRepository(db DBTX) *TripRepository {
	return &TripRepository{db: db}
}

func scanTrip(row scanner) (*models.Trip, error) {
	t := &models.Trip{}
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Destination, &t.StartDate, &t.EndDate, &t.Budget, &t.Status,
		&t.ImageURL, &t.Photographer, &t.PhotographerURL, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListByUser returns the user's trips, newest first.
func (r *TripRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	trips := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	return trips, nil
}

// GetForUser returns common.ErrNotFound when the trip is missing or owned by someone else.
func (r *TripRepository) GetForUser(ctx context.Context, tripID, userID uuid.UUID) (*models.Trip, error) {
	t, err := scanTrip(r.db.QueryRow(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE id = $1 AND user_id = $2`, tripID, userID))
	if err != nil {
		return nil, notFound(err, "get trip")
	}
	return t, nil
}

// Create assigns the id, status default and timestamps, then inserts t.
func (r *TripRepository) Create(ctx context.Context, t *models.Trip) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = models.TripStatusDraft
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	_, err := r.db.Exec(ctx,
		`INSERT INTO trips (id, user_id, title, destination, start_date, end_date, budget, status,
                            image_url, photographer, photographer_url, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		t.ID, t.UserID, t.Title, t.Destination, t.StartDate, t.EndDate, t.Budget, t.Status,
		t.ImageURL, t.Photographer, t.PhotographerURL, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create trip: %w", err)
	}
	return nil
}

// Update writes every mutable column of t and bumps updated_at.
func (r *TripRepository) Update(ctx context.Context, t *models.Trip) error {
	t.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx,
		`UPDATE trips
            SET title = $3, destination = $4, start_date = $5, end_date = $6, budget = $7,
                status = $8, image_url = $9, photographer = $10, photographer_url = $11,
                updated_at = $12
          WHERE id = $1 AND user_id = $2`,
		t.ID, t.UserID, t.Title, t.Destination, t.StartDate, t.EndDate, t.Budget,
		t.Status, t.ImageURL, t.Photographer, t.PhotographerURL, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes the trip; days, activities and expenses cascade.
func (r *TripRepository) Delete(ctx context.Context, tripID, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trips WHERE id = $1 AND user_id = $2`, tripID, userID)
	if err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}
