package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wanderai-backend/internal/models"
)

const destinationColumns = `id, name, country, description, budget, attractions, image_url, created_at`

type DestinationRepository struct {
	db DBTX
}

func NewDestinationRepository(db DBTX) *DestinationRepository {
	return &DestinationRepository{db: db}
}

func scanDestination(row scanner) (*models.Destination, error) {
	d := &models.Destination{}
	if err := row.Scan(&d.ID, &d.Name, &d.Country, &d.Description, &d.Budget, &d.Attractions, &d.ImageURL, &d.CreatedAt); err != nil {
		return nil, err
	}
	if d.Attractions == nil {
		d.Attractions = []string{}
	}
	return d, nil
}

// Search matches query case-insensitively against name, country and description.
// An empty query lists the catalog.
func (r *DestinationRepository) Search(ctx context.Context, query string, limit int) ([]models.Destination, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+destinationColumns+`
           FROM destinations
          WHERE $1 = ''
             OR name ILIKE '%' || $1 || '%'
             OR country ILIKE '%' || $1 || '%'
             OR description ILIKE '%' || $1 || '%'
          ORDER BY name
          LIMIT $2`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search destinations: %w", err)
	}
	defer rows.Close()

	out := []models.Destination{}
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("scan destination: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search destinations: %w", err)
	}
	return out, nil
}

func (r *DestinationRepository) Get(ctx context.Context, id uuid.UUID) (*models.Destination, error) {
	d, err := scanDestination(r.db.QueryRow(ctx,
		`SELECT `+destinationColumns+` FROM destinations WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "get destination")
	}
	return d, nil
}

func (r *DestinationRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM destinations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count destinations: %w", err)
	}
	return n, nil
}

func (r *DestinationRepository) Insert(ctx context.Context, d *models.Destination) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Attractions == nil {
		d.Attractions = []string{}
	}
	d.CreatedAt = time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO destinations (`+destinationColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.Name, d.Country, d.Description, d.Budget, d.Attractions, d.ImageURL, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert destination: %w", err)
	}
	return nil
}
