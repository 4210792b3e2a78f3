package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"wanderai-backend/internal/models"
)

//go:embed seed/destinations.yaml
var defaultDestinations []byte

// DestinationSeeder is the part of the destination repository the seed needs
type DestinationSeeder interface {
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, d *models.Destination) error
}

// ParseDestinations decodes a YAML list of destinations
func ParseDestinations(data []byte) ([]models.Destination, error) {
	var out []models.Destination
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse destinations: %w", err)
	}
	for i, d := range out {
		if d.Name == "" {
			return nil, fmt.Errorf("parse destinations: entry %d has no name", i+1)
		}
	}
	return out, nil
}

// SeedDestinations inserts the catalog when the table is empty. data nil means
// the built-in catalog. It returns how many rows were inserted.
func SeedDestinations(ctx context.Context, store DestinationSeeder, data []byte, log *slog.Logger) (int, error) {
	n, err := store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.InfoContext(ctx, "destinations already seeded", "count", n)
		return 0, nil
	}

	if data == nil {
		data = defaultDestinations
	}
	dests, err := ParseDestinations(data)
	if err != nil {
		return 0, err
	}
	for i := range dests {
		if err := store.Insert(ctx, &dests[i]); err != nil {
			return i, fmt.Errorf("seed %s: %w", dests[i].Name, err)
		}
	}
	log.InfoContext(ctx, "seeded destinations", "count", len(dests))
	return len(dests), nil
}
