package models

import (
	"time"

	"github.com/google/uuid"
)

// Destination is a catalog entry for browsing
type Destination struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" yaml:"name"`
	Country     *string   `json:"country" db:"country" yaml:"country"`
	Description *string   `json:"description" db:"description" yaml:"description"`
	Budget      *float64  `json:"budget" db:"budget" yaml:"budget"`
	Attractions []string  `json:"attractions" db:"attractions" yaml:"attractions"`
	ImageURL    *string   `json:"image_url" db:"image_url" yaml:"image_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" yaml:"-"`
}
