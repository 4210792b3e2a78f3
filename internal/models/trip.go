package models

import (
	"time"

	"github.com/google/uuid"
)

// TripStatusDraft is the status of a newly created trip
const TripStatusDraft = "draft"

// Trip represents a travel trip owned by a user
type Trip struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	Title           string     `json:"title" db:"title"`
	Destination     *string    `json:"destination" db:"destination"`
	StartDate       *time.Time `json:"start_date" db:"start_date"`
	EndDate         *time.Time `json:"end_date" db:"end_date"`
	Budget          *float64   `json:"budget" db:"budget"`
	Status          string     `json:"status" db:"status"`
	ImageURL        *string    `json:"image_url" db:"image_url"`
	Photographer    *string    `json:"photographer" db:"photographer"`
	PhotographerURL *string    `json:"photographer_url" db:"photographer_url"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// DestinationOrDefault returns the destination or def when it is unset or blank
func (t *Trip) DestinationOrDefault(def string) string {
	if t.Destination == nil || *t.Destination == "" {
		return def
	}
	return *t.Destination
}

// SetImage copies a photo attribution onto the trip
func (t *Trip) SetImage(img *DestinationImage) {
	if img == nil {
		return
	}
	t.ImageURL = &img.ImageURL
	t.Photographer = &img.Photographer
	t.PhotographerURL = &img.PhotographerURL
}

// Day is one calendar day of a trip itinerary
type Day struct {
	ID     uuid.UUID  `json:"id" db:"id"`
	TripID uuid.UUID  `json:"trip_id" db:"trip_id"`
	Date   *time.Time `json:"date" db:"date"`
	Title  *string    `json:"title" db:"title"`
	Order  int        `json:"order" db:"order"`
}

// Activity is a single planned item within a day
type Activity struct {
	ID          uuid.UUID `json:"id" db:"id"`
	DayID       uuid.UUID `json:"day_id" db:"day_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Time        *string   `json:"time" db:"time"` // HH:MM
	Duration    *int      `json:"duration" db:"duration"`
	Cost        *float64  `json:"cost" db:"cost"`
	Category    *string   `json:"category" db:"category"`
	Location    *string   `json:"location" db:"location"`
}

// DayWithActivities is a day together with its activities in insertion order
type DayWithActivities struct {
	Day
	Activities []Activity
}

// DestinationImage is a photo attribution from the photo provider
type DestinationImage struct {
	ImageURL        string `json:"image_url"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`
	PexelsURL       string `json:"pexels_url"`
	AvgColor        string `json:"avg_color,omitempty"`
}
