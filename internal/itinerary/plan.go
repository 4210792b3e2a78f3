// Package itinerary turns trip parameters into a day-by-day plan and writes
// that plan into a trip.
package itinerary

import "time"

// ActivityPlan is one generated activity. Optional fields stay nil when the
// model leaves them out and are stored as NULL.
type ActivityPlan struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Time        *string  `json:"time,omitempty"` // HH:MM
	Duration    *int     `json:"duration,omitempty"`
	Cost        *float64 `json:"cost,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Location    *string  `json:"location,omitempty"`
}

// DayPlan is one generated day
type DayPlan struct {
	Title      string         `json:"title"`
	Activities []ActivityPlan `json:"activities"`
}

// Plan is the generated itinerary. Day order is authoritative.
type Plan struct {
	Days []DayPlan `json:"days"`
}

// ActivityCount returns the number of activities across all days
func (p Plan) ActivityCount() int {
	n := 0
	for _, d := range p.Days {
		n += len(d.Activities)
	}
	return n
}

// Request carries the trip parameters for generation
type Request struct {
	Destination string
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      float64
	Interests   []string
	ChatContext string
}
