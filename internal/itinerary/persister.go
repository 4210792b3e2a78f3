package itinerary

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Writer stores itinerary rows. A day is inserted and gets its id before any
// of its activities are written.
type Writer interface {
	InsertDay(ctx context.Context, tripID uuid.UUID, order int, date *time.Time, title *string) (uuid.UUID, error)
	InsertActivities(ctx context.Context, dayID uuid.UUID, activities []ActivityPlan) error
}

// Persist writes plan into trip tripID. Day i (1-based) gets order i and date
// start+(i-1) days, or a nil date when start is nil. Calling Persist twice
// appends a second set of days; existing rows are never replaced.
// It returns the ids of the created days in plan order.
func Persist(ctx context.Context, w Writer, tripID uuid.UUID, plan Plan, start *time.Time) ([]uuid.UUID, error) {
	dayIDs := make([]uuid.UUID, 0, len(plan.Days))
	for i, day := range plan.Days {
		order := i + 1

		var date *time.Time
		if start != nil {
			d := start.AddDate(0, 0, i)
			date = &d
		}

		var title *string
		if day.Title != "" {
			t := day.Title
			title = &t
		}

		dayID, err := w.InsertDay(ctx, tripID, order, date, title)
		if err != nil {
			return nil, fmt.Errorf("insert day %d: %w", order, err)
		}

		if len(day.Activities) > 0 {
			if err := w.InsertActivities(ctx, dayID, day.Activities); err != nil {
				return nil, fmt.Errorf("insert activities for day %d: %w", order, err)
			}
		}
		dayIDs = append(dayIDs, dayID)
	}
	return dayIDs, nil
}
