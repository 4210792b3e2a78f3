package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wanderai-backend/internal/common"
	"wanderai-backend/internal/itinerary"
	"wanderai-backend/internal/models"
)

const activityColumns = `a.id, a.day_id, a.title, a.description, to_char(a.time, 'HH24:MI'),
       a.duration, a.cost, a.category, a.location`

// ItineraryRepository reads and writes days and activities
type ItineraryRepository struct {
	pool TxBeginner
	q    DBTX
}

func NewItineraryRepository(db TxBeginner) *ItineraryRepository {
	return &ItineraryRepository{pool: db, q: db}
}

// WriteItinerary runs fn against a writer bound to a single transaction.
// Nothing is visible to other sessions until fn returns nil and the commit succeeds.
func (r *ItineraryRepository) WriteItinerary(ctx context.Context, fn func(w itinerary.Writer) error) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&ItineraryRepository{pool: r.pool, q: tx})
	})
}

// InsertDay stores a day and returns its id
func (r *ItineraryRepository) InsertDay(ctx context.Context, tripID uuid.UUID, order int, date *time.Time, title *string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.q.Exec(ctx,
		`INSERT INTO days (id, trip_id, date, title, "order") VALUES ($1, $2, $3, $4, $5)`,
		id, tripID, date, title, order,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert day: %w", err)
	}
	return id, nil
}

// InsertActivities stores all activities of a day with one multi-row insert.
// created_at increases by a microsecond per row to keep insertion order.
func (r *ItineraryRepository) InsertActivities(ctx context.Context, dayID uuid.UUID, activities []itinerary.ActivityPlan) error {
	if len(activities) == 0 {
		return nil
	}

	const cols = 10
	var sb strings.Builder
	sb.WriteString(`INSERT INTO activities (id, day_id, title, description, time, duration, cost, category, location, created_at) VALUES `)
	args := make([]any, 0, len(activities)*cols)
	now := time.Now().UTC()
	for i, a := range activities {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * cols
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, CAST($%d::text AS TIME), $%d, $%d, $%d, $%d, $%d)",
			n+1, n+2, n+3, n+4, n+5, n+6, n+7, n+8, n+9, n+10)
		args = append(args,
			uuid.New(), dayID, a.Title, a.Description, a.Time, a.Duration, a.Cost, a.Category, a.Location,
			now.Add(time.Duration(i)*time.Microsecond),
		)
	}

	if _, err := r.q.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert activities: %w", err)
	}
	return nil
}

// ListDays returns the trip's days ordered by "order", each with its activities.
func (r *ItineraryRepository) ListDays(ctx context.Context, tripID uuid.UUID) ([]models.DayWithActivities, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, trip_id, date, title, "order" FROM days WHERE trip_id = $1 ORDER BY "order", date`, tripID)
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	defer rows.Close()

	days := []models.DayWithActivities{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var d models.DayWithActivities
		if err := rows.Scan(&d.ID, &d.TripID, &d.Date, &d.Title, &d.Order); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		d.Activities = []models.Activity{}
		index[d.ID] = len(days)
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	if len(days) == 0 {
		return days, nil
	}

	activities, err := r.ListActivities(ctx, tripID)
	if err != nil {
		return nil, err
	}
	for _, a := range activities {
		if i, ok := index[a.DayID]; ok {
			days[i].Activities = append(days[i].Activities, a)
		}
	}
	return days, nil
}

func scanActivity(row scanner) (*models.Activity, error) {
	a := &models.Activity{}
	err := row.Scan(&a.ID, &a.DayID, &a.Title, &a.Description, &a.Time, &a.Duration, &a.Cost, &a.Category, &a.Location)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListActivities returns every activity of the trip ordered by day, then insertion.
func (r *ItineraryRepository) ListActivities(ctx context.Context, tripID uuid.UUID) ([]models.Activity, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+activityColumns+`
           FROM activities a
           JOIN days d ON d.id = a.day_id
          WHERE d.trip_id = $1
          ORDER BY d."order", a.created_at, a.id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// DayBelongsToTrip reports common.ErrNotFound when the day is not part of the trip
func (r *ItineraryRepository) DayBelongsToTrip(ctx context.Context, dayID, tripID uuid.UUID) error {
	var id uuid.UUID
	err := r.q.QueryRow(ctx, `SELECT id FROM days WHERE id = $1 AND trip_id = $2`, dayID, tripID).Scan(&id)
	if err != nil {
		return notFound(err, "get day")
	}
	return nil
}

// CreateActivity inserts a into the day given by a.DayID and fills in its id.
func (r *ItineraryRepository) CreateActivity(ctx context.Context, a *models.Activity) error {
	a.ID = uuid.New()
	_, err := r.q.Exec(ctx,
		`INSERT INTO activities (id, day_id, title, description, time, duration, cost, category, location, created_at)
         VALUES ($1, $2, $3, $4, CAST($5::text AS TIME), $6, $7, $8, $9, $10)`,
		a.ID, a.DayID, a.Title, a.Description, a.Time, a.Duration, a.Cost, a.Category, a.Location, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

// GetActivity looks up an activity through its day's trip.
func (r *ItineraryRepository) GetActivity(ctx context.Context, activityID, tripID uuid.UUID) (*models.Activity, error) {
	a, err := scanActivity(r.q.QueryRow(ctx,
		`SELECT `+activityColumns+`
           FROM activities a
           JOIN days d ON d.id = a.day_id
          WHERE a.id = $1 AND d.trip_id = $2`, activityID, tripID))
	if err != nil {
		return nil, notFound(err, "get activity")
	}
	return a, nil
}

// UpdateActivity writes every mutable column of a
func (r *ItineraryRepository) UpdateActivity(ctx context.Context, a *models.Activity) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE activities
            SET title = $2, description = $3, time = CAST($4::text AS TIME), duration = $5,
                cost = $6, category = $7, location = $8
          WHERE id = $1`,
		a.ID, a.Title, a.Description, a.Time, a.Duration, a.Cost, a.Category, a.Location,
	)
	if err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// DeleteActivity removes the activity when it belongs to the trip
func (r *ItineraryRepository) DeleteActivity(ctx context.Context, activityID, tripID uuid.UUID) error {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM activities a
          USING days d
          WHERE a.day_id = d.id AND a.id = $1 AND d.trip_id = $2`, activityID, tripID)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}
