package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderai-backend/internal/chat"
	"wanderai-backend/internal/common"
	"wanderai-backend/internal/itinerary"
	"wanderai-backend/internal/models"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func strp(s string) *string { return &s }

func tripRow(id, userID uuid.UUID, title string) []any {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	budget := 1200.0
	return []any{
		id, userID, title, strp("Paris"), (*time.Time)(nil), (*time.Time)(nil), &budget, "draft",
		(*string)(nil), (*string)(nil), (*string)(nil), now, now,
	}
}

var tripCols = []string{
	"id", "user_id", "title", "destination", "start_date", "end_date", "budget", "status",
	"image_url", "photographer", "photographer_url", "created_at", "updated_at",
}

func TestTripGetForUser_FiltersByOwner(t *testing.T) {
	mock := newMock(t)
	repo := NewTripRepository(mock)
	tripID, userID := uuid.New(), uuid.New()

	mock.ExpectQuery(`FROM trips WHERE id = \$1 AND user_id = \$2`).
		WithArgs(tripID, userID).
		WillReturnRows(pgxmock.NewRows(tripCols).AddRow(tripRow(tripID, userID, "Spring break")...))

	trip, err := repo.GetForUser(context.Background(), tripID, userID)
	require.NoError(t, err)
	assert.Equal(t, "Spring break", trip.Title)
	assert.Equal(t, "Paris", *trip.Destination)
	assert.Nil(t, trip.ImageURL)
}

func TestTripGetForUser_ForeignTripIsNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewTripRepository(mock)
	tripID, userID := uuid.New(), uuid.New()

	mock.ExpectQuery(`FROM trips WHERE id = \$1 AND user_id = \$2`).
		WithArgs(tripID, userID).
		WillReturnRows(pgxmock.NewRows(tripCols))

	_, err := repo.GetForUser(context.Background(), tripID, userID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestTripCreate_DefaultsStatus(t *testing.T) {
	mock := newMock(t)
	repo := NewTripRepository(mock)
	trip := &models.Trip{UserID: uuid.New(), Title: "Weekend"}

	mock.ExpectExec(`INSERT INTO trips`).
		WithArgs(pgxmock.AnyArg(), trip.UserID, "Weekend", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), "draft", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), trip))
	assert.NotEqual(t, uuid.Nil, trip.ID)
	assert.Equal(t, models.TripStatusDraft, trip.Status)
	assert.False(t, trip.CreatedAt.IsZero())
}

func TestTripDelete_NoRowsIsNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewTripRepository(mock)
	tripID, userID := uuid.New(), uuid.New()

	mock.ExpectExec(`DELETE FROM trips WHERE id = \$1 AND user_id = \$2`).
		WithArgs(tripID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), tripID, userID), common.ErrNotFound)
}

func TestTripList_WrapsDriverError(t *testing.T) {
	mock := newMock(t)
	repo := NewTripRepository(mock)

	mock.ExpectQuery(`FROM trips WHERE user_id = \$1 ORDER BY created_at DESC`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	_, err := repo.ListByUser(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list trips: db down")
}

// activityArgs matches a multi-row activity insert, checking only each row's title.
func activityArgs(titles ...string) []any {
	args := make([]any, 0, len(titles)*10)
	for _, title := range titles {
		args = append(args, pgxmock.AnyArg(), pgxmock.AnyArg(), title)
		for i := 0; i < 7; i++ {
			args = append(args, pgxmock.AnyArg())
		}
	}
	return args
}

func TestWriteItinerary_CommitsOnce(t *testing.T) {
	mock := newMock(t)
	repo := NewItineraryRepository(mock)
	tripID := uuid.New()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	plan := itinerary.Fallback("Rome")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO days`).
		WithArgs(pgxmock.AnyArg(), tripID, &start, strp("Day 1: Arrival & Exploration"), 1).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO activities .* VALUES \(\$1, .*\), \(\$11, `).
		WithArgs(activityArgs("Breakfast at hotel", "City tour of Rome")...).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	var dayIDs []uuid.UUID
	err := repo.WriteItinerary(context.Background(), func(w itinerary.Writer) error {
		var err error
		dayIDs, err = itinerary.Persist(context.Background(), w, tripID, plan, &start)
		return err
	})
	require.NoError(t, err)
	assert.Len(t, dayIDs, 1)
}

func TestWriteItinerary_RollsBackOnFailure(t *testing.T) {
	mock := newMock(t)
	repo := NewItineraryRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO days`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO activities`).
		WithArgs(activityArgs("Breakfast at hotel", "City tour of Rome")...).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.WriteItinerary(context.Background(), func(w itinerary.Writer) error {
		_, err := itinerary.Persist(context.Background(), w, uuid.New(), itinerary.Fallback("Rome"), nil)
		return err
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constraint violation")
}

func TestDeleteActivity_ScopedThroughDay(t *testing.T) {
	mock := newMock(t)
	repo := NewItineraryRepository(mock)
	activityID, tripID := uuid.New(), uuid.New()

	mock.ExpectExec(`DELETE FROM activities a\s+USING days d`).
		WithArgs(activityID, tripID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.DeleteActivity(context.Background(), activityID, tripID), common.ErrNotFound)
}

func TestListDays_GroupsActivities(t *testing.T) {
	mock := newMock(t)
	repo := NewItineraryRepository(mock)
	tripID, day1, day2 := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`FROM days WHERE trip_id = \$1`).
		WithArgs(tripID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "trip_id", "date", "title", "order"}).
			AddRow(day1, tripID, (*time.Time)(nil), strp("One"), 1).
			AddRow(day2, tripID, (*time.Time)(nil), strp("Two"), 2))

	actCols := []string{"id", "day_id", "title", "description", "time", "duration", "cost", "category", "location"}
	mock.ExpectQuery(`FROM activities a\s+JOIN days d`).
		WithArgs(tripID).
		WillReturnRows(pgxmock.NewRows(actCols).
			AddRow(uuid.New(), day1, "Breakfast", (*string)(nil), strp("08:00"), (*int)(nil), (*float64)(nil), (*string)(nil), (*string)(nil)).
			AddRow(uuid.New(), day1, "Museum", (*string)(nil), (*string)(nil), (*int)(nil), (*float64)(nil), (*string)(nil), (*string)(nil)))

	days, err := repo.ListDays(context.Background(), tripID)
	require.NoError(t, err)
	require.Len(t, days, 2)
	require.Len(t, days[0].Activities, 2)
	assert.Equal(t, "Breakfast", days[0].Activities[0].Title)
	assert.Equal(t, "08:00", *days[0].Activities[0].Time)
	assert.NotNil(t, days[1].Activities)
	assert.Empty(t, days[1].Activities)
}

func TestExpenseCreate_DefaultsCurrency(t *testing.T) {
	mock := newMock(t)
	repo := NewExpenseRepository(mock)
	e := &models.Expense{TripID: uuid.New(), Category: "food", Amount: 12.5, Date: time.Now()}

	mock.ExpectExec(`INSERT INTO expenses`).
		WithArgs(pgxmock.AnyArg(), e.TripID, "food", 12.5, "USD", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), e))
	assert.Equal(t, "USD", e.Currency)
}

func TestChatInTx_InsertsBothMessages(t *testing.T) {
	mock := newMock(t)
	repo := NewChatRepository(mock)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO chat_messages`).
		WithArgs(pgxmock.AnyArg(), userID, "s1", "user", "hi", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO chat_messages`).
		WithArgs(pgxmock.AnyArg(), userID, "s1", "assistant", "hello", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := repo.InTx(context.Background(), func(s chat.Store) error {
		if err := s.InsertMessage(context.Background(), &models.ChatMessage{UserID: userID, SessionID: "s1", Role: "user", Content: "hi"}); err != nil {
			return err
		}
		return s.InsertMessage(context.Background(), &models.ChatMessage{UserID: userID, SessionID: "s1", Role: "assistant", Content: "hello"})
	})
	require.NoError(t, err)
}

func TestChatRecentMessages_NewestFirstWithLimit(t *testing.T) {
	mock := newMock(t)
	repo := NewChatRepository(mock)
	userID := uuid.New()

	mock.ExpectQuery(`ORDER BY timestamp DESC, id DESC\s+LIMIT \$3`).
		WithArgs(userID, "s1", 10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "session_id", "role", "content", "timestamp", "extra_metadata"}))

	msgs, err := repo.RecentMessages(context.Background(), userID, "s1", 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestUserGetByFirebaseUID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`FROM users WHERE firebase_uid = \$1`).
		WithArgs("uid-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "firebase_uid", "email", "display_name", "preferences", "created_at", "updated_at"}))

	_, err := repo.GetByFirebaseUID(context.Background(), "uid-1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUserCreate_EmailTakenIsConflict(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "google:1234", "ana@example.com", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{FirebaseUID: "google:1234", Email: "ana@example.com"})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestDestinationSearch_PassesQueryAndLimit(t *testing.T) {
	mock := newMock(t)
	repo := NewDestinationRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`FROM destinations\s+WHERE \$1 = ''`).
		WithArgs("ital", 20).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "country", "description", "budget", "attractions", "image_url", "created_at"}).
			AddRow(uuid.New(), "Rome", strp("Italy"), strp("Eternal city"), (*float64)(nil), []string{"Colosseum"}, (*string)(nil), now))

	got, err := repo.Search(context.Background(), "ital", 20)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rome", got[0].Name)
	assert.Equal(t, []string{"Colosseum"}, got[0].Attractions)
}
