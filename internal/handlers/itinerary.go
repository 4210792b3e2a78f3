package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"wanderai-backend/internal/common"
	"wanderai-backend/internal/dto"
	"wanderai-backend/internal/itinerary"
	"wanderai-backend/internal/models"
	"wanderai-backend/internal/utils"
)

const (
	defaultDestination = "Unknown"
	defaultBudget      = 1000.0
)

// TripReader loads a trip owned by a user
type TripReader interface {
	GetForUser(ctx context.Context, tripID, userID uuid.UUID) (*models.Trip, error)
}

// ItineraryStore is the day and activity persistence
type ItineraryStore interface {
	WriteItinerary(ctx context.Context, fn func(w itinerary.Writer) error) error
	ListDays(ctx context.Context, tripID uuid.UUID) ([]models.DayWithActivities, error)
	ListActivities(ctx context.Context, tripID uuid.UUID) ([]models.Activity, error)
	DayBelongsToTrip(ctx context.Context, dayID, tripID uuid.UUID) error
	CreateActivity(ctx context.Context, a *models.Activity) error
	GetActivity(ctx context.Context, activityID, tripID uuid.UUID) (*models.Activity, error)
	UpdateActivity(ctx context.Context, a *models.Activity) error
	DeleteActivity(ctx context.Context, activityID, tripID uuid.UUID) error
}

// ChatHistory reads the messages of a chat session
type ChatHistory interface {
	History(ctx context.Context, userID uuid.UUID, sessionID string, limit int) ([]models.ChatMessage, error)
}

// Planner produces an itinerary plan, falling back to a canned one on failure
type Planner interface {
	Generate(ctx context.Context, req itinerary.Request) itinerary.Result
}

// ItineraryHandler serves itinerary generation and activity editing
type ItineraryHandler struct {
	trips   TripReader
	days    ItineraryStore
	chat    ChatHistory
	planner Planner
	log     *slog.Logger
}

// NewItineraryHandler creates a new ItineraryHandler
func NewItineraryHandler(trips TripReader, days ItineraryStore, chat ChatHistory, planner Planner, log *slog.Logger) *ItineraryHandler {
	return &ItineraryHandler{trips: trips, days: days, chat: chat, planner: planner, log: log.With("component", "itinerary")}
}

func (h *ItineraryHandler) ownedTrip(w http.ResponseWriter, r *http.Request) (*models.User, *models.Trip, bool) {
	user, ok := requireUser(w, r)
	if !ok {
		return nil, nil, false
	}
	tripID, ok := utils.PathUUID(w, r, "trip_id")
	if !ok {
		return nil, nil, false
	}
	trip, err := h.trips.GetForUser(r.Context(), tripID, user.ID)
	if err != nil {
		utils.WriteError(w, r, h.log, missing(err, "Trip"))
		return nil, nil, false
	}
	return user, trip, true
}

// GetItinerary handles GET /v1/trips/{trip_id}/itinerary
// @Summary Get the trip itinerary
// @Tags itinerary
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.ItineraryResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/trips/{trip_id}/itinerary [get]
func (h *ItineraryHandler) GetItinerary(w http.ResponseWriter, r *http.Request) {
	_, trip, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}

	days, err := h.days.ListDays(r.Context(), trip.ID)
	if err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}

	resp := dto.ItineraryResponse{TripID: trip.ID.String(), Days: make([]dto.ItineraryDay, 0, len(days))}
	for _, d := range days {
		day := dto.ItineraryDay{
			ID:         d.ID.String(),
			Date:       utils.FormatOptionalDate(d.Date),
			Title:      d.Title,
			Order:      d.Order,
			Activities: make([]dto.ActivityResponse, 0, len(d.Activities)),
		}
		for i := range d.Activities {
			day.Activities = append(day.Activities, toActivityResponse(&d.Activities[i]))
		}
		resp.Days = append(resp.Days, day)
	}
	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

// GenerateItinerary handles POST /v1/trips/{trip_id}/itinerary
// @Summary Generate an itinerary from a chat session
// @Description Days are appended to any existing itinerary. When the model fails a one-day fallback plan is stored and fallback is true.
// @Tags itinerary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param payload body dto.GenerateItineraryRequest true "Chat session used as context"
// @Success 201 {object} dto.GenerateItineraryResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/trips/{trip_id}/itinerary [post]
func (h *ItineraryHandler) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	user, trip, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}

	var req dto.GenerateItineraryRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	if strings.TrimSpace(req.ChatSessionID) == "" {
		utils.WriteError(w, r, nil, common.Validation("chat_session_id is required", map[string]any{"field": "chat_session_id"}))
		return
	}

	messages, err := h.chat.History(r.Context(), user.ID, req.ChatSessionID, 0)
	if err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}
	contents := make([]string, 0, len(messages))
	for _, m := range messages {
		contents = append(contents, m.Content)
	}

	budget := defaultBudget
	if trip.Budget != nil && *trip.Budget != 0 {
		budget = *trip.Budget
	}

	result := h.planner.Generate(r.Context(), itinerary.Request{
		Destination: trip.DestinationOrDefault(defaultDestination),
		StartDate:   trip.StartDate,
		EndDate:     trip.EndDate,
		Budget:      budget,
		Interests:   user.Interests(),
		ChatContext: strings.Join(contents, " "),
	})

	var dayIDs []uuid.UUID
	err = h.days.WriteItinerary(r.Context(), func(wr itinerary.Writer) error {
		var err error
		dayIDs, err = itinerary.Persist(r.Context(), wr, trip.ID, result.Plan, trip.StartDate)
		return err
	})
	if err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}

	h.log.InfoContext(r.Context(), "itinerary stored",
		"trip_id", trip.ID, "days", len(dayIDs), "fallback", result.Fallback)
	utils.WriteJSONResponse(w, http.StatusCreated, dto.GenerateItineraryResponse{
		Message:     "Itinerary generated successfully",
		TripID:      trip.ID.String(),
		DaysCreated: len(dayIDs),
		Fallback:    result.Fallback,
	})
}

// ListActivities handles GET /v1/trips/{trip_id}/activities
// @Summary List all activities of a trip
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {array} dto.ActivityResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/trips/{trip_id}/activities [get]
func (h *ItineraryHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	_, trip, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}

	activities, err := h.days.ListActivities(r.Context(), trip.ID)
	if err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}
	items := make([]dto.ActivityResponse, 0, len(activities))
	for i := range activities {
		items = append(items, toActivityResponse(&activities[i]))
	}
	utils.WriteJSONResponse(w, http.StatusOK, items)
}

// applyActivity copies the provided request fields onto a
func applyActivity(a *models.Activity, req dto.ActivityRequest) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return common.Validation("title cannot be empty", map[string]any{"field": "title"})
		}
		a.Title = title
	}
	if req.Time != nil {
		if *req.Time != "" && !utils.ValidClockTime(*req.Time) {
			return common.Validation("time must be HH:MM", map[string]any{"field": "time"})
		}
		a.Time = req.Time
		if *req.Time == "" {
			a.Time = nil
		}
	}
	if req.Description != nil {
		a.Description = req.Description
	}
	if req.Duration != nil {
		a.Duration = req.Duration
	}
	if req.Cost != nil {
		a.Cost = req.Cost
	}
	if req.Category != nil {
		a.Category = req.Category
	}
	if req.Location != nil {
		a.Location = req.Location
	}
	return nil
}

// CreateActivity handles POST /v1/trips/{trip_id}/days/{day_id}/activities
// @Summary Add an activity to a day
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param day_id path string true "Day ID"
// @Param payload body dto.ActivityRequest true "Activity"
// @Success 201 {object} dto.ActivityResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/trips/{trip_id}/days/{day_id}/activities [post]
func (h *ItineraryHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	_, trip, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}
	dayID, ok := utils.PathUUID(w, r, "day_id")
	if !ok {
		return
	}

	var req dto.ActivityRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	if req.Title == nil {
		utils.WriteError(w, r, nil, common.Validation("title is required", map[string]any{"field": "title"}))
		return
	}
	activity := &models.Activity{DayID: dayID}
	if err := applyActivity(activity, req); err != nil {
		utils.WriteError(w, r, nil, err)
		return
	}

	if err := h.days.DayBelongsToTrip(r.Context(), dayID, trip.ID); err != nil {
		utils.WriteError(w, r, h.log, missing(err, "Day"))
		return
	}
	if err := h.days.CreateActivity(r.Context(), activity); err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, toActivityResponse(activity))
}

// UpdateActivity handles PUT /v1/trips/{trip_id}/activities/{activity_id}
// @Summary Update an activity
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param activity_id path string true "Activity ID"
// @Param payload body dto.ActivityRequest true "Fields to update"
// @Success 200 {object} dto.ActivityResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/trips/{trip_id}/activities/{activity_id} [put]
func (h *ItineraryHandler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	_, trip, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}
	activityID, ok := utils.PathUUID(w, r, "activity_id")
	if !ok {
		return
	}

	var req dto.ActivityRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	activity, err := h.days.GetActivity(r.Context(), activityID, trip.ID)
	if err != nil {
		utils.WriteError(w, r, h.log, missing(err, "Activity"))
		return
	}
	if err := applyActivity(activity, req); err != nil {
		utils.WriteError(w, r, nil, err)
		return
	}
	if err := h.days.UpdateActivity(r.Context(), activity); err != nil {
		utils.WriteError(w, r, h.log, missing(err, "Activity"))
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toActivityResponse(activity))
}

// DeleteActivity handles DELETE /v1/trips/{trip_id}/activities/{activity_id}
// @Summary Delete an activity
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param activity_id path string true "Activity ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/trips/{trip_id}/activities/{activity_id} [delete]
func (h *ItineraryHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	_, trip, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}
	activityID, ok := utils.PathUUID(w, r, "activity_id")
	if !ok {
		return
	}

	if err := h.days.DeleteActivity(r.Context(), activityID, trip.ID); err != nil {
		utils.WriteError(w, r, h.log, missing(err, "Activity"))
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Activity deleted successfully"})
}
