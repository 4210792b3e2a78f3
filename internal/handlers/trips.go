package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"wanderai-backend/internal/common"
	"wanderai-backend/internal/dto"
	"wanderai-backend/internal/models"
	"wanderai-backend/internal/utils"
)

// TripStore is the trip persistence used by the handlers
type TripStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error)
	GetForUser(ctx context.Context, tripID, userID uuid.UUID) (*models.Trip, error)
	Create(ctx context.Context, t *models.Trip) error
	Update(ctx context.Context, t *models.Trip) error
	Delete(ctx context.Context, tripID, userID uuid.UUID) error
}

// ImageFinder looks up a photo for a destination
type ImageFinder interface {
	DestinationImage(ctx context.Context, destination string) (*models.DestinationImage, error)
}

// TripsHandler manages trip-related endpoints
type TripsHandler struct {
	trips  TripStore
	images ImageFinder
	log    *slog.Logger
}

// NewTripsHandler creates a new TripsHandler. images may be nil, in which
// case trips are stored without photos.
func NewTripsHandler(trips TripStore, images ImageFinder, log *slog.Logger) *TripsHandler {
	return &TripsHandler{trips: trips, images: images, log: log.With("component", "trips")}
}

// loadTrip fetches the caller's trip named by the trip_id path value and
// writes the error response itself when that fails.
func (h *TripsHandler) loadTrip(w http.ResponseWriter, r *http.Request) (*models.Trip, bool) {
	user, ok := requireUser(w, r)
	if !ok {
		return nil, false
	}
	tripID, ok := utils.PathUUID(w, r, "trip_id")
	if !ok {
		return nil, false
	}
	trip, err := h.trips.GetForUser(r.Context(), tripID, user.ID)
	if err != nil {
		utils.WriteError(w, r, h.log, missing(err, "Trip"))
		return nil, false
	}
	return trip, true
}

// lookupImage never fails the request; a missing photo leaves the trip as is.
func (h *TripsHandler) lookupImage(ctx context.Context, trip *models.Trip) {
	if h.images == nil || trip.Destination == nil || strings.TrimSpace(*trip.Destination) == "" {
		return
	}
	img, err := h.images.DestinationImage(ctx, *trip.Destination)
	if err != nil {
		h.log.WarnContext(ctx, "destination image lookup failed", "destination", *trip.Destination, "error", err)
		return
	}
	trip.SetImage(img)
	h.log.InfoContext(ctx, "fetched destination image", "destination", *trip.Destination)
}

// ListTrips handles GET /v1/trips
// @Summary List trips
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TripResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/trips [get]
func (h *TripsHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	trips, err := h.trips.ListByUser(r.Context(), user.ID)
	if err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}

	items := make([]dto.TripResponse, 0, len(trips))
	for i := range trips {
		items = append(items, toTripResponse(&trips[i]))
	}
	utils.WriteJSONResponse(w, http.StatusOK, items)
}

// CreateTrip handles POST /v1/trips
// @Summary Create a new trip
// @Description The destination photo is looked up on Pexels; a failed lookup leaves the image fields null.
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateTripRequest true "Trip payload"
// @Success 201 {object} dto.TripResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/trips [post]
func (h *TripsHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateTripRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		utils.WriteError(w, r, nil, common.Validation("title is required", map[string]any{"field": "title"}))
		return
	}

	startAt, err := utils.ParseOptionalDate(req.StartDate)
	if err != nil {
		utils.WriteError(w, r, nil, common.Validation("start_date must be YYYY-MM-DD", map[string]any{"field": "start_date"}))
		return
	}
	endAt, err := utils.ParseOptionalDate(req.EndDate)
	if err != nil {
		utils.WriteError(w, r, nil, common.Validation("end_date must be YYYY-MM-DD", map[string]any{"field": "end_date"}))
		return
	}

	trip := &models.Trip{
		UserID:      user.ID,
		Title:       req.Title,
		Destination: req.Destination,
		StartDate:   startAt,
		EndDate:     endAt,
		Budget:      req.Budget,
	}
	if req.Status != nil {
		trip.Status = strings.TrimSpace(*req.Status)
	}
	h.lookupImage(r.Context(), trip)

	if err := h.trips.Create(r.Context(), trip); err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, toTripResponse(trip))
}

// GetTrip handles GET /v1/trips/{trip_id}
// @Summary Get trip detail
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.TripResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/trips/{trip_id} [get]
func (h *TripsHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.loadTrip(w, r)
	if !ok {
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toTripResponse(trip))
}

// UpdateTrip handles PUT /v1/trips/{trip_id}
// @Summary Update a trip
// @Description Only provided fields change. A new destination triggers a new photo lookup.
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param payload body dto.UpdateTripRequest true "Fields to update"
// @Success 200 {object} dto.TripResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/trips/{trip_id} [put]
func (h *TripsHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.loadTrip(w, r)
	if !ok {
		return
	}

	var req dto.UpdateTripRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			utils.WriteError(w, r, nil, common.Validation("title cannot be empty", map[string]any{"field": "title"}))
			return
		}
		trip.Title = title
	}
	if req.StartDate != nil {
		startAt, err := utils.ParseOptionalDate(req.StartDate)
		if err != nil {
			utils.WriteError(w, r, nil, common.Validation("start_date must be YYYY-MM-DD", map[string]any{"field": "start_date"}))
			return
		}
		trip.StartDate = startAt
	}
	if req.EndDate != nil {
		endAt, err := utils.ParseOptionalDate(req.EndDate)
		if err != nil {
			utils.WriteError(w, r, nil, common.Validation("end_date must be YYYY-MM-DD", map[string]any{"field": "end_date"}))
			return
		}
		trip.EndDate = endAt
	}
	if req.Budget != nil {
		trip.Budget = req.Budget
	}
	if req.Status != nil {
		trip.Status = strings.TrimSpace(*req.Status)
	}
	if req.Destination != nil && (trip.Destination == nil || *trip.Destination != *req.Destination) {
		trip.Destination = req.Destination
		h.lookupImage(r.Context(), trip)
	}

	if err := h.trips.Update(r.Context(), trip); err != nil {
		utils.WriteError(w, r, h.log, missing(err, "Trip"))
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toTripResponse(trip))
}

// DeleteTrip handles DELETE /v1/trips/{trip_id}
// @Summary Delete a trip
// @Tags trips
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 204
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/trips/{trip_id} [delete]
func (h *TripsHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID, ok := utils.PathUUID(w, r, "trip_id")
	if !ok {
		return
	}

	if err := h.trips.Delete(r.Context(), tripID, user.ID); err != nil {
		utils.WriteError(w, r, h.log, missing(err, "Trip"))
		return
	}
	utils.WriteNoContent(w)
}
