package handlers

import (
	"errors"
	"net/http"

	"wanderai-backend/internal/common"
	"wanderai-backend/internal/dto"
	"wanderai-backend/internal/models"
	"wanderai-backend/internal/utils"
)

// missing turns a repository miss into a 404 naming resource
func missing(err error, resource string) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.NotFound(resource)
	}
	return err
}

// requireUser reads the authenticated user set by AuthMiddleware
func requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := utils.UserFromContext(r.Context())
	if !ok {
		utils.WriteError(w, r, nil, common.Unauthorized("Invalid user context", nil))
		return nil, false
	}
	return user, true
}

func toUserResponse(u *models.User) dto.UserResponse {
	prefs := u.Preferences
	if prefs == nil {
		prefs = map[string]any{}
	}
	return dto.UserResponse{
		ID:          u.ID.String(),
		FirebaseUID: u.FirebaseUID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Preferences: prefs,
		CreatedAt:   utils.FormatTimestamp(u.CreatedAt),
		UpdatedAt:   utils.FormatTimestamp(u.UpdatedAt),
	}
}

func toTripResponse(t *models.Trip) dto.TripResponse {
	return dto.TripResponse{
		ID:              t.ID.String(),
		UserID:          t.UserID.String(),
		Title:           t.Title,
		Destination:     t.Destination,
		StartDate:       utils.FormatOptionalDate(t.StartDate),
		EndDate:         utils.FormatOptionalDate(t.EndDate),
		Budget:          t.Budget,
		Status:          t.Status,
		ImageURL:        t.ImageURL,
		Photographer:    t.Photographer,
		PhotographerURL: t.PhotographerURL,
		CreatedAt:       utils.FormatTimestamp(t.CreatedAt),
		UpdatedAt:       utils.FormatTimestamp(t.UpdatedAt),
	}
}

func toActivityResponse(a *models.Activity) dto.ActivityResponse {
	return dto.ActivityResponse{
		ID:          a.ID.String(),
		DayID:       a.DayID.String(),
		Title:       a.Title,
		Description: a.Description,
		Time:        a.Time,
		Duration:    a.Duration,
		Cost:        a.Cost,
		Category:    a.Category,
		Location:    a.Location,
	}
}

func toExpenseResponse(e *models.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:          e.ID.String(),
		TripID:      e.TripID.String(),
		Category:    e.Category,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Date:        utils.FormatDate(e.Date),
		Description: e.Description,
		CreatedAt:   utils.FormatTimestamp(e.CreatedAt),
	}
}

func toDestinationResponse(d *models.Destination) dto.DestinationResponse {
	attractions := d.Attractions
	if attractions == nil {
		attractions = []string{}
	}
	return dto.DestinationResponse{
		ID:          d.ID.String(),
		Name:        d.Name,
		Country:     d.Country,
		Description: d.Description,
		Budget:      d.Budget,
		Attractions: attractions,
		ImageURL:    d.ImageURL,
		CreatedAt:   utils.FormatTimestamp(d.CreatedAt),
	}
}
