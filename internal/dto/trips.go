package dto

// CreateTripRequest represents the payload to create a trip
type CreateTripRequest struct {
	Title       string   `json:"title"`
	Destination *string  `json:"destination"`
	StartDate   *string  `json:"start_date"` // YYYY-MM-DD
	EndDate     *string  `json:"end_date"`   // YYYY-MM-DD
	Budget      *float64 `json:"budget"`
	Status      *string  `json:"status"` // defaults to draft
}

// UpdateTripRequest represents fields allowed to update a trip
// All fields are optional; only provided ones will be updated
type UpdateTripRequest struct {
	Title       *string  `json:"title"`
	Destination *string  `json:"destination"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	Budget      *float64 `json:"budget"`
	Status      *string  `json:"status"`
}

// TripResponse represents a trip object in responses
type TripResponse struct {
	ID              string   `json:"id"`
	UserID          string   `json:"user_id"`
	Title           string   `json:"title"`
	Destination     *string  `json:"destination"`
	StartDate       *string  `json:"start_date"`
	EndDate         *string  `json:"end_date"`
	Budget          *float64 `json:"budget"`
	Status          string   `json:"status"`
	ImageURL        *string  `json:"image_url"`
	Photographer    *string  `json:"photographer"`
	PhotographerURL *string  `json:"photographer_url"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

// ActivityRequest is used for both create and partial update of an activity
type ActivityRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Time        *string  `json:"time"` // HH:MM
	Duration    *int     `json:"duration"`
	Cost        *float64 `json:"cost"`
	Category    *string  `json:"category"`
	Location    *string  `json:"location"`
}

// ActivityResponse represents an activity in responses
type ActivityResponse struct {
	ID          string   `json:"id"`
	DayID       string   `json:"day_id"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Time        *string  `json:"time"`
	Duration    *int     `json:"duration"`
	Cost        *float64 `json:"cost"`
	Category    *string  `json:"category"`
	Location    *string  `json:"location"`
}

// ItineraryDay is a day with its activities
type ItineraryDay struct {
	ID         string             `json:"id"`
	Date       *string            `json:"date"`
	Title      *string            `json:"title"`
	Order      int                `json:"order"`
	Activities []ActivityResponse `json:"activities"`
}

// ItineraryResponse envelope
type ItineraryResponse struct {
	TripID string         `json:"trip_id"`
	Days   []ItineraryDay `json:"days"`
}

// GenerateItineraryRequest selects the chat session used as planning context
type GenerateItineraryRequest struct {
	ChatSessionID string `json:"chat_session_id"`
}

// GenerateItineraryResponse reports a finished generation
type GenerateItineraryResponse struct {
	Message     string `json:"message"`
	TripID      string `json:"trip_id"`
	DaysCreated int    `json:"days_created"`
	Fallback    bool   `json:"fallback"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}
