package dto

// DestinationResponse is a catalog entry
type DestinationResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Country     *string  `json:"country"`
	Description *string  `json:"description"`
	Budget      *float64 `json:"budget"`
	Attractions []string `json:"attractions"`
	ImageURL    *string  `json:"image_url"`
	CreatedAt   string   `json:"created_at"`
}
