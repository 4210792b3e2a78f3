package dto

// HealthResponse represents the response structure for health checks
type HealthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service,omitempty"`
	Environment string `json:"environment,omitempty"`
	Version     string `json:"version,omitempty"`
	Details     any    `json:"details,omitempty"`
}

// RootResponse is served on GET /
type RootResponse struct {
	Message     string `json:"message"`
	Version     string `json:"version"`
	Docs        string `json:"docs"`
	Environment string `json:"environment"`
}
