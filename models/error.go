package models

// MessageResponse is the body returned by the invitation endpoints
type MessageResponse struct {
	Message string `json:"message"`
}

// SearchResponse is the body returned by the search-activities endpoint
type SearchResponse struct {
	RelevantActivityIDs []string `json:"relevantActivityIds"`
}

// HealthCheckResponse returns the health check response, eg alive: true
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
