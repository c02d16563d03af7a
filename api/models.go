package api

import "encoding/json"

// ErrorResponse is returned for all error cases.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned from GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// SummaryResponse is returned from GET /api/summary. Each field carries the
// raw upstream payload, byte-for-byte what the corresponding individual
// endpoint returns for the same token.
type SummaryResponse struct {
	Profile   json.RawMessage `json:"profile"`
	Positions json.RawMessage `json:"positions"`
	Holdings  json.RawMessage `json:"holdings"`
}
