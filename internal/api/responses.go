package api

type ErrorResponse struct {
	Error string `json:"error" example:"client not found"`
}

type MessageResponse struct {
	Message string `json:"message" example:"client S001 deleted"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type ValidationErrorResponse struct {
	Error   string            `json:"error" example:"validation failed"`
	Details []ValidationError `json:"details"`
}
