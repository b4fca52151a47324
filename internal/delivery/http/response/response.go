package response

import "github.com/user/sitekit/internal/entity"

type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// AuditResponse wraps the most recent validation result with its counts.
type AuditResponse struct {
	Source   string                  `json:"source"`
	Errors   int                     `json:"errors"`
	Warnings int                     `json:"warnings"`
	Info     int                     `json:"info"`
	Result   entity.ValidationResult `json:"result"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
