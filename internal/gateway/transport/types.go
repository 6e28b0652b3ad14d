// Package transport provides HTTP handlers for the resolver domain.
package transport

import "github.com/monopay/gateway/internal/gateway/domain"

// ConfigResponse is the success envelope for GET /service/config.
type ConfigResponse struct {
	Success bool                  `json:"success"`
	Data    *domain.ServiceConfig `json:"data"`
}

// ErrorResponse is the failure envelope shared by all gateway endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
