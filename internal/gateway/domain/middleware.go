package domain

import (
	"context"
	"log/slog"
	"time"
)

// loggingService is the interface required for logging middleware.
type loggingService interface {
	Resolve(ctx context.Context, apiKey string) (*ServiceConfig, error)
}

// LoggingMiddleware returns a service middleware that logs all resolutions.
// The raw API key is never logged.
func LoggingMiddleware(logger *slog.Logger) func(loggingService) *loggingMiddleware {
	return func(next loggingService) *loggingMiddleware {
		return &loggingMiddleware{
			next:   next,
			logger: logger,
		}
	}
}

type loggingMiddleware struct {
	next   loggingService
	logger *slog.Logger
}

func (m *loggingMiddleware) Resolve(ctx context.Context, apiKey string) (*ServiceConfig, error) {
	start := time.Now()
	cfg, err := m.next.Resolve(ctx, apiKey)

	attrs := []any{
		"duration", time.Since(start),
		"error", err,
	}
	if cfg != nil {
		attrs = append(attrs, "project_id", cfg.ProjectID, "service_id", cfg.ServiceID)
	}
	m.logger.Debug("Resolve", attrs...)
	return cfg, err
}
