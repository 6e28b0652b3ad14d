package domain

import (
	"context"
	"log/slog"
	"time"
)

// loggingService is the interface required for logging middleware.
type loggingService interface {
	Verify(ctx context.Context, apiKey, signature string) (*Receipt, error)
	VerifyTransfer(ctx context.Context, signature, wallet string, priceLamports uint64) (*Receipt, error)
}

// LoggingMiddleware returns a service middleware that logs all
// verifications. The raw API key is never logged.
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

func (m *loggingMiddleware) Verify(ctx context.Context, apiKey, signature string) (*Receipt, error) {
	start := time.Now()
	receipt, err := m.next.Verify(ctx, apiKey, signature)

	attrs := []any{
		"signature", signature,
		"duration", time.Since(start),
		"error", err,
	}
	if receipt != nil {
		attrs = append(attrs, "wallet", receipt.Wallet, "received", receipt.Received, "slot", receipt.Slot)
	}
	m.logger.Info("Verify", attrs...)
	return receipt, err
}

func (m *loggingMiddleware) VerifyTransfer(ctx context.Context, signature, wallet string, priceLamports uint64) (*Receipt, error) {
	start := time.Now()
	receipt, err := m.next.VerifyTransfer(ctx, signature, wallet, priceLamports)

	m.logger.Debug("VerifyTransfer",
		"signature", signature,
		"wallet", wallet,
		"duration", time.Since(start),
		"error", err,
	)
	return receipt, err
}
