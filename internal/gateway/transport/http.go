package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/monopay/gateway/internal/auth"
	"github.com/monopay/gateway/internal/gateway/domain"
)

// Service defines the resolver service interface for HTTP transport.
type Service interface {
	Resolve(ctx context.Context, apiKey string) (*domain.ServiceConfig, error)
}

// Handler handles HTTP requests for service-config resolution.
type Handler struct {
	svc Service
}

// NewHandler creates a new resolver HTTP handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the resolver routes on a chi router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/service/config", h.handleGetConfig)
}

func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	apiKey := auth.KeyFromRequest(r)
	if apiKey == "" {
		writeError(w, http.StatusBadRequest, "Missing API key")
		return
	}

	cfg, err := h.svc.Resolve(r.Context(), apiKey)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidKey):
			writeError(w, http.StatusBadRequest, "Invalid or missing API key")
		case errors.Is(err, domain.ErrRevokedKey):
			writeError(w, http.StatusBadRequest, "API key has been revoked")
		case errors.Is(err, domain.ErrConfigNotFound):
			writeError(w, http.StatusBadRequest, "Project configuration not found")
		case errors.Is(err, domain.ErrProjectNotFound):
			writeError(w, http.StatusBadRequest, "Project not found")
		default:
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, ConfigResponse{Success: true, Data: cfg})
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: message})
}
