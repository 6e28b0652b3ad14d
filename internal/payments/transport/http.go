package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/monopay/gateway/internal/auth"
	gateway "github.com/monopay/gateway/internal/gateway/domain"
	"github.com/monopay/gateway/internal/payments/domain"
	"github.com/monopay/gateway/internal/solana"
)

// Service defines the verification service interface for HTTP transport.
type Service interface {
	Verify(ctx context.Context, apiKey, signature string) (*domain.Receipt, error)
}

// Handler handles HTTP requests for payment verification.
type Handler struct {
	svc Service
}

// NewHandler creates a new verification HTTP handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the verification routes on a chi router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/verify", h.handleVerify)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	apiKey := auth.KeyFromRequest(r)
	if apiKey == "" {
		writeError(w, http.StatusBadRequest, "Missing API key")
		return
	}

	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TxSignature == "" {
		writeError(w, http.StatusBadRequest, "Missing transaction signature")
		return
	}

	receipt, err := h.svc.Verify(r.Context(), apiKey, req.TxSignature)
	if err != nil {
		h.writeVerifyError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, VerifyResponse{
		Success: true,
		Data: VerifyData{
			TxSignature:  receipt.Signature,
			ServiceID:    receipt.ServiceID,
			PayoutWallet: receipt.Wallet,
			Received:     receipt.Received,
		},
	})
}

func (h *Handler) writeVerifyError(w http.ResponseWriter, err error) {
	var insufficient *domain.InsufficientPaymentError

	switch {
	case errors.Is(err, gateway.ErrInvalidKey):
		writeError(w, http.StatusBadRequest, "Invalid or missing API key")
	case errors.Is(err, gateway.ErrRevokedKey):
		writeError(w, http.StatusBadRequest, "API key has been revoked")
	case errors.Is(err, gateway.ErrConfigNotFound):
		writeError(w, http.StatusBadRequest, "Project configuration not found")
	case errors.Is(err, gateway.ErrProjectNotFound):
		writeError(w, http.StatusBadRequest, "Project not found")
	case errors.Is(err, solana.ErrTxNotFound):
		writeError(w, http.StatusNotFound, "Transaction not found")
	case errors.Is(err, solana.ErrInvalidSignature):
		writeError(w, http.StatusBadRequest, "Invalid transaction signature")
	case errors.Is(err, domain.ErrTransactionFailed):
		writeError(w, http.StatusBadRequest, "Transaction failed on chain")
	case errors.Is(err, domain.ErrWalletNotInvolved):
		writeError(w, http.StatusBadRequest, "Payout wallet not involved in transaction")
	case errors.As(err, &insufficient):
		writeError(w, http.StatusBadRequest, insufficient.Error())
	case errors.Is(err, domain.ErrSignatureConsumed):
		writeError(w, http.StatusConflict, "Transaction signature already used")
	case errors.Is(err, domain.ErrLedgerTimeout):
		writeError(w, http.StatusGatewayTimeout, "Ledger request timed out")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
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
