package domain

import "fmt"

// Receipt is the outcome of a successful payment verification.
type Receipt struct {
	Signature string `json:"signature"`
	// ServiceID is set by Verify; a bare VerifyTransfer has no service.
	ServiceID string `json:"serviceId,omitempty"`
	Wallet    string `json:"wallet"`
	Expected  string `json:"expectedLamports"`
	Received  string `json:"receivedLamports"`
	Slot      uint64 `json:"slot"`
}

// InsufficientPaymentError reports a transfer whose credited amount fell
// short of the required price. Amounts are decimal lamport strings.
type InsufficientPaymentError struct {
	Expected string
	Received string
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("insufficient payment: received %s lamports, expected %s", e.Received, e.Expected)
}
