package solana

import (
	"context"
	"errors"
	"testing"

	"github.com/monopay/gateway/internal/config"
)

func TestGetFinalizedTransaction_InvalidSignature(t *testing.T) {
	// Malformed signatures are rejected before any network call, so a
	// bogus endpoint never gets hit.
	client := NewClient(config.SolanaConfig{RPCURL: "http://127.0.0.1:0"})

	tests := []struct {
		name      string
		signature string
	}{
		{"empty", ""},
		{"not base58", "!!!not-base58!!!"},
		{"too short", "5VERv8NMvzbJ"},
		{"wallet-sized value", "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := client.GetFinalizedTransaction(context.Background(), tt.signature)
			if record != nil {
				t.Errorf("GetFinalizedTransaction(%q) returned a record", tt.signature)
			}
			if !errors.Is(err, ErrInvalidSignature) {
				t.Errorf("GetFinalizedTransaction(%q) error = %v, want ErrInvalidSignature", tt.signature, err)
			}
		})
	}
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	client := NewClient(config.SolanaConfig{RPCURL: "http://127.0.0.1:0"})
	if client.timeout <= 0 {
		t.Errorf("NewClient() timeout = %v, want positive default", client.timeout)
	}
}
