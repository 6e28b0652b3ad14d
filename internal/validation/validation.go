// Package validation provides input validation for the gateway.
package validation

import (
	"errors"
	"regexp"
)

// Base58 alphabet (no 0, O, I, l). Wallets are 32-byte keys, signatures
// 64-byte values; the encoded lengths below cover both ranges.
var (
	walletRegex    = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)
	signatureRegex = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{64,88}$`)
)

// ValidateWallet validates a base58 Solana account address.
// Matching is case- and format-sensitive; no normalization is applied.
func ValidateWallet(addr string) error {
	if addr == "" {
		return errors.New("wallet address cannot be empty")
	}
	if !walletRegex.MatchString(addr) {
		return errors.New("invalid wallet address: must be base58, 32-44 characters")
	}
	return nil
}

// ValidateSignature validates a base58 transaction signature.
func ValidateSignature(sig string) error {
	if sig == "" {
		return errors.New("transaction signature cannot be empty")
	}
	if !signatureRegex.MatchString(sig) {
		return errors.New("invalid transaction signature: must be base58, 64-88 characters")
	}
	return nil
}
