// Package solana provides the ledger client used for payment verification.
package solana

import (
	"context"
	"errors"
)

// Ledger errors
var (
	ErrTxNotFound       = errors.New("transaction not found")
	ErrInvalidSignature = errors.New("invalid transaction signature")
)

// TransactionRecord is the gateway's view of a finalized transaction.
// It is a plain snapshot of authoritative ledger state: the account keys
// the transaction touched and the parallel pre/post lamport balances,
// one entry per key. Immutable once finalized.
type TransactionRecord struct {
	Signature string
	Slot      uint64
	// Err is nil when on-chain execution succeeded; otherwise it carries
	// the raw error object reported by the ledger.
	Err          any
	AccountKeys  []string // base58
	PreBalances  []uint64
	PostBalances []uint64
}

// Ledger fetches transactions at finalized commitment. Implementations must
// only return records that can no longer be rolled back by a fork.
type Ledger interface {
	GetFinalizedTransaction(ctx context.Context, signature string) (*TransactionRecord, error)
}
