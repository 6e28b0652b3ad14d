package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/monopay/gateway/internal/config"
	"github.com/monopay/gateway/internal/observability/metrics"
)

// Client implements Ledger against a Solana JSON-RPC endpoint.
type Client struct {
	rpc     *rpc.Client
	timeout time.Duration
}

// NewClient creates a ledger client from configuration. The client is built
// once at startup and shared; it is safe for concurrent use.
func NewClient(cfg config.SolanaConfig) *Client {
	timeout := time.Duration(cfg.FetchTimeout) * time.Second
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		rpc:     rpc.New(cfg.RPCURL),
		timeout: timeout,
	}
}

// GetFinalizedTransaction fetches a transaction at finalized commitment.
// Weaker commitment levels can still be rolled back, so they are never used
// here. A context deadline bounds the round-trip; the caller can tell a
// timeout apart via context.DeadlineExceeded.
func (c *Client) GetFinalizedTransaction(ctx context.Context, signature string) (*TransactionRecord, error) {
	sig, err := solanago.SignatureFromBase58(signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	maxVersion := uint64(0)
	out, err := c.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Commitment:                     rpc.CommitmentFinalized,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	metrics.LedgerFetch(time.Since(start), err)

	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, ErrTxNotFound
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("fetching transaction: %w", ctx.Err())
		}
		return nil, fmt.Errorf("fetching transaction: %w", err)
	}
	if out == nil || out.Meta == nil {
		return nil, ErrTxNotFound
	}

	tx, err := out.Transaction.GetTransaction()
	if err != nil {
		return nil, fmt.Errorf("decoding transaction: %w", err)
	}

	// Account keys from the message, extended by address-table lookups for
	// v0 transactions: writable first, then readonly, matching the balance
	// array ordering the ledger reports.
	keys := make([]string, 0, len(tx.Message.AccountKeys)+
		len(out.Meta.LoadedAddresses.Writable)+len(out.Meta.LoadedAddresses.ReadOnly))
	for _, k := range tx.Message.AccountKeys {
		keys = append(keys, k.String())
	}
	for _, k := range out.Meta.LoadedAddresses.Writable {
		keys = append(keys, k.String())
	}
	for _, k := range out.Meta.LoadedAddresses.ReadOnly {
		keys = append(keys, k.String())
	}

	return &TransactionRecord{
		Signature:    signature,
		Slot:         out.Slot,
		Err:          out.Meta.Err,
		AccountKeys:  keys,
		PreBalances:  out.Meta.PreBalances,
		PostBalances: out.Meta.PostBalances,
	}, nil
}
