package domain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	gateway "github.com/monopay/gateway/internal/gateway/domain"
	"github.com/monopay/gateway/internal/observability/metrics"
	"github.com/monopay/gateway/internal/solana"
	"github.com/monopay/gateway/internal/storage"
	"github.com/monopay/gateway/internal/validation"
)

var (
	// ErrTransactionFailed means the transaction is on chain but its
	// execution failed, so no balance movement can be trusted.
	ErrTransactionFailed = errors.New("transaction failed on chain")
	// ErrWalletNotInvolved means the payout wallet does not appear in the
	// transaction's account keys at all.
	ErrWalletNotInvolved = errors.New("wallet not involved in transaction")
	// ErrSignatureConsumed means this signature was already accepted as
	// payment for the same service.
	ErrSignatureConsumed = errors.New("signature already consumed")
	// ErrLedgerTimeout means the ledger did not answer within the fetch
	// timeout.
	ErrLedgerTimeout = errors.New("ledger fetch timed out")
)

// ConfigResolver resolves an API key to its service configuration.
type ConfigResolver interface {
	Resolve(ctx context.Context, apiKey string) (*gateway.ServiceConfig, error)
}

// ReceiptStore is the minimal storage interface the verifier needs.
type ReceiptStore interface {
	RecordReceipt(ctx context.Context, r *storage.Receipt) error
	GetReceipt(ctx context.Context, serviceID, signature string) (*storage.Receipt, error)
}

// Service verifies Solana payments against resolved service configs.
type Service struct {
	ledger   solana.Ledger
	resolver ConfigResolver
	receipts ReceiptStore
}

// NewService creates a payment verification service.
func NewService(ledger solana.Ledger, resolver ConfigResolver, receipts ReceiptStore) *Service {
	return &Service{ledger: ledger, resolver: resolver, receipts: receipts}
}

// Verify resolves the caller's service config from its API key, then checks
// that the signed transaction paid at least the configured price to the
// configured payout wallet. The wallet and price always come from the
// resolved config, never from the caller. A signature is accepted at most
// once per service.
func (s *Service) Verify(ctx context.Context, apiKey, signature string) (*Receipt, error) {
	cfg, err := s.resolver.Resolve(ctx, apiKey)
	if err != nil {
		metrics.PaymentVerify("resolve_failed")
		return nil, err
	}

	if _, err := s.receipts.GetReceipt(ctx, cfg.ServiceID, signature); err == nil {
		metrics.PaymentVerify("replayed")
		return nil, ErrSignatureConsumed
	} else if !errors.Is(err, storage.ErrNotFound) {
		metrics.PaymentVerify("error")
		return nil, fmt.Errorf("checking receipt: %w", err)
	}

	receipt, err := s.VerifyTransfer(ctx, signature, cfg.PayoutWallet, cfg.PriceLamports)
	if err != nil {
		return nil, err
	}
	receipt.ServiceID = cfg.ServiceID

	err = s.receipts.RecordReceipt(ctx, &storage.Receipt{
		ServiceID:        cfg.ServiceID,
		Signature:        signature,
		PayoutWallet:     cfg.PayoutWallet,
		ReceivedLamports: receipt.Received,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			// A concurrent request won the race for this signature.
			metrics.PaymentVerify("replayed")
			return nil, ErrSignatureConsumed
		}
		metrics.PaymentVerify("error")
		return nil, fmt.Errorf("recording receipt: %w", err)
	}

	return receipt, nil
}

// VerifyTransfer checks that the finalized transaction with the given
// signature credited at least priceLamports to wallet. The on-chain error
// status is checked before any balance math, so a failed transaction is
// rejected even when the balance delta would have sufficed.
func (s *Service) VerifyTransfer(ctx context.Context, signature, wallet string, priceLamports uint64) (*Receipt, error) {
	if err := validation.ValidateSignature(signature); err != nil {
		metrics.PaymentVerify("invalid_signature")
		return nil, fmt.Errorf("%w: %v", solana.ErrInvalidSignature, err)
	}

	tx, err := s.ledger.GetFinalizedTransaction(ctx, signature)
	if err != nil {
		switch {
		case errors.Is(err, solana.ErrTxNotFound), errors.Is(err, solana.ErrInvalidSignature):
			metrics.PaymentVerify("not_found")
			return nil, err
		case errors.Is(err, context.DeadlineExceeded):
			metrics.PaymentVerify("timeout")
			return nil, fmt.Errorf("%w: %v", ErrLedgerTimeout, err)
		default:
			metrics.PaymentVerify("error")
			return nil, fmt.Errorf("fetching transaction: %w", err)
		}
	}

	if tx.Err != nil {
		metrics.PaymentVerify("failed_on_chain")
		return nil, ErrTransactionFailed
	}

	idx := -1
	for i, key := range tx.AccountKeys {
		if key == wallet {
			idx = i
			break
		}
	}
	if idx < 0 || idx >= len(tx.PreBalances) || idx >= len(tx.PostBalances) {
		metrics.PaymentVerify("wallet_not_involved")
		return nil, ErrWalletNotInvolved
	}

	// post - pre can be negative, so the delta lives in a big.Int rather
	// than a uint64.
	pre := new(big.Int).SetUint64(tx.PreBalances[idx])
	post := new(big.Int).SetUint64(tx.PostBalances[idx])
	delta := new(big.Int).Sub(post, pre)
	price := new(big.Int).SetUint64(priceLamports)

	if delta.Cmp(price) < 0 {
		metrics.PaymentVerify("insufficient")
		return nil, &InsufficientPaymentError{
			Expected: price.String(),
			Received: delta.String(),
		}
	}

	metrics.PaymentVerify("ok")
	return &Receipt{
		Signature: signature,
		Wallet:    wallet,
		Expected:  strconv.FormatUint(priceLamports, 10),
		Received:  delta.String(),
		Slot:      tx.Slot,
	}, nil
}
