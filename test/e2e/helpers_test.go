//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/monopay/gateway/internal/config"
	"github.com/monopay/gateway/internal/server"
	"github.com/monopay/gateway/internal/solana"
	"github.com/monopay/gateway/internal/storage"
)

const testPayoutWallet = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

// TestContext holds shared test infrastructure
type TestContext struct {
	PostgresContainer *postgres.PostgresContainer
	ConnString        string
	TestServer        *httptest.Server
	Store             storage.Store
	Ledger            *fakeLedger
}

// fakeLedger stands in for the Solana RPC so payment outcomes are scriptable.
type fakeLedger struct {
	mu  sync.Mutex
	txs map[string]*solana.TransactionRecord
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{txs: make(map[string]*solana.TransactionRecord)}
}

func (f *fakeLedger) GetFinalizedTransaction(ctx context.Context, signature string) (*solana.TransactionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tx, ok := f.txs[signature]; ok {
		return tx, nil
	}
	return nil, solana.ErrTxNotFound
}

// addTransfer records a finalized transfer of lamports into wallet under the
// given signature.
func (f *fakeLedger) addTransfer(signature, wallet string, lamports uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txs[signature] = &solana.TransactionRecord{
		Signature:    signature,
		Slot:         245000001,
		AccountKeys:  []string{"BuyerWallet1111111111111111111111111111111", wallet},
		PreBalances:  []uint64{5_000_000_000, 0},
		PostBalances: []uint64{5_000_000_000 - lamports, lamports},
	}
}

// setupPostgresE starts a Postgres container and returns the connection string
func setupPostgresE(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("monopay"),
		postgres.WithUsername("monopay"),
		postgres.WithPassword("monopay"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = postgresContainer.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to get postgres connection string: %w", err)
	}

	return postgresContainer, connString, nil
}

// startServerE starts the gateway in-process against the given Postgres and ledger
func startServerE(connString string, ledger solana.Ledger) (*httptest.Server, storage.Store, error) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Storage: config.StorageConfig{
			Type: "postgres",
			Postgres: config.PostgresConfig{
				URL: connString,
			},
		},
		Logging:   config.LoggingConfig{Level: "debug", Format: "text"},
		RateLimit: config.RateLimitConfig{Enabled: false},
		Security:  config.SecurityConfig{FilterEnabled: false, MaxBodySizeKB: 64},
		Proxy:     config.ProxyConfig{TrustProxy: false},
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store, err := storage.New(cfg.Storage, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("creating store: %w", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	srv := server.New(cfg, store, ledger, logger)
	return httptest.NewServer(srv.Handler()), store, nil
}

// seedMerchant provisions a project, a service config, and an API key, and
// returns the raw key plus the config.
func seedMerchant(t *testing.T, serviceID string, priceLamports uint64) (string, *storage.ProjectConfig) {
	t.Helper()
	ctx := context.Background()

	project := &storage.Project{
		Name:         "E2E Shop " + serviceID,
		Network:      "mainnet-beta",
		PayoutWallet: testPayoutWallet,
	}
	if err := testCtx.Store.CreateProject(ctx, project); err != nil {
		t.Fatalf("creating project: %v", err)
	}

	cfg := &storage.ProjectConfig{
		ProjectID:     project.ID,
		ServiceID:     serviceID,
		AllowedRoutes: []string{"/api/search"},
		PriceLamports: priceLamports,
	}
	if err := testCtx.Store.CreateProjectConfig(ctx, cfg); err != nil {
		t.Fatalf("creating config: %v", err)
	}

	key, err := testCtx.Store.CreateAPIKey(ctx, "e2e-"+serviceID, cfg.ID)
	if err != nil {
		t.Fatalf("creating key: %v", err)
	}
	return key, cfg
}
