package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/monopay/gateway/internal/config"
)

// ProjectStore handles project and project-config operations
type ProjectStore interface {
	CreateProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	CreateProjectConfig(ctx context.Context, c *ProjectConfig) error
	GetProjectConfig(ctx context.Context, id string) (*ProjectConfig, error)
}

// APIKeyStore handles API key operations
type APIKeyStore interface {
	CreateAPIKey(ctx context.Context, name, projectConfigID string) (key string, err error)
	// GetAPIKeyByHash returns the key row for a hash regardless of revocation
	// state, so callers can distinguish a revoked key from one that never
	// existed. Returns ErrNotFound when no row matches.
	GetAPIKeyByHash(ctx context.Context, keyHash string) (*APIKey, error)
	ListAPIKeys(ctx context.Context) ([]APIKey, error)
	RevokeAPIKey(ctx context.Context, id string) error
	TouchAPIKey(ctx context.Context, id string) error
}

// ReceiptStore handles payment receipt operations
type ReceiptStore interface {
	// RecordReceipt persists an accepted payment. A second insert for the
	// same (service_id, signature) pair returns ErrDuplicate.
	RecordReceipt(ctx context.Context, r *Receipt) error
	GetReceipt(ctx context.Context, serviceID, signature string) (*Receipt, error)
}

// Store combines all storage interfaces with lifecycle methods.
// Domain services define their own minimal interfaces based on their actual usage.
type Store interface {
	ProjectStore
	APIKeyStore
	ReceiptStore

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}

// Project represents a merchant project
type Project struct {
	ID           string
	Name         string
	Network      string // "mainnet-beta", "devnet", ...
	PayoutWallet string // base58 Solana address
	CreatedAt    string
}

// ProjectConfig represents a paid-service configuration within a project
type ProjectConfig struct {
	ID            string
	ProjectID     string
	ServiceID     string
	AllowedRoutes []string
	PriceLamports uint64
	CreatedAt     string
}

// APIKey represents an API key bound to a project config
type APIKey struct {
	ID              string
	Name            string
	KeyHash         string
	ProjectConfigID string
	CreatedAt       string
	LastUsedAt      string
	RevokedAt       string
}

// Receipt represents a consumed payment signature
type Receipt struct {
	ID           string
	ServiceID    string
	Signature    string
	PayoutWallet string
	// Lamports received, kept as a decimal string so values survive any
	// serialization boundary without precision loss.
	ReceivedLamports string
	CreatedAt        string
}

// New creates a new store based on configuration
func New(cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Type {
	case "sqlite":
		return NewSQLiteStore(cfg.SQLite.Path, logger)
	case "postgres":
		return NewPostgresStore(cfg.Postgres.URL, logger)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
