package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate runs database migrations
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	schema := `
	-- Merchant projects
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		network TEXT NOT NULL,
		payout_wallet TEXT NOT NULL,
		created_at TEXT DEFAULT (datetime('now'))
	);

	-- Paid-service configurations
	CREATE TABLE IF NOT EXISTS project_configs (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		service_id TEXT NOT NULL,
		allowed_routes TEXT NOT NULL DEFAULT '[]',
		price_lamports INTEGER NOT NULL,
		created_at TEXT DEFAULT (datetime('now'))
	);

	-- API keys
	CREATE TABLE IF NOT EXISTS api_keys (
		id TEXT PRIMARY KEY,
		key_hash TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		project_config_id TEXT NOT NULL REFERENCES project_configs(id),
		created_at TEXT DEFAULT (datetime('now')),
		last_used_at TEXT,
		revoked_at TEXT
	);

	-- Consumed payment signatures
	CREATE TABLE IF NOT EXISTS receipts (
		id TEXT PRIMARY KEY,
		service_id TEXT NOT NULL,
		signature TEXT NOT NULL,
		payout_wallet TEXT NOT NULL,
		received_lamports TEXT NOT NULL,
		created_at TEXT DEFAULT (datetime('now')),
		UNIQUE(service_id, signature)
	);

	-- Indexes
	CREATE INDEX IF NOT EXISTS idx_project_configs_project ON project_configs(project_id);
	CREATE INDEX IF NOT EXISTS idx_api_keys_config ON api_keys(project_config_id);
	CREATE INDEX IF NOT EXISTS idx_receipts_signature ON receipts(signature);
	`

	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	s.logger.Info("database migrations complete")
	return nil
}

// CreateProject creates a new project
func (s *SQLiteStore) CreateProject(ctx context.Context, p *Project) error {
	if p.ID == "" {
		p.ID = generateID()
	}
	query := `
		INSERT INTO projects (id, name, network, payout_wallet, created_at)
		VALUES (?, ?, ?, ?, datetime('now'))
	`
	_, err := s.db.ExecContext(ctx, query, p.ID, p.Name, p.Network, p.PayoutWallet)
	return err
}

// GetProject retrieves a project by id
func (s *SQLiteStore) GetProject(ctx context.Context, id string) (*Project, error) {
	query := `
		SELECT id, name, network, payout_wallet, created_at
		FROM projects
		WHERE id = ?
	`
	var p Project
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Network, &p.PayoutWallet, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return &p, err
}

// ListProjects lists all projects
func (s *SQLiteStore) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, network, payout_wallet, created_at FROM projects ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Network, &p.PayoutWallet, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CreateProjectConfig creates a new project config
func (s *SQLiteStore) CreateProjectConfig(ctx context.Context, c *ProjectConfig) error {
	if c.ID == "" {
		c.ID = generateID()
	}
	routes, err := json.Marshal(c.AllowedRoutes)
	if err != nil {
		return fmt.Errorf("encoding allowed routes: %w", err)
	}
	query := `
		INSERT INTO project_configs (id, project_id, service_id, allowed_routes, price_lamports, created_at)
		VALUES (?, ?, ?, ?, ?, datetime('now'))
	`
	_, err = s.db.ExecContext(ctx, query, c.ID, c.ProjectID, c.ServiceID, string(routes), int64(c.PriceLamports))
	return err
}

// GetProjectConfig retrieves a project config by id
func (s *SQLiteStore) GetProjectConfig(ctx context.Context, id string) (*ProjectConfig, error) {
	query := `
		SELECT id, project_id, service_id, allowed_routes, price_lamports, created_at
		FROM project_configs
		WHERE id = ?
	`
	var c ProjectConfig
	var routes string
	var price int64
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.ProjectID, &c.ServiceID, &routes, &price, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(routes), &c.AllowedRoutes); err != nil {
		return nil, fmt.Errorf("decoding allowed routes: %w", err)
	}
	c.PriceLamports = uint64(price)
	return &c, nil
}

// CreateAPIKey creates a new API key bound to a project config
func (s *SQLiteStore) CreateAPIKey(ctx context.Context, name, projectConfigID string) (string, error) {
	key := generateAPIKey()
	hash := hashAPIKey(key)
	id := generateID()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO api_keys (id, key_hash, name, project_config_id, created_at) VALUES (?, ?, ?, ?, datetime('now'))",
		id, hash, name, projectConfigID)
	if err != nil {
		return "", err
	}
	return key, nil
}

// GetAPIKeyByHash retrieves an API key row by its hash, revoked or not
func (s *SQLiteStore) GetAPIKeyByHash(ctx context.Context, keyHash string) (*APIKey, error) {
	var ak APIKey
	var lastUsed, revoked sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, key_hash, name, project_config_id, created_at, last_used_at, revoked_at FROM api_keys WHERE key_hash = ?",
		keyHash).Scan(&ak.ID, &ak.KeyHash, &ak.Name, &ak.ProjectConfigID, &ak.CreatedAt, &lastUsed, &revoked)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastUsed.Valid {
		ak.LastUsedAt = lastUsed.String
	}
	if revoked.Valid {
		ak.RevokedAt = revoked.String
	}
	return &ak, nil
}

// ListAPIKeys lists all API keys
func (s *SQLiteStore) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, project_config_id, created_at, last_used_at, revoked_at FROM api_keys ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []APIKey
	for rows.Next() {
		var k APIKey
		var lastUsed, revoked sql.NullString
		if err := rows.Scan(&k.ID, &k.Name, &k.ProjectConfigID, &k.CreatedAt, &lastUsed, &revoked); err != nil {
			return nil, err
		}
		if lastUsed.Valid {
			k.LastUsedAt = lastUsed.String
		}
		if revoked.Valid {
			k.RevokedAt = revoked.String
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// RevokeAPIKey revokes an API key
func (s *SQLiteStore) RevokeAPIKey(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE api_keys SET revoked_at = datetime('now') WHERE id = ?", id)
	return err
}

// TouchAPIKey updates the key's last-used timestamp
func (s *SQLiteStore) TouchAPIKey(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE api_keys SET last_used_at = datetime('now') WHERE id = ?", id)
	return err
}

// RecordReceipt records an accepted payment signature
func (s *SQLiteStore) RecordReceipt(ctx context.Context, r *Receipt) error {
	if r.ID == "" {
		r.ID = generateID()
	}
	query := `
		INSERT INTO receipts (id, service_id, signature, payout_wallet, received_lamports, created_at)
		VALUES (?, ?, ?, ?, ?, datetime('now'))
	`
	_, err := s.db.ExecContext(ctx, query, r.ID, r.ServiceID, r.Signature, r.PayoutWallet, r.ReceivedLamports)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}

// GetReceipt retrieves a recorded receipt
func (s *SQLiteStore) GetReceipt(ctx context.Context, serviceID, signature string) (*Receipt, error) {
	query := `
		SELECT id, service_id, signature, payout_wallet, received_lamports, created_at
		FROM receipts
		WHERE service_id = ? AND signature = ?
	`
	var r Receipt
	err := s.db.QueryRowContext(ctx, query, serviceID, signature).Scan(
		&r.ID, &r.ServiceID, &r.Signature, &r.PayoutWallet, &r.ReceivedLamports, &r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return &r, err
}
