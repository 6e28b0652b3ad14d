package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monopay/gateway/internal/auth"
	"github.com/monopay/gateway/internal/storage"
)

// mockStore implements KeyStore and ConfigStore for testing
type mockStore struct {
	keys     map[string]*storage.APIKey
	configs  map[string]*storage.ProjectConfig
	projects map[string]*storage.Project

	touched []string
	failAll error
}

func newMockStore() *mockStore {
	return &mockStore{
		keys:     make(map[string]*storage.APIKey),
		configs:  make(map[string]*storage.ProjectConfig),
		projects: make(map[string]*storage.Project),
	}
}

func (m *mockStore) GetAPIKeyByHash(ctx context.Context, keyHash string) (*storage.APIKey, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	if key, ok := m.keys[keyHash]; ok {
		return key, nil
	}
	return nil, storage.ErrNotFound
}

func (m *mockStore) TouchAPIKey(ctx context.Context, id string) error {
	m.touched = append(m.touched, id)
	return nil
}

func (m *mockStore) GetProjectConfig(ctx context.Context, id string) (*storage.ProjectConfig, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	if cfg, ok := m.configs[id]; ok {
		return cfg, nil
	}
	return nil, storage.ErrNotFound
}

func (m *mockStore) GetProject(ctx context.Context, id string) (*storage.Project, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	if p, ok := m.projects[id]; ok {
		return p, nil
	}
	return nil, storage.ErrNotFound
}

const rawKey = "mp_key_0123456789abcdef0123456789abcdef0123456789abcdef"

// seed installs a fully linked key -> config -> project chain.
func (m *mockStore) seed() {
	m.keys[auth.HashAPIKey(rawKey)] = &storage.APIKey{
		ID:              "key-1",
		Name:            "prod",
		KeyHash:         auth.HashAPIKey(rawKey),
		ProjectConfigID: "cfg-1",
	}
	m.configs["cfg-1"] = &storage.ProjectConfig{
		ID:            "cfg-1",
		ProjectID:     "proj-1",
		ServiceID:     "svc-search",
		AllowedRoutes: []string{"/api/search", "/api/suggest"},
		PriceLamports: 10_000_000,
	}
	m.projects["proj-1"] = &storage.Project{
		ID:           "proj-1",
		Name:         "Demo Shop",
		Network:      "mainnet-beta",
		PayoutWallet: "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
	}
}

func TestResolve_Success(t *testing.T) {
	store := newMockStore()
	store.seed()
	svc := NewService(store, store)

	cfg, err := svc.Resolve(context.Background(), rawKey)

	require.NoError(t, err)
	assert.Equal(t, "proj-1", cfg.ProjectID)
	assert.Equal(t, "Demo Shop", cfg.ProjectName)
	assert.Equal(t, "mainnet-beta", cfg.Network)
	assert.Equal(t, "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", cfg.PayoutWallet)
	assert.Equal(t, "svc-search", cfg.ServiceID)
	assert.Equal(t, []string{"/api/search", "/api/suggest"}, cfg.AllowedRoutes)
	assert.Equal(t, uint64(10_000_000), cfg.PriceLamports)
	assert.Equal(t, []string{"key-1"}, store.touched)
}

func TestResolve_EmptyKey(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, store)

	cfg, err := svc.Resolve(context.Background(), "")

	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, ErrInvalidKey))
}

func TestResolve_UnknownKey(t *testing.T) {
	store := newMockStore()
	store.seed()
	svc := NewService(store, store)

	cfg, err := svc.Resolve(context.Background(), "mp_key_never_issued")

	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, ErrInvalidKey))
}

func TestResolve_RevokedKey(t *testing.T) {
	store := newMockStore()
	store.seed()
	store.keys[auth.HashAPIKey(rawKey)].RevokedAt = "2026-08-01T12:00:00Z"
	svc := NewService(store, store)

	cfg, err := svc.Resolve(context.Background(), rawKey)

	assert.Nil(t, cfg)
	// Revoked is distinct from never-existed.
	assert.True(t, errors.Is(err, ErrRevokedKey))
	assert.False(t, errors.Is(err, ErrInvalidKey))
	assert.Empty(t, store.touched)
}

func TestResolve_RevocationImmediate(t *testing.T) {
	// No caching: a key that resolved a moment ago fails as soon as it is
	// revoked.
	store := newMockStore()
	store.seed()
	svc := NewService(store, store)

	_, err := svc.Resolve(context.Background(), rawKey)
	require.NoError(t, err)

	store.keys[auth.HashAPIKey(rawKey)].RevokedAt = "2026-08-01T12:00:00Z"

	cfg, err := svc.Resolve(context.Background(), rawKey)
	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, ErrRevokedKey))
}

func TestResolve_MissingConfig(t *testing.T) {
	store := newMockStore()
	store.seed()
	delete(store.configs, "cfg-1")
	svc := NewService(store, store)

	cfg, err := svc.Resolve(context.Background(), rawKey)

	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestResolve_MissingProject(t *testing.T) {
	store := newMockStore()
	store.seed()
	delete(store.projects, "proj-1")
	svc := NewService(store, store)

	cfg, err := svc.Resolve(context.Background(), rawKey)

	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, ErrProjectNotFound))
}

func TestResolve_StoreErrorIsNotASentinel(t *testing.T) {
	store := newMockStore()
	store.seed()
	store.failAll = errors.New("connection refused")
	svc := NewService(store, store)

	cfg, err := svc.Resolve(context.Background(), rawKey)

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidKey))
	assert.False(t, errors.Is(err, ErrRevokedKey))
}
