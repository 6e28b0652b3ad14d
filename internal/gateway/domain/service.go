package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/monopay/gateway/internal/auth"
	"github.com/monopay/gateway/internal/observability/metrics"
	"github.com/monopay/gateway/internal/storage"
)

// Common errors returned by the resolver service.
var (
	ErrInvalidKey      = errors.New("invalid or missing API key")
	ErrRevokedKey      = errors.New("API key has been revoked")
	ErrConfigNotFound  = errors.New("project configuration not found")
	ErrProjectNotFound = errors.New("project not found")
)

// KeyStore defines the API key operations needed by the resolver.
type KeyStore interface {
	GetAPIKeyByHash(ctx context.Context, keyHash string) (*storage.APIKey, error)
	TouchAPIKey(ctx context.Context, id string) error
}

// ConfigStore defines the project lookups needed by the resolver.
type ConfigStore interface {
	GetProjectConfig(ctx context.Context, id string) (*storage.ProjectConfig, error)
	GetProject(ctx context.Context, id string) (*storage.Project, error)
}

type service struct {
	keys    KeyStore
	configs ConfigStore
}

// NewService creates a new resolver service.
func NewService(keys KeyStore, configs ConfigStore) *service {
	return &service{
		keys:    keys,
		configs: configs,
	}
}

// Resolve exchanges an API key for the merchant's service configuration.
// Every call re-queries the store: there is no caching, so revocation takes
// effect on the next call. The three reads are inherently sequential, each
// depending on the previous row's foreign key.
func (s *service) Resolve(ctx context.Context, apiKey string) (*ServiceConfig, error) {
	if apiKey == "" {
		metrics.ConfigResolve("invalid_key")
		return nil, ErrInvalidKey
	}

	key, err := s.keys.GetAPIKeyByHash(ctx, auth.HashAPIKey(apiKey))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			metrics.ConfigResolve("invalid_key")
			return nil, ErrInvalidKey
		}
		metrics.ConfigResolve("error")
		return nil, fmt.Errorf("looking up API key: %w", err)
	}

	if key.RevokedAt != "" {
		metrics.ConfigResolve("revoked")
		return nil, ErrRevokedKey
	}

	// Best-effort usage tracking; never blocks resolution.
	_ = s.keys.TouchAPIKey(ctx, key.ID)

	cfg, err := s.configs.GetProjectConfig(ctx, key.ProjectConfigID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			metrics.ConfigResolve("config_not_found")
			return nil, ErrConfigNotFound
		}
		metrics.ConfigResolve("error")
		return nil, fmt.Errorf("getting project config: %w", err)
	}

	project, err := s.configs.GetProject(ctx, cfg.ProjectID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			metrics.ConfigResolve("project_not_found")
			return nil, ErrProjectNotFound
		}
		metrics.ConfigResolve("error")
		return nil, fmt.Errorf("getting project: %w", err)
	}

	metrics.ConfigResolve("ok")
	return &ServiceConfig{
		ProjectID:     project.ID,
		ProjectName:   project.Name,
		Network:       project.Network,
		PayoutWallet:  project.PayoutWallet,
		ServiceID:     cfg.ServiceID,
		AllowedRoutes: cfg.AllowedRoutes,
		PriceLamports: cfg.PriceLamports,
	}, nil
}
