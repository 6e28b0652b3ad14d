// Package server provides the HTTP server setup and wiring.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/monopay/gateway/internal/config"
	gatewayDomain "github.com/monopay/gateway/internal/gateway/domain"
	gatewayTransport "github.com/monopay/gateway/internal/gateway/transport"
	"github.com/monopay/gateway/internal/middleware/logging"
	"github.com/monopay/gateway/internal/middleware/ratelimit"
	"github.com/monopay/gateway/internal/middleware/realip"
	"github.com/monopay/gateway/internal/middleware/security"
	"github.com/monopay/gateway/internal/observability/metrics"
	paymentsDomain "github.com/monopay/gateway/internal/payments/domain"
	paymentsTransport "github.com/monopay/gateway/internal/payments/transport"
	"github.com/monopay/gateway/internal/solana"
	"github.com/monopay/gateway/internal/storage"
)

// Server is the HTTP server
type Server struct {
	cfg    *config.Config
	store  storage.Store
	logger *slog.Logger
	router *chi.Mux

	// Services typed via transport interfaces
	resolverSvc gatewayTransport.Service
	verifierSvc paymentsTransport.Service
}

// New creates a new server. All dependencies are constructed once here and
// shared across requests.
func New(cfg *config.Config, store storage.Store, ledger solana.Ledger, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		logger: logger,
		router: chi.NewRouter(),
	}

	resolverImpl := gatewayDomain.NewService(store, store)
	resolverSvc := gatewayDomain.LoggingMiddleware(logger)(resolverImpl)
	s.resolverSvc = resolverSvc

	verifierImpl := paymentsDomain.NewService(ledger, resolverSvc, store)
	s.verifierSvc = paymentsDomain.LoggingMiddleware(logger)(verifierImpl)

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// MetricsHandler returns the metrics HTTP handler for the separate metrics server
func (s *Server) MetricsHandler() http.Handler {
	return metrics.Handler()
}

func (s *Server) setupMiddleware() {
	// Order matters! Security middleware runs first to block malicious requests early.

	// 1. Real IP extraction (must be first to set client IP for other middleware)
	s.router.Use(realip.Middleware(realip.Config{
		TrustProxy:     s.cfg.Proxy.TrustProxy,
		TrustedProxies: s.cfg.Proxy.TrustedProxies,
	}))

	// 2. Security filter (blocks scanner patterns, bypasses health checks)
	s.router.Use(security.FilterMiddleware(s.cfg.Security.FilterEnabled))

	// 3. Body size limit
	s.router.Use(security.MaxBodySizeMiddleware(s.cfg.Security.MaxBodySizeKB))

	// 4. Rate limiting (bypasses health checks)
	s.router.Use(ratelimit.Middleware(ratelimit.Config{
		Enabled:        s.cfg.RateLimit.Enabled,
		RequestsPerMin: s.cfg.RateLimit.RequestsPerMin,
		BurstSize:      s.cfg.RateLimit.BurstSize,
		CleanupMinutes: s.cfg.RateLimit.CleanupMinutes,
	}))

	// 5. Standard middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(logging.Middleware(s.logger))
	s.router.Use(metrics.Middleware)
	s.router.Use(middleware.Recoverer)

	// 6. CORS
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-API-Key")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
}

func (s *Server) setupRoutes() {
	// Health checks
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/readyz", s.handleHealth)

	// The public wire surface keeps the original flat paths.
	gatewayTransport.NewHandler(s.resolverSvc).RegisterRoutes(s.router)
	paymentsTransport.NewHandler(s.verifierSvc).RegisterRoutes(s.router)
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
