package realip

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func runRequest(t *testing.T, cfg Config, remoteAddr string, headers map[string]string) string {
	t.Helper()
	var got string
	handler := Middleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetClientIP(r)
	}))

	req := httptest.NewRequest("GET", "/verify", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestMiddleware_NoProxyTrust(t *testing.T) {
	got := runRequest(t, Config{TrustProxy: false}, "203.0.113.7:54321", map[string]string{
		"X-Forwarded-For": "198.51.100.1",
	})
	assert.Equal(t, "203.0.113.7", got)
}

func TestMiddleware_TrustedProxyUsesXFF(t *testing.T) {
	cfg := Config{TrustProxy: true, TrustedProxies: []string{"10.0.0.0/8"}}
	got := runRequest(t, cfg, "10.1.2.3:443", map[string]string{
		"X-Forwarded-For": "198.51.100.1, 10.0.0.5",
	})
	assert.Equal(t, "198.51.100.1", got)
}

func TestMiddleware_UntrustedPeerIgnoresXFF(t *testing.T) {
	cfg := Config{TrustProxy: true, TrustedProxies: []string{"10.0.0.0/8"}}
	got := runRequest(t, cfg, "203.0.113.7:443", map[string]string{
		"X-Forwarded-For": "198.51.100.1",
	})
	assert.Equal(t, "203.0.113.7", got)
}

func TestMiddleware_XRealIPFallback(t *testing.T) {
	cfg := Config{TrustProxy: true, TrustedProxies: []string{"10.0.0.1"}}
	got := runRequest(t, cfg, "10.0.0.1:443", map[string]string{
		"X-Real-IP": "198.51.100.9",
	})
	assert.Equal(t, "198.51.100.9", got)
}

func TestMiddleware_AllHopsTrusted(t *testing.T) {
	cfg := Config{TrustProxy: true, TrustedProxies: []string{"10.0.0.0/8"}}
	got := runRequest(t, cfg, "10.0.0.1:443", map[string]string{
		"X-Forwarded-For": "10.0.0.9, 10.0.0.5",
	})
	assert.Equal(t, "10.0.0.9", got)
}

func TestGetClientIP_Fallback(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.4:1234"
	assert.Equal(t, "192.0.2.4", GetClientIP(req))
}
