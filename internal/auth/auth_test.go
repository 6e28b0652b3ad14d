package auth

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateAPIKey(t *testing.T) {
	key, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey() error = %v", err)
	}
	if !strings.HasPrefix(key, KeyPrefix) {
		t.Errorf("GenerateAPIKey() = %v, want %s prefix", key, KeyPrefix)
	}
	if len(key) != len(KeyPrefix)+KeyLength*2 {
		t.Errorf("GenerateAPIKey() length = %d, want %d", len(key), len(KeyPrefix)+KeyLength*2)
	}

	other, err := GenerateAPIKey()
	if err != nil {
		t.Fatal(err)
	}
	if key == other {
		t.Error("GenerateAPIKey() returned the same key twice")
	}
}

func TestHashAPIKey(t *testing.T) {
	h1 := HashAPIKey("mp_key_abc")
	h2 := HashAPIKey("mp_key_abc")
	if h1 != h2 {
		t.Error("HashAPIKey() is not deterministic")
	}
	if len(h1) != 64 {
		t.Errorf("HashAPIKey() length = %d, want 64 hex chars", len(h1))
	}
	if h1 == HashAPIKey("mp_key_abd") {
		t.Error("HashAPIKey() collided on different keys")
	}
}

func TestKeyFromRequest(t *testing.T) {
	t.Run("header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/service/config", nil)
		r.Header.Set("X-API-Key", "mp_key_header")
		if got := KeyFromRequest(r); got != "mp_key_header" {
			t.Errorf("KeyFromRequest() = %v, want mp_key_header", got)
		}
	})

	t.Run("bearer token", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/service/config", nil)
		r.Header.Set("Authorization", "Bearer mp_key_bearer")
		if got := KeyFromRequest(r); got != "mp_key_bearer" {
			t.Errorf("KeyFromRequest() = %v, want mp_key_bearer", got)
		}
	})

	t.Run("query param", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/service/config?apikey=mp_key_query", nil)
		if got := KeyFromRequest(r); got != "mp_key_query" {
			t.Errorf("KeyFromRequest() = %v, want mp_key_query", got)
		}
	})

	t.Run("header beats query param", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/service/config?apikey=mp_key_query", nil)
		r.Header.Set("X-API-Key", "mp_key_header")
		if got := KeyFromRequest(r); got != "mp_key_header" {
			t.Errorf("KeyFromRequest() = %v, want mp_key_header", got)
		}
	})

	t.Run("absent", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/service/config", nil)
		if got := KeyFromRequest(r); got != "" {
			t.Errorf("KeyFromRequest() = %v, want empty", got)
		}
	})
}
