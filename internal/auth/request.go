package auth

import "net/http"

// KeyFromRequest extracts the presented API key from a request. Accepted
// sources, in order: X-API-Key header, Authorization bearer token, and the
// legacy "apikey" query parameter the original edge worker used.
// Returns "" when no key is present.
func KeyFromRequest(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if auth := r.Header.Get("Authorization"); len(auth) > 7 && auth[:7] == "Bearer " {
		return auth[7:]
	}
	return r.URL.Query().Get("apikey")
}
