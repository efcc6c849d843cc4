package security

import (
	"net/http"

	"github.com/google/uuid"
)

// GenerateSessionID creates a new UUID identifying one browser session
func GenerateSessionID() string {
	return uuid.New().String()
}

// IsValidSessionID reports whether id looks like a value GenerateSessionID produced.
func IsValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// IsSecureRequest determines if the request is over HTTPS
// Checks TLS connection, X-Forwarded-Proto header (for reverse proxies), and URL scheme
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}

	// Behind reverse proxy (nginx, Caddy, load balancer, etc.)
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" {
		return true
	}

	return r.URL.Scheme == "https"
}
