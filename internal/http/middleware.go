package http

import (
	"net/http"
	"strings"
)

// SecurityHeaders adds security-related headers to all responses. With
// secure set, browsers are also told to stay on HTTPS, matching the
// Secure token cookies.
func SecurityHeaders(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if secure {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			switch {
			case strings.HasPrefix(r.URL.Path, "/swagger/"):
				// Swagger UI needs scripts, styles, and images to render
				h.Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
			case strings.HasPrefix(r.URL.Path, "/api/"):
				// account responses may carry tokens
				h.Set("Content-Security-Policy", "default-src 'none'")
				h.Set("Cache-Control", "no-store")
			default:
				h.Set("Content-Security-Policy", "default-src 'none'")
			}

			next.ServeHTTP(w, r)
		})
	}
}
