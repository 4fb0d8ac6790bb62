package http

import (
	"net/http"
	"strings"
)

// SecurityHeaders adds security-related headers to all responses.
// HSTS is only sent in production where the API is served over TLS.
func SecurityHeaders(isProduction bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if isProduction {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			// Swagger UI needs scripts, styles, and images to render
			if strings.HasPrefix(r.URL.Path, "/swagger/") {
				h.Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
			} else {
				h.Set("Content-Security-Policy", "default-src 'none'")
			}

			next.ServeHTTP(w, r)
		})
	}
}
