package middleware

import (
	"net/http"
	"strings"
)

const basePolicy = "default-src 'self'; base-uri 'self'; form-action 'self'; frame-ancestors 'none'; object-src 'none'; img-src 'self' data:; style-src 'self'; script-src 'self'"

// contentSecurityPolicy allows the page to open the live socket on its own
// host. Some browsers do not match ws: and wss: against 'self'.
func contentSecurityPolicy(r *http.Request) string {
	connect := []string{"'self'"}
	if host := r.Host; host != "" && !strings.ContainsAny(host, " ;'\"") {
		connect = append(connect, "ws://"+host, "wss://"+host)
	}
	return basePolicy + "; connect-src " + strings.Join(connect, " ")
}

func SecureHeaders(isProd bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()
			headers.Set("X-Content-Type-Options", "nosniff")
			headers.Set("X-Frame-Options", "DENY")
			headers.Set("Referrer-Policy", "no-referrer")
			headers.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			headers.Set("Content-Security-Policy", contentSecurityPolicy(r))
			headers.Set("Cross-Origin-Opener-Policy", "same-origin")
			if isProd {
				headers.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
