package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"costwatch/pkg/logger"
)

// RateLimit applies a process-wide token bucket to the wrapped handler.
// The analytics queries scan the full record set, so a single bucket is
// enough to protect the database from request floods.
func RateLimit(rps float64, burst int, log *logger.Logger) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Warnw("Request rate limited", "path", r.URL.Path, "remote", r.RemoteAddr)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
