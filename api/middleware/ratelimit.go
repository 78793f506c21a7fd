package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// getClientIP returns the client address. chi's RealIP has already applied
// X-Forwarded-For and X-Real-IP to RemoteAddr.
func (mw *Middleware) getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// endpointKey groups requests by route pattern so /admin/products/edit/1 and
// /admin/products/edit/2 share a counter.
func endpointKey(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return strings.TrimSuffix(r.URL.Path, "/")
}

// AdminWriteRateLimit limits state-changing admin requests per client. Reads are
// never limited and cache errors let the request through.
func (mw *Middleware) AdminWriteRateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if mw.rateLimiter == nil || !mw.cfg.RateLimit.Enabled || r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			limit, window := mw.cfg.RateLimit.AdminLimit, mw.cfg.RateLimit.AdminWindow
			clientIP := mw.getClientIP(r)
			endpoint := endpointKey(r)

			count, err := mw.rateLimiter.IncrementRateLimit(r.Context(), clientIP, endpoint, window)
			if err != nil {
				mw.logger.Warn("Rate limit cache error, allowing request",
					gecho.Field("error", err),
					gecho.Field("ip", clientIP),
					gecho.Field("endpoint", endpoint),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(window).Unix()))

			if count > limit {
				mw.logger.Warn("Rate limit exceeded",
					gecho.Field("ip", clientIP),
					gecho.Field("endpoint", endpoint),
					gecho.Field("count", count),
					gecho.Field("limit", limit),
				)

				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
				http.Error(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, limit-count)))
			next.ServeHTTP(w, r)
		})
	}
}
