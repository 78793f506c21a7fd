package middleware

import (
	"net/http"
)

func (mw *Middleware) SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			// Pages carry their own stylesheet and product images may live in object storage.
			w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:")
			w.Header().Set("Permissions-Policy", "geolocation=(), camera=()")

			next.ServeHTTP(w, r)
		})
	}
}

func (mw *Middleware) BodyLimit() func(http.Handler) http.Handler {
	maxBytes := mw.cfg.Server.BodyLimitBytes
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
