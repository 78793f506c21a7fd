package middleware

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

// SetupLoggerMiddleware logs every request through gecho.
func (mw *Middleware) SetupLoggerMiddleware() func(http.Handler) http.Handler {
	return gecho.Handlers.CreateLoggingMiddleware(mw.logger)
}
