package middleware

import (
	"github.com/rs/cors"
)

// SetupCORS is applied to the public JSON endpoints only.
func (mw *Middleware) SetupCORS() *cors.Cors {
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   mw.cfg.Cors.AllowOrigins,
		AllowedMethods:   mw.cfg.Cors.AllowMethods,
		AllowedHeaders:   mw.cfg.Cors.AllowHeaders,
		ExposedHeaders:   mw.cfg.Cors.ExposedHeaders,
		AllowCredentials: mw.cfg.Cors.AllowCredentials,
		MaxAge:           mw.cfg.Cors.MaxAge,
	})

	return corsMiddleware
}
