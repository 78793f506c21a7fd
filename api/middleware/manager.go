package middleware

import (
	"context"
	"frietkot_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
)

// RateLimiter counts requests per client and endpoint within a window.
type RateLimiter interface {
	IncrementRateLimit(ctx context.Context, ip, endpoint string, window time.Duration) (int, error)
}

type Middleware struct {
	cfg         *structs.Config
	logger      *gecho.Logger
	rateLimiter RateLimiter
}

// NewMiddleware builds the shared middleware. A nil rateLimiter disables rate limiting.
func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, rateLimiter RateLimiter) *Middleware {
	return &Middleware{
		cfg:         cfg,
		logger:      logger,
		rateLimiter: rateLimiter,
	}
}
