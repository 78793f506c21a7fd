package health

import (
	"frietkot_server/services"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registerOnce sync.Once

type HealthRoutesManager struct {
	healthService *services.HealthService
}

func NewHealthRoutesManager(healthService *services.HealthService) *HealthRoutesManager {
	return &HealthRoutesManager{
		healthService: healthService,
	}
}

// RegisterMetrics registers the HTTP collectors with the default registry once per process.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HttpDuration, HttpRequests)
	})
}

func (hrm *HealthRoutesManager) RegisterRoutes(r chi.Router) {
	RegisterMetrics()

	r.Get("/health/server", hrm.GetServerHealth)
	r.Get("/health/database", hrm.GetDatabaseHealth)

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}
