package services

import (
	"context"
	"runtime"
	"time"

	"github.com/MonkyMars/gecho"
)

const databasePingTimeout = 5 * time.Second

// startedAt is when the process was loaded, used for the reported uptime.
var startedAt = time.Now()

type ServerHealth struct {
	UptimeSeconds float64      `json:"uptime"`
	CurrentTime   time.Time    `json:"current_time"`
	Goroutines    int          `json:"goroutines"`
	Memory        MemoryHealth `json:"memory"`
}

type MemoryHealth struct {
	AllocMB     uint64 `json:"alloc_mb"`
	SysMB       uint64 `json:"sys_mb"`
	UsedPercent uint64 `json:"used_percent"`
	NumGC       uint32 `json:"num_gc"`
}

type DatabaseHealth struct {
	Connected      bool      `json:"connected"`
	LastChecked    time.Time `json:"last_checked"`
	ResponseTimeMs int64     `json:"response_time_ms"`
}

// Pinger is satisfied by *database.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthService struct {
	logger *gecho.Logger
	db     Pinger
	now    func() time.Time
}

func NewHealthService(logger *gecho.Logger, db Pinger) *HealthService {
	return &HealthService{
		logger: logger,
		db:     db,
		now:    time.Now,
	}
}

func memoryHealth() MemoryHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	health := MemoryHealth{
		AllocMB: m.Alloc >> 20,
		SysMB:   m.Sys >> 20,
		NumGC:   m.NumGC,
	}
	if m.Sys > 0 {
		health.UsedPercent = m.Alloc * 100 / m.Sys
	}
	return health
}

func (hs *HealthService) ServerHealth() ServerHealth {
	now := hs.now()
	return ServerHealth{
		UptimeSeconds: now.Sub(startedAt).Seconds(),
		CurrentTime:   now,
		Goroutines:    runtime.NumGoroutine(),
		Memory:        memoryHealth(),
	}
}

// DatabaseHealth pings the database and reports the round trip.
func (hs *HealthService) DatabaseHealth(ctx context.Context) (DatabaseHealth, error) {
	ctx, cancel := context.WithTimeout(ctx, databasePingTimeout)
	defer cancel()

	start := time.Now()
	err := hs.db.PingContext(ctx)

	health := DatabaseHealth{
		Connected:      err == nil,
		LastChecked:    hs.now(),
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		hs.logger.Error("Database health check failed", gecho.Field("error", err))
	}
	return health, err
}
