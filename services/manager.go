package services

import (
	"frietkot_server/config"
	"frietkot_server/database"
	"frietkot_server/repository"
	"frietkot_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

type ServiceManager struct {
	HealthService    *HealthService
	ImageService     *ImageService
	MenuService      *MenuService
	OrderService     *OrderService
	RateLimitService *RateLimitService // nil when rate limiting is off
}

// NewServiceManager wires the services over already opened clients. The caller
// closes db on shutdown; redisClient is closed through RateLimitService.Close.
func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB, storage ImageStorage, redisClient *redis.Client) *ServiceManager {
	menuStore := repository.NewMenuRepository(db.DB)
	orderStore := repository.NewOrderRepository(db.DB)

	imageService := NewImageService(logger, cfg.Storage, storage)
	menuService := NewMenuService(logger, menuStore, imageService, cfg.Storage.Folder)
	orderService := NewOrderService(logger, orderStore, menuStore, config.Location(cfg.Server))

	var rateLimitService *RateLimitService
	if redisClient != nil {
		rateLimitService = NewRateLimitService(logger, redisClient)
	}

	return &ServiceManager{
		HealthService:    NewHealthService(logger, db),
		ImageService:     imageService,
		MenuService:      menuService,
		OrderService:     orderService,
		RateLimitService: rateLimitService,
	}
}
