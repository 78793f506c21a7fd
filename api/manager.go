package api

import (
	"frietkot_server/api/admin"
	"frietkot_server/api/health"
	"frietkot_server/api/menu"
	"frietkot_server/api/orders"

	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	menuRoutes   *menu.MenuRoutesManager
	healthRoutes *health.HealthRoutesManager
	adminRoutes  *admin.AdminRoutesManager
	orderRoutes  *orders.OrderRoutesManager
}

func NewRouterManager(
	menuRoutes *menu.MenuRoutesManager,
	healthRoutes *health.HealthRoutesManager,
	adminRoutes *admin.AdminRoutesManager,
	orderRoutes *orders.OrderRoutesManager,
) *routerManager {
	return &routerManager{
		menuRoutes:   menuRoutes,
		healthRoutes: healthRoutes,
		adminRoutes:  adminRoutes,
		orderRoutes:  orderRoutes,
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.menuRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.adminRoutes.RegisterRoutes(r)
	rm.orderRoutes.RegisterRoutes(r)
}
