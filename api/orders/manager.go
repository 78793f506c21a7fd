package orders

import (
	"context"
	"frietkot_server/api/middleware"
	"frietkot_server/services"
	"frietkot_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req *services.PlaceOrderRequest) (*tables.Order, error)
}

type OrderRoutesManager struct {
	logger       *gecho.Logger
	orderService OrderPlacer
	mw           *middleware.Middleware
}

func NewOrderRoutesManager(logger *gecho.Logger, orderService OrderPlacer, mw *middleware.Middleware) *OrderRoutesManager {
	return &OrderRoutesManager{
		logger:       logger,
		orderService: orderService,
		mw:           mw,
	}
}

func (orm *OrderRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(orm.mw.SetupCORS().Handler)
		r.Post("/", orm.CreateOrder)
	})
}
