package menu

import (
	"context"
	"frietkot_server/api/middleware"
	"frietkot_server/structs/tables"
	"frietkot_server/views"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// MenuReader is the read side of the menu service.
type MenuReader interface {
	ListCategories(ctx context.Context) ([]tables.Category, error)
	ListProducts(ctx context.Context, categoryName string) ([]tables.Product, error)
}

type MenuRoutesManager struct {
	logger   *gecho.Logger
	menu     MenuReader
	renderer *views.Renderer
	mw       *middleware.Middleware
}

func NewMenuRoutesManager(logger *gecho.Logger, menu MenuReader, renderer *views.Renderer, mw *middleware.Middleware) *MenuRoutesManager {
	return &MenuRoutesManager{
		logger:   logger,
		menu:     menu,
		renderer: renderer,
		mw:       mw,
	}
}

func (mr *MenuRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/", mr.MenuPage)
	r.Get("/menu", mr.MenuPage)
	r.Get("/categorie/{name}", mr.CategoryPage)

	r.Route("/api/menu", func(r chi.Router) {
		r.Use(mr.mw.SetupCORS().Handler)
		r.Get("/", mr.FetchMenu)
		r.Get("/{category}", mr.FetchMenu)
	})
}
