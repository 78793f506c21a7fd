package admin

import (
	"context"
	"frietkot_server/api/middleware"
	"frietkot_server/handling"
	"frietkot_server/services"
	"frietkot_server/structs"
	"frietkot_server/structs/tables"
	"frietkot_server/views"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type MenuServicer interface {
	ListCategories(ctx context.Context) ([]tables.Category, error)
	GetCategory(ctx context.Context, id int64) (*tables.Category, error)
	CreateCategory(ctx context.Context, name string) (*tables.Category, error)
	UpdateCategory(ctx context.Context, id int64, name string) (*tables.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, categoryName string) ([]tables.Product, error)
	GetProduct(ctx context.Context, id int64) (*tables.Product, error)
	CreateProduct(ctx context.Context, in *services.ProductInput) (*tables.Product, error)
	UpdateProduct(ctx context.Context, id int64, in *services.ProductInput) (*tables.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type OrderServicer interface {
	AddOrder(ctx context.Context, header services.OrderHeader, items []services.LineItem) (*tables.Order, error)
	GetOrders(ctx context.Context) ([]tables.Order, error)
	GetOrderDetails(ctx context.Context, id int64) (*tables.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status tables.OrderStatus) error
	GetDailyOrderCounts(ctx context.Context) (*structs.DailyOrderCounts, error)
	GetMonthlyOrderStats(ctx context.Context) ([]structs.MonthlyOrderStats, error)
	GetYearlyRevenueStats(ctx context.Context) ([]structs.YearlyRevenueStats, error)
}

// ImageValidator checks uploads before they reach the menu service.
type ImageValidator interface {
	MaxUploadBytes() int64
	Validate(data []byte, filename string) error
}

type AdminRoutesManager struct {
	logger   *gecho.Logger
	menu     MenuServicer
	orders   OrderServicer
	images   ImageValidator
	renderer *views.Renderer
	mw       *middleware.Middleware
}

func NewAdminRoutesManager(
	logger *gecho.Logger,
	menu MenuServicer,
	orders OrderServicer,
	images ImageValidator,
	renderer *views.Renderer,
	mw *middleware.Middleware,
) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:   logger,
		menu:     menu,
		orders:   orders,
		images:   images,
		renderer: renderer,
		mw:       mw,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		// Inline so the limiter sees the full route pattern.
		limited := r.With(ar.mw.AdminWriteRateLimit())

		r.Get("/", ar.Dashboard)
		r.Get("/stats", ar.Stats)

		r.Get("/categories", ar.ListCategories)
		r.Get("/categories/add", ar.NewCategoryForm)
		limited.Post("/categories/add", ar.CreateCategory)
		r.Get("/categories/edit/{id}", ar.EditCategoryForm)
		limited.Post("/categories/edit/{id}", ar.UpdateCategory)
		limited.Post("/categories/delete/{id}", ar.DeleteCategory)

		r.Get("/products", ar.ListProducts)
		r.Get("/products/add", ar.NewProductForm)
		limited.Post("/products/add", ar.CreateProduct)
		r.Get("/products/edit/{id}", ar.EditProductForm)
		limited.Post("/products/edit/{id}", ar.UpdateProduct)
		limited.Post("/products/delete/{id}", ar.DeleteProduct)

		r.Get("/orders", ar.ListOrders)
		r.Get("/orders/{id}", ar.GetOrderDetails)
		limited.Post("/orders/{id}/status", ar.UpdateOrderStatus)

		r.Get("/test-order/add", ar.TestOrderForm)
		limited.Post("/test-order/add", ar.AddTestOrder)
	})
}

// renderError shows err on the error page. Server errors are logged with msg.
func (ar *AdminRoutesManager) renderError(w http.ResponseWriter, err error, msg string) {
	status, message := handling.Classify(err)
	if status >= http.StatusInternalServerError {
		ar.logger.Error(msg, gecho.Field("error", err))
	}
	ar.renderer.Error(w, status, message)
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}
