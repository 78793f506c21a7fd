package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"frietkot_server/api/middleware"
	"frietkot_server/lib"
	"frietkot_server/services"
	"frietkot_server/structs"
	"frietkot_server/structs/tables"
	"frietkot_server/views"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMenu struct{ mock.Mock }

func (m *mockMenu) ListCategories(ctx context.Context) ([]tables.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]tables.Category)
	return categories, args.Error(1)
}

func (m *mockMenu) GetCategory(ctx context.Context, id int64) (*tables.Category, error) {
	args := m.Called(ctx, id)
	category, _ := args.Get(0).(*tables.Category)
	return category, args.Error(1)
}

func (m *mockMenu) CreateCategory(ctx context.Context, name string) (*tables.Category, error) {
	args := m.Called(ctx, name)
	category, _ := args.Get(0).(*tables.Category)
	return category, args.Error(1)
}

func (m *mockMenu) UpdateCategory(ctx context.Context, id int64, name string) (*tables.Category, error) {
	args := m.Called(ctx, id, name)
	category, _ := args.Get(0).(*tables.Category)
	return category, args.Error(1)
}

func (m *mockMenu) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockMenu) ListProducts(ctx context.Context, categoryName string) ([]tables.Product, error) {
	args := m.Called(ctx, categoryName)
	products, _ := args.Get(0).([]tables.Product)
	return products, args.Error(1)
}

func (m *mockMenu) GetProduct(ctx context.Context, id int64) (*tables.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*tables.Product)
	return product, args.Error(1)
}

func (m *mockMenu) CreateProduct(ctx context.Context, in *services.ProductInput) (*tables.Product, error) {
	args := m.Called(ctx, in)
	product, _ := args.Get(0).(*tables.Product)
	return product, args.Error(1)
}

func (m *mockMenu) UpdateProduct(ctx context.Context, id int64, in *services.ProductInput) (*tables.Product, error) {
	args := m.Called(ctx, id, in)
	product, _ := args.Get(0).(*tables.Product)
	return product, args.Error(1)
}

func (m *mockMenu) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockOrders struct{ mock.Mock }

func (m *mockOrders) AddOrder(ctx context.Context, header services.OrderHeader, items []services.LineItem) (*tables.Order, error) {
	args := m.Called(ctx, header, items)
	order, _ := args.Get(0).(*tables.Order)
	return order, args.Error(1)
}

func (m *mockOrders) GetOrders(ctx context.Context) ([]tables.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]tables.Order)
	return orders, args.Error(1)
}

func (m *mockOrders) GetOrderDetails(ctx context.Context, id int64) (*tables.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*tables.Order)
	return order, args.Error(1)
}

func (m *mockOrders) UpdateOrderStatus(ctx context.Context, id int64, status tables.OrderStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockOrders) GetDailyOrderCounts(ctx context.Context) (*structs.DailyOrderCounts, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(*structs.DailyOrderCounts)
	return counts, args.Error(1)
}

func (m *mockOrders) GetMonthlyOrderStats(ctx context.Context) ([]structs.MonthlyOrderStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).([]structs.MonthlyOrderStats)
	return stats, args.Error(1)
}

func (m *mockOrders) GetYearlyRevenueStats(ctx context.Context) ([]structs.YearlyRevenueStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).([]structs.YearlyRevenueStats)
	return stats, args.Error(1)
}

type acceptAllImages struct{}

func (acceptAllImages) MaxUploadBytes() int64                       { return 1 << 20 }
func (acceptAllImages) Validate(data []byte, filename string) error { return nil }

func newTestRouter(t *testing.T) (chi.Router, *mockMenu, *mockOrders) {
	t.Helper()
	logger := gecho.NewDefaultLogger()
	renderer, err := views.NewRenderer(logger)
	require.NoError(t, err)

	cfg := &structs.Config{
		Server:    &structs.ServerConfig{},
		RateLimit: &structs.RateLimitConfig{Enabled: true, AdminLimit: 30, AdminWindow: time.Minute},
	}
	menu, orders := &mockMenu{}, &mockOrders{}
	manager := NewAdminRoutesManager(logger, menu, orders, acceptAllImages{}, renderer, middleware.NewMiddleware(cfg, logger, nil))

	r := chi.NewRouter()
	manager.RegisterRoutes(r)
	return r, menu, orders
}

func postForm(router http.Handler, target string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestDashboard(t *testing.T) {
	router, _, orders := newTestRouter(t)

	recent := make([]tables.Order, 12)
	for i := range recent {
		recent[i] = tables.Order{ID: int64(100 - i), Status: tables.OrderStatusPending, TotalPrice: decimal.NewFromInt(5)}
	}
	orders.On("GetDailyOrderCounts", mock.Anything).Return(&structs.DailyOrderCounts{Total: 4, Pending: 3, Completed: 1}, nil)
	orders.On("GetMonthlyOrderStats", mock.Anything).Return([]structs.MonthlyOrderStats{{Month: "May 2025", TotalOrders: 4, TotalRevenue: decimal.NewFromInt(20)}}, nil)
	orders.On("GetYearlyRevenueStats", mock.Anything).Return([]structs.YearlyRevenueStats{{Year: 2024, TotalRevenue: decimal.RequireFromString("1234.50")}}, nil)
	orders.On("GetOrders", mock.Anything).Return(recent, nil)

	rec := get(router, "/admin")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "May 2025")
	assert.Contains(t, body, "<td>2024</td>")
	assert.Contains(t, body, "€ 1234.50")
	assert.Contains(t, body, "/admin/orders/100")
	assert.Contains(t, body, "/admin/orders/91")
	assert.NotContains(t, body, "/admin/orders/90\"", "only the latest orders are listed")
	orders.AssertExpectations(t)
}

func TestDashboardServiceFailure(t *testing.T) {
	router, _, orders := newTestRouter(t)
	orders.On("GetDailyOrderCounts", mock.Anything).Return(nil, errors.New("connection refused"))

	rec := get(router, "/admin/")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestDashboardYearlyStatsFailure(t *testing.T) {
	router, _, orders := newTestRouter(t)
	orders.On("GetDailyOrderCounts", mock.Anything).Return(&structs.DailyOrderCounts{}, nil)
	orders.On("GetMonthlyOrderStats", mock.Anything).Return([]structs.MonthlyOrderStats{}, nil)
	orders.On("GetYearlyRevenueStats", mock.Anything).Return(nil, errors.New("statement timeout"))

	rec := get(router, "/admin")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	orders.AssertNotCalled(t, "GetOrders", mock.Anything)
}

func TestCreateCategory(t *testing.T) {
	t.Run("redirects after success", func(t *testing.T) {
		router, menu, _ := newTestRouter(t)
		menu.On("CreateCategory", mock.Anything, "Snacks").Return(&tables.Category{ID: 1, Name: "Snacks"}, nil)

		rec := postForm(router, "/admin/categories/add", url.Values{"name": {"Snacks"}})

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/categories", rec.Header().Get("Location"))
		menu.AssertExpectations(t)
	})

	t.Run("duplicate re-renders the form", func(t *testing.T) {
		router, menu, _ := newTestRouter(t)
		menu.On("CreateCategory", mock.Anything, "Snacks").Return(nil, lib.Conflict("A category with this name already exists."))

		rec := postForm(router, "/admin/categories/add", url.Values{"name": {"Snacks"}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "A category with this name already exists.")
		assert.Contains(t, rec.Body.String(), `value="Snacks"`)
	})
}

func TestDeleteCategoryInUse(t *testing.T) {
	router, menu, _ := newTestRouter(t)
	menu.On("DeleteCategory", mock.Anything, int64(2)).Return(lib.Conflict("Cannot delete this category: there are still products linked to it."))
	menu.On("ListCategories", mock.Anything).Return([]tables.Category{{ID: 2, Name: "Frieten"}}, nil)

	rec := postForm(router, "/admin/categories/delete/2", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "still products linked to it")
	assert.Contains(t, rec.Body.String(), "Frieten")
}

func TestEditCategoryFormNotFound(t *testing.T) {
	router, menu, _ := newTestRouter(t)
	menu.On("GetCategory", mock.Anything, int64(5)).Return(nil, lib.NotFound("Category not found."))

	rec := get(router, "/admin/categories/edit/5")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Category not found.")
}

func TestCreateProduct(t *testing.T) {
	t.Run("parses the form", func(t *testing.T) {
		router, menu, _ := newTestRouter(t)
		menu.On("CreateProduct", mock.Anything, mock.MatchedBy(func(in *services.ProductInput) bool {
			return in.Name == "Bicky" && in.Price.Equal(decimal.RequireFromString("4.5")) && in.CategoryID == 3
		})).Return(&tables.Product{ID: 8}, nil)

		rec := postForm(router, "/admin/products/add", url.Values{"name": {"Bicky"}, "price": {"4,50"}, "categoryId": {"3"}})

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/products", rec.Header().Get("Location"))
		menu.AssertExpectations(t)
	})

	t.Run("bad price keeps the input", func(t *testing.T) {
		router, menu, _ := newTestRouter(t)
		menu.On("ListCategories", mock.Anything).Return([]tables.Category{{ID: 3, Name: "Snacks"}}, nil)

		rec := postForm(router, "/admin/products/add", url.Values{"name": {"Bicky"}, "price": {"duur"}, "categoryId": {"3"}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Price must be a valid amount.")
		assert.Contains(t, body, `value="Bicky"`)
		assert.Contains(t, body, `<option value="3" selected>Snacks</option>`)
		menu.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})
}

func TestDeleteProductNotFound(t *testing.T) {
	router, menu, _ := newTestRouter(t)
	menu.On("DeleteProduct", mock.Anything, int64(4)).Return(lib.NotFound("Product not found."))

	rec := postForm(router, "/admin/products/delete/4", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderDetails(t *testing.T) {
	t.Run("shows allowed transitions", func(t *testing.T) {
		router, _, orders := newTestRouter(t)
		orders.On("GetOrderDetails", mock.Anything, int64(7)).Return(&tables.Order{
			ID:         7,
			Status:     tables.OrderStatusPending,
			TotalPrice: decimal.RequireFromString("6.00"),
			Items:      []tables.OrderItem{{ProductName: "Friet", Quantity: 2, UnitPrice: decimal.RequireFromString("3.00")}},
		}, nil)

		rec := get(router, "/admin/orders/7")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `<option value="completed">`)
		assert.Contains(t, rec.Body.String(), "€ 6.00")
	})

	t.Run("missing order is a 404", func(t *testing.T) {
		router, _, orders := newTestRouter(t)
		orders.On("GetOrderDetails", mock.Anything, int64(404)).Return(nil, lib.NotFound("Order not found."))

		rec := get(router, "/admin/orders/404")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Order not found.")
	})

	t.Run("bad id is a 400", func(t *testing.T) {
		router, _, _ := newTestRouter(t)
		rec := get(router, "/admin/orders/abc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	router, _, orders := newTestRouter(t)
	orders.On("UpdateOrderStatus", mock.Anything, int64(7), tables.OrderStatusCompleted).Return(nil)

	rec := postForm(router, "/admin/orders/7/status", url.Values{"status": {"completed"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/orders/7", rec.Header().Get("Location"))
	orders.AssertExpectations(t)
}

func TestAddTestOrder(t *testing.T) {
	t.Run("stores normalised lines", func(t *testing.T) {
		router, _, orders := newTestRouter(t)
		orders.On("AddOrder", mock.Anything,
			mock.MatchedBy(func(h services.OrderHeader) bool { return h.Status == tables.OrderStatusCompleted }),
			mock.MatchedBy(func(items []services.LineItem) bool {
				return len(items) == 1 && items[0].ProductName == "Cola" && items[0].Quantity == 3 && items[0].UnitPrice.Equal(decimal.RequireFromString("2.5"))
			}),
		).Return(&tables.Order{ID: 1}, nil)

		rec := postForm(router, "/admin/test-order/add", url.Values{
			"status":                {"completed"},
			"items[0][productName]": {"Cola"},
			"items[0][quantity]":    {"3"},
			"items[0][unitPrice]":   {"2,50"},
			"items[1][quantity]":    {"1"},
		})

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin", rec.Header().Get("Location"))
		orders.AssertExpectations(t)
	})

	t.Run("no items re-renders the form", func(t *testing.T) {
		router, menu, orders := newTestRouter(t)
		menu.On("ListProducts", mock.Anything, "").Return([]tables.Product{}, nil)

		rec := postForm(router, "/admin/test-order/add", url.Values{"status": {"pending"}, "items[0][quantity]": {"1"}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "No order items supplied.")
		orders.AssertNotCalled(t, "AddOrder", mock.Anything, mock.Anything, mock.Anything)
	})
}
