package orders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"frietkot_server/api/middleware"
	"frietkot_server/lib"
	"frietkot_server/services"
	"frietkot_server/structs"
	"frietkot_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type stubPlacer struct {
	got *services.PlaceOrderRequest
	err error
}

func (s *stubPlacer) PlaceOrder(ctx context.Context, req *services.PlaceOrderRequest) (*tables.Order, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &tables.Order{
		ID:         12,
		Status:     tables.OrderStatusPending,
		TotalPrice: decimal.RequireFromString("5.60"),
		OrderDate:  time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func newTestRouter(placer OrderPlacer) chi.Router {
	logger := gecho.NewDefaultLogger()
	cfg := &structs.Config{Cors: &structs.CorsConfig{AllowOrigins: []string{"*"}}}
	r := chi.NewRouter()
	NewOrderRoutesManager(logger, placer, middleware.NewMiddleware(cfg, logger, nil)).RegisterRoutes(r)
	return r
}

func postJSON(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/orders/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrder(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		placeErr   error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "placed",
			body:       `{"customer_name":"Jan","items":[{"product_id":3,"quantity":2}]}`,
			wantStatus: http.StatusOK,
			wantBody:   `order_id`,
		},
		{
			name:       "malformed json",
			body:       `{"items":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "no items",
			body:       `{"items":[]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown product",
			body:       `{"items":[{"product_id":99,"quantity":1}]}`,
			placeErr:   lib.Invalid("One of the ordered products does not exist."),
			wantStatus: http.StatusBadRequest,
			wantBody:   "One of the ordered products does not exist.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placer := &stubPlacer{err: tt.placeErr}
			rec := postJSON(newTestRouter(placer), tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestCreateOrderPassesRequest(t *testing.T) {
	placer := &stubPlacer{}
	postJSON(newTestRouter(placer), `{"customer_name":"Jan","notes":"extra zout","items":[{"product_id":3,"quantity":2}]}`)

	if assert.NotNil(t, placer.got) {
		assert.Equal(t, "Jan", placer.got.CustomerName)
		assert.Equal(t, "extra zout", placer.got.Notes)
		assert.Equal(t, []services.PlaceOrderItemRequest{{ProductID: 3, Quantity: 2}}, placer.got.Items)
	}
}
