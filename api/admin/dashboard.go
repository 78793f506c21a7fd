package admin

import (
	"frietkot_server/views"
	"net/http"
)

const recentOrderCount = 10

// Dashboard shows today's counters, the latest orders and the monthly and yearly totals.
func (ar *AdminRoutesManager) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	daily, err := ar.orders.GetDailyOrderCounts(ctx)
	if err != nil {
		ar.renderError(w, err, "Failed to load daily order counts")
		return
	}

	monthly, err := ar.orders.GetMonthlyOrderStats(ctx)
	if err != nil {
		ar.renderError(w, err, "Failed to load monthly order stats")
		return
	}

	yearly, err := ar.orders.GetYearlyRevenueStats(ctx)
	if err != nil {
		ar.renderError(w, err, "Failed to load yearly revenue stats")
		return
	}

	orders, err := ar.orders.GetOrders(ctx)
	if err != nil {
		ar.renderError(w, err, "Failed to load orders")
		return
	}
	if len(orders) > recentOrderCount {
		orders = orders[:recentOrderCount]
	}

	ar.renderer.Render(w, http.StatusOK, "dashboard", views.Data{
		"Title":        "Dashboard",
		"Daily":        daily,
		"Monthly":      monthly,
		"Yearly":       yearly,
		"RecentOrders": orders,
	})
}

func (ar *AdminRoutesManager) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	daily, err := ar.orders.GetDailyOrderCounts(ctx)
	if err != nil {
		ar.renderError(w, err, "Failed to load daily order counts")
		return
	}

	monthly, err := ar.orders.GetMonthlyOrderStats(ctx)
	if err != nil {
		ar.renderError(w, err, "Failed to load monthly order stats")
		return
	}

	yearly, err := ar.orders.GetYearlyRevenueStats(ctx)
	if err != nil {
		ar.renderError(w, err, "Failed to load yearly revenue stats")
		return
	}

	ar.renderer.Render(w, http.StatusOK, "stats", views.Data{
		"Title":   "Statistics",
		"Daily":   daily,
		"Monthly": monthly,
		"Yearly":  yearly,
	})
}
