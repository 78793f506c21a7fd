package admin

import (
	"fmt"
	"frietkot_server/handling"
	"frietkot_server/lib"
	"frietkot_server/services"
	"frietkot_server/structs/tables"
	"frietkot_server/views"
	"net/http"
	"strings"
)

const testOrderRows = 5

func (ar *AdminRoutesManager) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := ar.orders.GetOrders(r.Context())
	if err != nil {
		ar.renderError(w, err, "Failed to list orders")
		return
	}

	ar.renderer.Render(w, http.StatusOK, "orders", views.Data{
		"Title":  "Orders",
		"Orders": orders,
	})
}

func (ar *AdminRoutesManager) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		ar.renderError(w, err, "Invalid order id")
		return
	}

	order, err := ar.orders.GetOrderDetails(r.Context(), id)
	if err != nil {
		ar.renderError(w, err, "Failed to load order")
		return
	}

	ar.renderer.Render(w, http.StatusOK, "order_detail", views.Data{
		"Title":        fmt.Sprintf("Order #%d", order.ID),
		"Order":        order,
		"NextStatuses": services.NextOrderStatuses(order.Status),
	})
}

func (ar *AdminRoutesManager) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		ar.renderError(w, err, "Invalid order id")
		return
	}

	if err := r.ParseForm(); err != nil {
		ar.renderError(w, lib.Invalid("The submitted form could not be read."), "Invalid status form")
		return
	}

	status := tables.OrderStatus(strings.TrimSpace(r.FormValue("status")))
	if err := ar.orders.UpdateOrderStatus(r.Context(), id, status); err != nil {
		ar.renderError(w, err, "Failed to update order status")
		return
	}

	redirect(w, r, fmt.Sprintf("/admin/orders/%d", id))
}

func (ar *AdminRoutesManager) renderTestOrderForm(w http.ResponseWriter, r *http.Request, status int, message string) {
	products, err := ar.menu.ListProducts(r.Context(), "")
	if err != nil {
		ar.renderError(w, err, "Failed to list products")
		return
	}

	rows := make([]int, testOrderRows)
	for i := range rows {
		rows[i] = i
	}

	ar.renderer.Render(w, status, "test_order", views.Data{
		"Title":    "Add test order",
		"Products": products,
		"Statuses": tables.OrderStatuses,
		"Rows":     rows,
		"Error":    message,
	})
}

func (ar *AdminRoutesManager) TestOrderForm(w http.ResponseWriter, r *http.Request) {
	ar.renderTestOrderForm(w, r, http.StatusOK, "")
}

// AddTestOrder stores an order typed in by hand on the admin form.
func (ar *AdminRoutesManager) AddTestOrder(w http.ResponseWriter, r *http.Request) {
	header, raw, err := handling.ParseOrderForm(r)
	if err == nil {
		var items []services.LineItem
		items, err = services.NormalizeLineItems(raw)
		if err == nil {
			_, err = ar.orders.AddOrder(r.Context(), header, items)
		}
	}
	if err != nil {
		status, message := handling.Classify(err)
		if status != http.StatusBadRequest {
			ar.renderError(w, err, "Failed to add test order")
			return
		}
		ar.renderTestOrderForm(w, r, status, message)
		return
	}

	redirect(w, r, "/admin")
}
