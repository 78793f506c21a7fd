package orders

import (
	"frietkot_server/handling"
	"frietkot_server/lib"
	"frietkot_server/services"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// CreateOrder handles POST /api/orders. Names and prices come from the catalogue.
func (orm *OrderRoutesManager) CreateOrder(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[services.PlaceOrderRequest](r)
	if err != nil {
		handling.HandleError(err, "Failed to read order request", orm.logger, w)
		return
	}

	order, err := orm.orderService.PlaceOrder(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Failed to place order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order placed successfully"),
		gecho.WithData(map[string]any{
			"order_id":    order.ID,
			"status":      order.Status,
			"total_price": order.TotalPrice,
			"order_date":  order.OrderDate,
		}),
		gecho.Send(),
	)
}
