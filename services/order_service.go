package services

import (
	"context"
	"errors"
	"fmt"
	"frietkot_server/lib"
	"frietkot_server/structs"
	"frietkot_server/structs/tables"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
)

// OrderStore is the persistence the order service needs.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *tables.Order, items []tables.OrderItem) (*tables.Order, error)
	ListOrders(ctx context.Context) ([]tables.Order, error)
	GetOrder(ctx context.Context, id int64) (*tables.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status tables.OrderStatus) error
	CountOrdersByStatus(ctx context.Context, from, to time.Time) (map[tables.OrderStatus]int, error)
	ListOrderTotals(ctx context.Context) ([]structs.OrderTotal, error)
}

// ProductLookup resolves catalogue products for order intake.
type ProductLookup interface {
	GetProduct(ctx context.Context, id int64) (*tables.Product, error)
}

// PlaceholderProductName is used for order lines submitted without a name.
const PlaceholderProductName = "Unknown product"

// OrderHeader holds the order fields besides its items.
type OrderHeader struct {
	Status       tables.OrderStatus
	CustomerName string
	Notes        string
	// TotalPrice is what the caller believes the total is. The stored total is
	// always recomputed from the items.
	TotalPrice *decimal.Decimal
}

// LineItem is a normalised order line.
type LineItem struct {
	ProductID   *int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// RawLineItem is an order line exactly as it arrived from a form.
type RawLineItem struct {
	ProductID   string
	ProductName string
	Quantity    string
	UnitPrice   string
}

// PlaceOrderRequest is the JSON body of the order intake endpoint.
type PlaceOrderRequest struct {
	CustomerName string                 `json:"customer_name" validate:"max=100"`
	Notes        string                 `json:"notes" validate:"max=500"`
	Items        []PlaceOrderItemRequest `json:"items" validate:"required,min=1,max=50,dive"`
}

type PlaceOrderItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,min=1,max=100"`
}

var (
	msgNoItems         = "No order items supplied."
	msgNoProduct       = "Please select a valid product for the order."
	msgNegativePrice   = "Unit price cannot be negative."
	msgInvalidStatus   = "Order status must be one of: pending, completed, cancelled."
	msgOrderNotFound   = "Order not found."
	msgUnknownProduct  = "One of the ordered products does not exist."
	msgStatusForbidden = "The order status cannot be changed from %s to %s."
)

type OrderService struct {
	logger   *gecho.Logger
	store    OrderStore
	products ProductLookup
	location *time.Location
	now      func() time.Time
}

func NewOrderService(logger *gecho.Logger, store OrderStore, products ProductLookup, location *time.Location) *OrderService {
	if location == nil {
		location = time.Local
	}
	return &OrderService{
		logger:   logger,
		store:    store,
		products: products,
		location: location,
		now:      time.Now,
	}
}

// NormalizeLineItems applies the lenient parsing rules for hand-entered order lines:
// unparsable ids become nil, blank names become the placeholder, bad quantities
// become 1 and bad prices become 0. A placeholder line without product is rejected.
func NormalizeLineItems(raw []RawLineItem) ([]LineItem, error) {
	if len(raw) == 0 {
		return nil, lib.Invalid(msgNoItems)
	}

	items := make([]LineItem, 0, len(raw))
	for _, r := range raw {
		var productID *int64
		if id, err := strconv.ParseInt(strings.TrimSpace(r.ProductID), 10, 64); err == nil && id > 0 {
			productID = &id
		}

		name := strings.TrimSpace(r.ProductName)
		if name == "" {
			name = PlaceholderProductName
		}
		if name == PlaceholderProductName && productID == nil {
			return nil, lib.Invalid(msgNoProduct)
		}

		quantity, err := strconv.Atoi(strings.TrimSpace(r.Quantity))
		if err != nil || quantity < 1 {
			quantity = 1
		}

		price, err := lib.ParseAmount(r.UnitPrice)
		if err != nil {
			price = decimal.Zero
		}
		if price.IsNegative() {
			return nil, lib.Invalid(msgNegativePrice)
		}

		items = append(items, LineItem{
			ProductID:   productID,
			ProductName: name,
			Quantity:    quantity,
			UnitPrice:   price.Round(2),
		})
	}

	return items, nil
}

// OrderTotal sums quantity times unit price over all items.
func OrderTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2)
}

// AddOrder stores the order and its items atomically.
func (os *OrderService) AddOrder(ctx context.Context, header OrderHeader, items []LineItem) (*tables.Order, error) {
	if !header.Status.Valid() {
		return nil, lib.Invalid(msgInvalidStatus)
	}
	if len(items) == 0 {
		return nil, lib.Invalid(msgNoItems)
	}

	total := OrderTotal(items)
	if header.TotalPrice != nil && !header.TotalPrice.Round(2).Equal(total) {
		os.logger.Warn("Submitted order total does not match its items, using computed total",
			gecho.Field("submitted", header.TotalPrice.StringFixed(2)),
			gecho.Field("computed", total.StringFixed(2)),
		)
	}

	order := &tables.Order{
		TotalPrice:   total,
		Status:       header.Status,
		CustomerName: optionalString(strings.TrimSpace(header.CustomerName)),
		Notes:        optionalString(strings.TrimSpace(header.Notes)),
	}

	rows := make([]tables.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, lib.Invalid("Quantity must be at least 1.")
		}
		rows = append(rows, tables.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.Round(2),
		})
	}

	created, err := os.store.CreateOrder(ctx, order, rows)
	if err != nil {
		if errors.Is(err, lib.ErrForeignKey) {
			return nil, lib.Invalid(msgUnknownProduct)
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	os.logger.Info("Order created",
		gecho.Field("id", created.ID),
		gecho.Field("items", len(rows)),
		gecho.Field("total", total.StringFixed(2)),
	)
	return created, nil
}

// PlaceOrder takes names and prices from the catalogue and stores a pending order.
func (os *OrderService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*tables.Order, error) {
	if err := lib.Validate(req); err != nil {
		return nil, err
	}

	items := make([]LineItem, 0, len(req.Items))
	for _, reqItem := range req.Items {
		product, err := os.products.GetProduct(ctx, reqItem.ProductID)
		if err != nil {
			if errors.Is(err, lib.ErrNotFound) {
				return nil, lib.Invalid(msgUnknownProduct)
			}
			return nil, fmt.Errorf("failed to look up product %d: %w", reqItem.ProductID, err)
		}

		id := product.ID
		items = append(items, LineItem{
			ProductID:   &id,
			ProductName: product.Name,
			Quantity:    reqItem.Quantity,
			UnitPrice:   product.Price,
		})
	}

	return os.AddOrder(ctx, OrderHeader{
		Status:       tables.OrderStatusPending,
		CustomerName: req.CustomerName,
		Notes:        req.Notes,
	}, items)
}

// GetOrders returns all orders, newest first.
func (os *OrderService) GetOrders(ctx context.Context) ([]tables.Order, error) {
	orders, err := os.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (os *OrderService) GetOrderDetails(ctx context.Context, id int64) (*tables.Order, error) {
	order, err := os.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			return nil, lib.NotFound(msgOrderNotFound)
		}
		return nil, err
	}
	return order, nil
}

func (os *OrderService) UpdateOrderStatus(ctx context.Context, id int64, status tables.OrderStatus) error {
	if !status.Valid() {
		return lib.Invalid(msgInvalidStatus)
	}

	order, err := os.GetOrderDetails(ctx, id)
	if err != nil {
		return err
	}

	if !isValidStatusTransition(order.Status, status) {
		return lib.Invalid(fmt.Sprintf(msgStatusForbidden, order.Status, status))
	}

	if err := os.store.UpdateOrderStatus(ctx, id, status); err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			return lib.NotFound(msgOrderNotFound)
		}
		return fmt.Errorf("failed to update order status: %w", err)
	}

	os.logger.Info("Order status updated",
		gecho.Field("order_id", id),
		gecho.Field("old_status", order.Status),
		gecho.Field("new_status", status))

	return nil
}

var orderTransitions = map[tables.OrderStatus][]tables.OrderStatus{
	tables.OrderStatusPending: {
		tables.OrderStatusCompleted,
		tables.OrderStatusCancelled,
	},
	tables.OrderStatusCompleted: {},
	tables.OrderStatusCancelled: {},
}

// NextOrderStatuses lists the statuses an order may move to from current.
func NextOrderStatuses(current tables.OrderStatus) []tables.OrderStatus {
	return slices.Clone(orderTransitions[current])
}

func isValidStatusTransition(current, next tables.OrderStatus) bool {
	allowedNextStates, exists := orderTransitions[current]
	if !exists {
		return false
	}

	return slices.Contains(allowedNextStates, next)
}
