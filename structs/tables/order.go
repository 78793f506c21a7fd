package tables

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`
	ID            int64           `bun:"id,pk,autoincrement" json:"id"`
	OrderDate     time.Time       `bun:"order_date,nullzero,notnull,default:current_timestamp" json:"order_date"`
	TotalPrice    decimal.Decimal `bun:"total_price,type:numeric(10,2),notnull" json:"total_price"`
	Status        OrderStatus     `bun:"status,notnull,default:'pending'" json:"status"`
	CustomerName  *string         `bun:"customer_name" json:"customer_name"`
	Notes         *string         `bun:"notes" json:"notes"`
	Items         []OrderItem     `bun:"rel:has-many,join:id=order_id" json:"items,omitempty"`
}

type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	OrderID       int64  `bun:"order_id,notnull" json:"order_id"`
	ProductID     *int64 `bun:"product_id" json:"product_id"` // nil once the product is deleted

	// Snapshot at the time of ordering
	ProductName string          `bun:"product_name,notnull" json:"product_name"`
	Quantity    int             `bun:"quantity,notnull" json:"quantity"`
	UnitPrice   decimal.Decimal `bun:"unit_price,type:numeric(10,2),notnull" json:"unit_price"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderStatuses lists the statuses in display order.
var OrderStatuses = []OrderStatus{OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled}
