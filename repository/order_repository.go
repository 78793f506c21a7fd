package repository

import (
	"context"
	"fmt"
	"frietkot_server/database"
	"frietkot_server/lib"
	"frietkot_server/structs"
	"frietkot_server/structs/tables"
	"time"

	"github.com/uptrace/bun"
)

// OrderRepository runs the order and order item queries.
type OrderRepository struct {
	db bun.IDB
}

func NewOrderRepository(db bun.IDB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts the order and its items in one transaction. Item order ids are
// filled in from the new order; the returned order carries the stored items.
func (repo *OrderRepository) CreateOrder(ctx context.Context, order *tables.Order, items []tables.OrderItem) (*tables.Order, error) {
	return database.TransactionWithResult(ctx, repo.db, func(ctx context.Context, tx bun.Tx) (*tables.Order, error) {
		created, err := database.Query[tables.Order](tx).Insert(ctx, order)
		if err != nil {
			return nil, lib.MapPgError(err)
		}

		for i := range items {
			items[i].OrderID = created.ID
		}

		stored, err := database.Query[tables.OrderItem](tx).InsertMany(ctx, items)
		if err != nil {
			return nil, lib.MapPgError(err)
		}

		created.Items = stored
		return created, nil
	})
}

// ListOrders returns all orders, newest first.
func (repo *OrderRepository) ListOrders(ctx context.Context) ([]tables.Order, error) {
	orders, err := database.Query[tables.Order](repo.db).
		OrderBy("o.order_date", database.DESC).
		OrderBy("o.id", database.DESC).
		Timeout(queryTimeout).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns the order with its items in insertion order.
func (repo *OrderRepository) GetOrder(ctx context.Context, id int64) (*tables.Order, error) {
	order, err := database.Query[tables.Order](repo.db).
		With("Items", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("oi.id ASC")
		}).
		Where("o.id", id).
		First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	if order == nil {
		return nil, lib.ErrNotFound
	}
	return order, nil
}

func (repo *OrderRepository) UpdateOrderStatus(ctx context.Context, id int64, status tables.OrderStatus) error {
	n, err := database.Query[tables.Order](repo.db).
		Where("id", id).
		Update(ctx, map[string]any{"status": status})
	if err != nil {
		return lib.MapPgError(err)
	}
	if n == 0 {
		return lib.ErrNotFound
	}
	return nil
}

// CountOrdersByStatus counts orders with from <= order_date < to, per status.
func (repo *OrderRepository) CountOrdersByStatus(ctx context.Context, from, to time.Time) (map[tables.OrderStatus]int, error) {
	var rows []structs.StatusCount
	err := database.Query[tables.Order](repo.db).
		Select("status").
		ColumnExpr("count(*) AS count").
		WhereOp("order_date", ">=", from).
		WhereOp("order_date", "<", to).
		GroupBy("status").
		Timeout(queryTimeout).
		ScanInto(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	counts := make(map[tables.OrderStatus]int, len(rows))
	for _, row := range rows {
		counts[tables.OrderStatus(row.Status)] += row.Count
	}
	return counts, nil
}

// ListOrderTotals returns date and total of every order, oldest first.
func (repo *OrderRepository) ListOrderTotals(ctx context.Context) ([]structs.OrderTotal, error) {
	var rows []structs.OrderTotal
	err := database.Query[tables.Order](repo.db).
		Select("order_date", "total_price").
		OrderBy("o.order_date", database.ASC).
		Timeout(queryTimeout).
		ScanInto(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list order totals: %w", err)
	}
	return rows, nil
}
