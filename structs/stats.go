package structs

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyOrderCounts covers the orders placed today in the configured timezone.
type DailyOrderCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

type MonthlyOrderStats struct {
	Month        string          `json:"month"` // "January 2025"
	Year         int             `json:"year"`
	MonthNumber  time.Month      `json:"month_number"`
	TotalOrders  int             `json:"totalOrders"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalProfit  decimal.Decimal `json:"totalProfit"` // deprecated: cost prices are not tracked, always 0
}

type YearlyRevenueStats struct {
	Year         int             `json:"year"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalProfit  decimal.Decimal `json:"totalProfit"` // deprecated: always 0
}

// OrderTotal is the slice of an order needed for revenue bucketing.
type OrderTotal struct {
	OrderDate  time.Time       `bun:"order_date"`
	TotalPrice decimal.Decimal `bun:"total_price"`
}

// StatusCount is one row of a per-status aggregate.
type StatusCount struct {
	Status string `bun:"status"`
	Count  int    `bun:"count"`
}
