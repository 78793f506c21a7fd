package services

import (
	"context"
	"fmt"
	"frietkot_server/structs"
	"frietkot_server/structs/tables"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DayBounds returns [start of day, start of next day) for t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func (os *OrderService) GetDailyOrderCounts(ctx context.Context) (*structs.DailyOrderCounts, error) {
	from, to := DayBounds(os.now(), os.location)

	counts, err := os.store.CountOrdersByStatus(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily order counts: %w", err)
	}

	daily := &structs.DailyOrderCounts{
		Pending:   counts[tables.OrderStatusPending],
		Completed: counts[tables.OrderStatusCompleted],
	}
	for _, n := range counts {
		daily.Total += n
	}
	return daily, nil
}

func (os *OrderService) GetMonthlyOrderStats(ctx context.Context) ([]structs.MonthlyOrderStats, error) {
	totals, err := os.store.ListOrderTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly order stats: %w", err)
	}
	return BucketMonthly(totals, os.location), nil
}

func (os *OrderService) GetYearlyRevenueStats(ctx context.Context) ([]structs.YearlyRevenueStats, error) {
	totals, err := os.store.ListOrderTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get yearly revenue stats: %w", err)
	}
	return BucketYearly(totals, os.location), nil
}

// BucketMonthly groups orders per calendar month in loc, oldest month first.
func BucketMonthly(totals []structs.OrderTotal, loc *time.Location) []structs.MonthlyOrderStats {
	type monthKey struct {
		year  int
		month time.Month
	}

	buckets := make(map[monthKey]*structs.MonthlyOrderStats)
	for _, t := range totals {
		date := t.OrderDate.In(loc)
		key := monthKey{year: date.Year(), month: date.Month()}

		bucket, ok := buckets[key]
		if !ok {
			bucket = &structs.MonthlyOrderStats{
				Month:        fmt.Sprintf("%s %d", key.month, key.year),
				Year:         key.year,
				MonthNumber:  key.month,
				TotalRevenue: decimal.Zero,
				TotalProfit:  decimal.Zero,
			}
			buckets[key] = bucket
		}
		bucket.TotalOrders++
		bucket.TotalRevenue = bucket.TotalRevenue.Add(t.TotalPrice)
	}

	stats := make([]structs.MonthlyOrderStats, 0, len(buckets))
	for _, bucket := range buckets {
		stats = append(stats, *bucket)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Year != stats[j].Year {
			return stats[i].Year < stats[j].Year
		}
		return stats[i].MonthNumber < stats[j].MonthNumber
	})
	return stats
}

// BucketYearly groups revenue per calendar year in loc, oldest year first.
func BucketYearly(totals []structs.OrderTotal, loc *time.Location) []structs.YearlyRevenueStats {
	buckets := make(map[int]decimal.Decimal)
	for _, t := range totals {
		year := t.OrderDate.In(loc).Year()
		buckets[year] = buckets[year].Add(t.TotalPrice)
	}

	stats := make([]structs.YearlyRevenueStats, 0, len(buckets))
	for year, revenue := range buckets {
		stats = append(stats, structs.YearlyRevenueStats{
			Year:         year,
			TotalRevenue: revenue,
			TotalProfit:  decimal.Zero,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Year < stats[j].Year
	})
	return stats
}
