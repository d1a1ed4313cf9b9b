package analytics

import (
	"sort"
	"time"

	"github.com/Rrens/business-assistant/internal/domain"
)

// BuildFinancialOverview combines the sales of a period with the live inventory.
// Cost uses each product's current purchase price, not a historical snapshot.
func BuildFinancialOverview(period domain.Period, sales []domain.SaleDetail, products []domain.Product) domain.FinancialOverview {
	days := period.Days()

	var revenue, cost float64
	byCategory := make(map[string]int)
	categories := []domain.CategoryPerformance{}

	for _, d := range sales {
		saleCost := d.Cost()
		revenue += d.Sale.TotalAmount
		cost += saleCost

		category := categoryOf(d.Product.Category)
		idx, ok := byCategory[category]
		if !ok {
			idx = len(categories)
			byCategory[category] = idx
			categories = append(categories, domain.CategoryPerformance{Category: category})
		}
		categories[idx].Revenue += d.Sale.TotalAmount
		categories[idx].Cost += saleCost
		categories[idx].Profit += d.Sale.TotalAmount - saleCost
		categories[idx].Quantity += d.Sale.Quantity
	}

	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Revenue != categories[j].Revenue {
			return categories[i].Revenue > categories[j].Revenue
		}
		return categories[i].Category < categories[j].Category
	})

	var stockValue, potentialRevenue float64
	for i := range products {
		stockValue += products[i].StockValue()
		potentialRevenue += products[i].PotentialRevenue()
	}

	profit := revenue - cost
	dailyAvg := safeDiv(revenue, days)
	margin := safeDiv(profit, revenue) * 100
	turnover := safeDiv(revenue, stockValue)
	roi := safeDiv(profit, stockValue) * 100

	return domain.FinancialOverview{
		Period:     period,
		PeriodDays: days,
		Revenue: domain.RevenueSummary{
			Total:    revenue,
			DailyAvg: dailyAvg,
			Forecast: dailyAvg * days,
		},
		Cost: cost,
		Profit: domain.ProfitSummary{
			Total:    profit,
			Margin:   margin,
			DailyAvg: safeDiv(profit, days),
		},
		Assets: domain.AssetSummary{
			StockValue:       stockValue,
			PotentialRevenue: potentialRevenue,
			PotentialProfit:  potentialRevenue - stockValue,
		},
		Efficiency: domain.EfficiencySummary{
			TotalSales:    len(sales),
			AvgSaleAmount: safeDiv(revenue, float64(len(sales))),
			StockTurnover: turnover,
		},
		CategoryPerformance: categories,
		KeyMetrics: []domain.KeyMetric{
			{Name: "Выручка", Value: revenue, Format: domain.MetricCurrency},
			{Name: "Прибыль", Value: profit, Format: domain.MetricCurrency},
			{Name: "Маржа", Value: margin, Format: domain.MetricPercent},
			{Name: "ROI", Value: roi, Format: domain.MetricPercent},
			{Name: "Оборот склада", Value: turnover, Format: domain.MetricNumber},
		},
	}
}

// BuildWarehouseSummary is the short digest of inventory plus the last week of sales
func BuildWarehouseSummary(products []domain.Product, weekSales []domain.SaleDetail) domain.WarehouseSummary {
	summary := domain.WarehouseSummary{
		TotalProducts: len(products),
		WeeklySales:   len(weekSales),
	}
	for i := range products {
		summary.StockValue += products[i].StockValue()
		if products[i].IsLowStock() {
			summary.LowStockCount++
		}
	}
	for _, d := range weekSales {
		summary.WeeklyRevenue += d.Sale.TotalAmount
	}
	return summary
}

// DayKey formats t as a calendar day in loc
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}
