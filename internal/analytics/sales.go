// Package analytics reduces stored records into report summaries.
// Every function here is a pure read over its inputs.
package analytics

import (
	"sort"
	"time"

	"github.com/Rrens/business-assistant/internal/domain"
)

const (
	DateLayout       = "2006-01-02"
	TopProductsLimit = 5
	RecentSalesLimit = 10
)

// BuildSalesReport aggregates sales of one period.
// sales are expected oldest first; ranking ties keep that order.
func BuildSalesReport(period domain.Period, sales []domain.SaleDetail, loc *time.Location) domain.SalesReport {
	report := domain.SalesReport{
		Period:      period,
		TopProducts: []domain.ProductSales{},
		DailySales:  []domain.DailySales{},
		RecentSales: []domain.SaleDetail{},
	}

	byProduct := make(map[int64]int)
	byDay := make(map[string]int)

	for _, d := range sales {
		report.TotalRevenue += d.Sale.TotalAmount
		report.TotalQuantity += d.Sale.Quantity
		report.TotalSales++

		idx, ok := byProduct[d.Sale.ProductID]
		if !ok {
			idx = len(report.TopProducts)
			byProduct[d.Sale.ProductID] = idx
			report.TopProducts = append(report.TopProducts, domain.ProductSales{
				ProductID: d.Sale.ProductID,
				Name:      d.Product.Name,
				Category:  categoryOf(d.Product.Category),
			})
		}
		report.TopProducts[idx].Quantity += d.Sale.Quantity
		report.TopProducts[idx].Revenue += d.Sale.TotalAmount

		day := DayKey(d.Sale.SaleDate, loc)
		dayIdx, ok := byDay[day]
		if !ok {
			dayIdx = len(report.DailySales)
			byDay[day] = dayIdx
			report.DailySales = append(report.DailySales, domain.DailySales{Date: day})
		}
		report.DailySales[dayIdx].Revenue += d.Sale.TotalAmount
		report.DailySales[dayIdx].Quantity += d.Sale.Quantity
		report.DailySales[dayIdx].Count++
	}

	report.AvgSaleAmount = safeDiv(report.TotalRevenue, float64(report.TotalSales))

	sort.SliceStable(report.TopProducts, func(i, j int) bool {
		return report.TopProducts[i].Revenue > report.TopProducts[j].Revenue
	})
	if len(report.TopProducts) > TopProductsLimit {
		report.TopProducts = report.TopProducts[:TopProductsLimit]
	}

	sort.Slice(report.DailySales, func(i, j int) bool {
		return report.DailySales[i].Date < report.DailySales[j].Date
	})

	report.RecentSales = RecentSales(sales, RecentSalesLimit)

	return report
}

// RecentSales returns up to limit sales, newest first, highest id first on equal dates
func RecentSales(sales []domain.SaleDetail, limit int) []domain.SaleDetail {
	recent := make([]domain.SaleDetail, len(sales))
	copy(recent, sales)

	sort.SliceStable(recent, func(i, j int) bool {
		a, b := recent[i].Sale, recent[j].Sale
		if !a.SaleDate.Equal(b.SaleDate) {
			return a.SaleDate.After(b.SaleDate)
		}
		return a.ID > b.ID
	})

	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func categoryOf(category string) string {
	if category == "" {
		return domain.DefaultCategory
	}
	return category
}
