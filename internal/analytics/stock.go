package analytics

import (
	"sort"

	"github.com/Rrens/business-assistant/internal/domain"
)

// BuildStockReport values the inventory and lists what needs restocking
func BuildStockReport(products []domain.Product) domain.StockReport {
	report := domain.StockReport{
		TotalProducts: len(products),
		NeedRestock:   []domain.RestockItem{},
		StockDetails:  make([]domain.StockItem, 0, len(products)),
		Categories:    []domain.CategorySummary{},
	}

	byCategory := make(map[string]int)

	for i := range products {
		p := &products[i]
		category := categoryOf(p.Category)
		value := p.StockValue()

		report.TotalStockValue += value
		report.PotentialRevenue += p.PotentialRevenue()

		status := domain.StockStatusNormal
		if p.IsLowStock() {
			status = domain.StockStatusLow
			report.LowStockCount++
			report.NeedRestock = append(report.NeedRestock, domain.RestockItem{
				ProductID:    p.ID,
				Name:         p.Name,
				Category:     category,
				CurrentStock: p.StockQuantity,
				MinStock:     p.MinStock,
				NeedQuantity: p.RestockNeed(),
			})
		}

		report.StockDetails = append(report.StockDetails, domain.StockItem{
			ProductID:    p.ID,
			Name:         p.Name,
			Category:     category,
			CurrentStock: p.StockQuantity,
			MinStock:     p.MinStock,
			StockValue:   value,
			Status:       status,
		})

		idx, ok := byCategory[category]
		if !ok {
			idx = len(report.Categories)
			byCategory[category] = idx
			report.Categories = append(report.Categories, domain.CategorySummary{Category: category})
		}
		report.Categories[idx].Products++
		report.Categories[idx].TotalStock += p.StockQuantity
		report.Categories[idx].TotalValue += value
	}

	sort.SliceStable(report.NeedRestock, func(i, j int) bool {
		return report.NeedRestock[i].NeedQuantity > report.NeedRestock[j].NeedQuantity
	})
	sort.Slice(report.Categories, func(i, j int) bool {
		return report.Categories[i].Category < report.Categories[j].Category
	})

	return report
}
