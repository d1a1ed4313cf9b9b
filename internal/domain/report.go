package domain

import (
	"fmt"
	"time"
)

// Period is an inclusive reporting window
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PeriodFromDays returns the window [now - days, now]. Zero days is the single instant now.
func PeriodFromDays(now time.Time, days int) (Period, error) {
	if days < 0 {
		return Period{}, fmt.Errorf("%w: period_days must be non-negative, got %d", ErrValidation, days)
	}
	return Period{Start: now.AddDate(0, 0, -days), End: now}, nil
}

// NewPeriod validates an explicit window
func NewPeriod(start, end time.Time) (Period, error) {
	if end.Before(start) {
		return Period{}, fmt.Errorf("%w: period end is before start", ErrValidation)
	}
	return Period{Start: start, End: end}, nil
}

// Contains reports whether t falls inside the window, both ends included
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Days is the window length in days, fractional for explicit windows
func (p Period) Days() float64 {
	return p.End.Sub(p.Start).Hours() / 24
}

// SalesReport summarizes the sales in a period
type SalesReport struct {
	Period        Period         `json:"period"`
	TotalRevenue  float64        `json:"total_revenue"`
	TotalQuantity int            `json:"total_quantity"`
	TotalSales    int            `json:"total_sales"`
	AvgSaleAmount float64        `json:"avg_sale_amount"`
	TopProducts   []ProductSales `json:"top_products"`
	DailySales    []DailySales   `json:"daily_sales"`
	RecentSales   []SaleDetail   `json:"recent_sales"`
}

// ProductSales aggregates the sales of one product
type ProductSales struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// DailySales aggregates the sales of one calendar day
type DailySales struct {
	Date     string  `json:"date"`
	Revenue  float64 `json:"revenue"`
	Quantity int     `json:"quantity"`
	Count    int     `json:"count"`
}

// Stock statuses
const (
	StockStatusLow    = "low"
	StockStatusNormal = "normal"
)

// StockReport summarizes the current inventory
type StockReport struct {
	TotalProducts    int               `json:"total_products"`
	TotalStockValue  float64           `json:"total_stock_value"`
	PotentialRevenue float64           `json:"potential_revenue"`
	LowStockCount    int               `json:"low_stock_count"`
	NeedRestock      []RestockItem     `json:"need_restock"`
	StockDetails     []StockItem       `json:"stock_details"`
	Categories       []CategorySummary `json:"categories"`
}

// RestockItem is a low-stock product with its replenishment need
type RestockItem struct {
	ProductID    int64  `json:"product_id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	CurrentStock int    `json:"current_stock"`
	MinStock     int    `json:"min_stock"`
	NeedQuantity int    `json:"need_quantity"`
}

// StockItem is one product line of the stock report
type StockItem struct {
	ProductID    int64   `json:"product_id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	CurrentStock int     `json:"current_stock"`
	MinStock     int     `json:"min_stock"`
	StockValue   float64 `json:"stock_value"`
	Status       string  `json:"status"`
}

// CategorySummary rolls products up by category
type CategorySummary struct {
	Category   string  `json:"category"`
	Products   int     `json:"products"`
	TotalStock int     `json:"total_stock"`
	TotalValue float64 `json:"total_value"`
}

// FinancialOverview combines sales, cost and asset figures for a period
type FinancialOverview struct {
	Period              Period                `json:"period"`
	PeriodDays          float64               `json:"period_days"`
	Revenue             RevenueSummary        `json:"revenue"`
	Cost                float64               `json:"cost"`
	Profit              ProfitSummary         `json:"profit"`
	Assets              AssetSummary          `json:"assets"`
	Efficiency          EfficiencySummary     `json:"efficiency"`
	CategoryPerformance []CategoryPerformance `json:"category_performance"`
	KeyMetrics          []KeyMetric           `json:"key_metrics"`
}

type RevenueSummary struct {
	Total    float64 `json:"total"`
	DailyAvg float64 `json:"daily_avg"`
	Forecast float64 `json:"forecast"`
}

type ProfitSummary struct {
	Total    float64 `json:"total"`
	Margin   float64 `json:"margin"`
	DailyAvg float64 `json:"daily_avg"`
}

type AssetSummary struct {
	StockValue       float64 `json:"stock_value"`
	PotentialRevenue float64 `json:"potential_revenue"`
	PotentialProfit  float64 `json:"potential_profit"`
}

type EfficiencySummary struct {
	TotalSales    int     `json:"total_sales"`
	AvgSaleAmount float64 `json:"avg_sale_amount"`
	StockTurnover float64 `json:"stock_turnover"`
}

// CategoryPerformance is the revenue, cost and profit of one product category
type CategoryPerformance struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Cost     float64 `json:"cost"`
	Profit   float64 `json:"profit"`
	Quantity int     `json:"quantity"`
}

// Margin is profit as a percentage of revenue, 0 without revenue
func (c CategoryPerformance) Margin() float64 {
	if c.Revenue == 0 {
		return 0
	}
	return c.Profit / c.Revenue * 100
}

// Key metric formats
const (
	MetricCurrency = "currency"
	MetricPercent  = "percent"
	MetricNumber   = "number"
)

type KeyMetric struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Format string  `json:"format"`
}

// WarehouseSummary is the short inventory digest shown in the bot menu
type WarehouseSummary struct {
	TotalProducts int     `json:"total_products"`
	LowStockCount int     `json:"low_stock_count"`
	StockValue    float64 `json:"stock_value"`
	WeeklyRevenue float64 `json:"weekly_revenue"`
	WeeklySales   int     `json:"weekly_sales"`
}

// DailyActivity is the per-day histogram of a user's conversations
type DailyActivity struct {
	Days          []DayCount `json:"days"`
	Total         int        `json:"total"`
	MostActiveDay *DayCount  `json:"most_active_day,omitempty"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CategoryInsight describes how a user uses one conversation category
type CategoryInsight struct {
	Category string    `json:"category"`
	Count    int       `json:"count"`
	LastUsed time.Time `json:"last_used"`
	Examples []string  `json:"examples"`
}

// ActivityTrend is a zero-filled daily conversation series
type ActivityTrend struct {
	Days          []DayCount `json:"days"`
	Total         int        `json:"total"`
	AveragePerDay float64    `json:"average_per_day"`
}
