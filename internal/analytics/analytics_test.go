package analytics_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/Rrens/business-assistant/internal/analytics"
	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

func sale(id, productID int64, qty int, price float64, at time.Time, p domain.Product) domain.SaleDetail {
	p.ID = productID
	return domain.SaleDetail{
		Sale: domain.Sale{
			ID:          id,
			ProductID:   productID,
			Quantity:    qty,
			UnitPrice:   price,
			TotalAmount: float64(qty) * price,
			SaleDate:    at,
		},
		Product: p,
	}
}

func TestBuildSalesReport_Totals(t *testing.T) {
	period, err := domain.PeriodFromDays(base, 7)
	require.NoError(t, err)

	tea := domain.Product{Name: "Tea", Category: "drinks", PurchasePrice: 50}
	sales := []domain.SaleDetail{
		sale(1, 1, 1, 100, base.Add(-48*time.Hour), tea),
		sale(2, 1, 2, 100, base.Add(-24*time.Hour), tea),
		sale(3, 1, 3, 100, base.Add(-time.Hour), tea),
	}

	report := analytics.BuildSalesReport(period, sales, time.UTC)

	assert.Equal(t, 600.0, report.TotalRevenue)
	assert.Equal(t, 6, report.TotalQuantity)
	assert.Equal(t, 3, report.TotalSales)
	assert.Equal(t, 200.0, report.AvgSaleAmount)
	require.Len(t, report.DailySales, 3)
	assert.Equal(t, "2025-06-08", report.DailySales[0].Date)
	assert.Equal(t, "2025-06-10", report.DailySales[2].Date)
	assert.Equal(t, int64(3), report.RecentSales[0].Sale.ID)
}

func TestBuildSalesReport_Empty(t *testing.T) {
	period, err := domain.PeriodFromDays(base, 0)
	require.NoError(t, err)

	report := analytics.BuildSalesReport(period, nil, time.UTC)

	assert.Equal(t, 0.0, report.TotalRevenue)
	assert.Equal(t, 0.0, report.AvgSaleAmount)
	assert.Equal(t, 0, report.TotalSales)
	assert.NotNil(t, report.TopProducts)
	assert.Empty(t, report.TopProducts)
	assert.Empty(t, report.DailySales)
	assert.Empty(t, report.RecentSales)
}

func TestBuildSalesReport_TopProducts(t *testing.T) {
	period, _ := domain.PeriodFromDays(base, 30)

	var sales []domain.SaleDetail
	// seven products, the first two tie on revenue
	revenues := []float64{300, 300, 100, 700, 50, 500, 10}
	for i, r := range revenues {
		pid := int64(i + 1)
		sales = append(sales, sale(pid, pid, 1, r, base.Add(time.Duration(i)*time.Minute), domain.Product{Name: fmt.Sprintf("P%d", pid)}))
	}

	report := analytics.BuildSalesReport(period, sales, time.UTC)

	require.Len(t, report.TopProducts, 5)
	got := make([]int64, 0, 5)
	for _, p := range report.TopProducts {
		got = append(got, p.ProductID)
	}
	assert.Equal(t, []int64{4, 6, 1, 2, 3}, got)
	assert.Equal(t, domain.DefaultCategory, report.TopProducts[0].Category)
}

func TestBuildSalesReport_DailyUsesTimezone(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	period, _ := domain.PeriodFromDays(base, 7)
	late := time.Date(2025, 6, 9, 21, 0, 0, 0, time.UTC) // 02:00 next day in UTC+5

	report := analytics.BuildSalesReport(period, []domain.SaleDetail{sale(1, 1, 1, 10, late, domain.Product{})}, loc)

	require.Len(t, report.DailySales, 1)
	assert.Equal(t, "2025-06-10", report.DailySales[0].Date)
}

func TestRecentSales_LimitAndOrder(t *testing.T) {
	var sales []domain.SaleDetail
	for i := 1; i <= 12; i++ {
		sales = append(sales, sale(int64(i), 1, 1, 1, base.Add(time.Duration(i)*time.Minute), domain.Product{}))
	}
	// same timestamp as sale 12, higher id
	sales = append(sales, sale(13, 1, 1, 1, base.Add(12*time.Minute), domain.Product{}))

	recent := analytics.RecentSales(sales, 10)

	require.Len(t, recent, 10)
	assert.Equal(t, int64(13), recent[0].Sale.ID)
	assert.Equal(t, int64(12), recent[1].Sale.ID)
	assert.Equal(t, int64(4), recent[9].Sale.ID)
}

func TestBuildStockReport(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Name: "Coffee", Category: "drinks", PurchasePrice: 10, SellingPrice: 15, StockQuantity: 5, MinStock: 10},
		{ID: 2, Name: "Cups", Category: "supplies", PurchasePrice: 1, SellingPrice: 2, StockQuantity: 100, MinStock: 20},
		{ID: 3, Name: "Milk", Category: "drinks", PurchasePrice: 3, SellingPrice: 5, StockQuantity: 0, MinStock: 12},
		{ID: 4, Name: "Sugar", Category: "", PurchasePrice: 2, SellingPrice: 3, StockQuantity: 8, MinStock: 8},
	}

	report := analytics.BuildStockReport(products)

	assert.Equal(t, 4, report.TotalProducts)
	assert.Equal(t, 50.0+100.0+0+16.0, report.TotalStockValue)
	assert.Equal(t, 75.0+200.0+0+24.0, report.PotentialRevenue)
	assert.Equal(t, 3, report.LowStockCount)

	require.Len(t, report.NeedRestock, 3)
	assert.Equal(t, "Milk", report.NeedRestock[0].Name)
	assert.Equal(t, 12, report.NeedRestock[0].NeedQuantity)
	assert.Equal(t, "Coffee", report.NeedRestock[1].Name)
	assert.Equal(t, 5, report.NeedRestock[1].NeedQuantity)
	assert.Equal(t, 0, report.NeedRestock[2].NeedQuantity)

	for i := 1; i < len(report.NeedRestock); i++ {
		assert.GreaterOrEqual(t, report.NeedRestock[i-1].NeedQuantity, report.NeedRestock[i].NeedQuantity)
	}

	require.Len(t, report.Categories, 3)
	assert.Equal(t, "drinks", report.Categories[0].Category)
	assert.Equal(t, 2, report.Categories[0].Products)
	assert.Equal(t, 5, report.Categories[0].TotalStock)
	assert.Equal(t, domain.DefaultCategory, report.Categories[1].Category)

	assert.Equal(t, domain.StockStatusLow, report.StockDetails[0].Status)
	assert.Equal(t, domain.StockStatusNormal, report.StockDetails[1].Status)
}

func TestBuildStockReport_LowStockNeedsRestock(t *testing.T) {
	report := analytics.BuildStockReport([]domain.Product{
		{ID: 7, Name: "Widget", StockQuantity: 5, MinStock: 10},
	})

	require.Len(t, report.NeedRestock, 1)
	assert.Equal(t, int64(7), report.NeedRestock[0].ProductID)
	assert.Equal(t, 5, report.NeedRestock[0].NeedQuantity)
}

func TestBuildFinancialOverview(t *testing.T) {
	period, _ := domain.PeriodFromDays(base, 10)

	drinks := domain.Product{Name: "Tea", Category: "drinks", PurchasePrice: 40}
	food := domain.Product{Name: "Cake", Category: "food", PurchasePrice: 100}
	sales := []domain.SaleDetail{
		sale(1, 1, 5, 60, base.Add(-time.Hour), drinks),   // revenue 300, cost 200
		sale(2, 2, 2, 150, base.Add(-time.Hour), food),    // revenue 300, cost 200
		sale(3, 1, 5, 80, base.Add(-time.Minute), drinks), // revenue 400, cost 200
	}
	products := []domain.Product{
		{ID: 1, PurchasePrice: 40, SellingPrice: 80, StockQuantity: 10},
		{ID: 2, PurchasePrice: 100, SellingPrice: 150, StockQuantity: 6},
	}

	overview := analytics.BuildFinancialOverview(period, sales, products)

	assert.Equal(t, 1000.0, overview.Revenue.Total)
	assert.Equal(t, 600.0, overview.Cost)
	assert.Equal(t, 400.0, overview.Profit.Total)
	assert.InDelta(t, 40.0, overview.Profit.Margin, 1e-9)
	assert.InDelta(t, 100.0, overview.Revenue.DailyAvg, 1e-9)
	assert.InDelta(t, 1000.0, overview.Revenue.Forecast, 1e-9)
	assert.InDelta(t, 40.0, overview.Profit.DailyAvg, 1e-9)

	assert.Equal(t, 1000.0, overview.Assets.StockValue)
	assert.Equal(t, 1700.0, overview.Assets.PotentialRevenue)
	assert.Equal(t, 700.0, overview.Assets.PotentialProfit)

	assert.Equal(t, 3, overview.Efficiency.TotalSales)
	assert.InDelta(t, 333.333, overview.Efficiency.AvgSaleAmount, 1e-3)
	assert.InDelta(t, 1.0, overview.Efficiency.StockTurnover, 1e-9)

	require.Len(t, overview.CategoryPerformance, 2)
	assert.Equal(t, "drinks", overview.CategoryPerformance[0].Category)
	assert.Equal(t, 700.0, overview.CategoryPerformance[0].Revenue)
	assert.Equal(t, 300.0, overview.CategoryPerformance[0].Profit)
	assert.Equal(t, 10, overview.CategoryPerformance[0].Quantity)

	require.Len(t, overview.KeyMetrics, 5)
	assert.Equal(t, "ROI", overview.KeyMetrics[3].Name)
	assert.InDelta(t, 40.0, overview.KeyMetrics[3].Value, 1e-9)
}

func TestBuildFinancialOverview_NoSalesIsZero(t *testing.T) {
	for _, days := range []int{0, 30} {
		t.Run(fmt.Sprintf("%d days", days), func(t *testing.T) {
			period, _ := domain.PeriodFromDays(base, days)

			overview := analytics.BuildFinancialOverview(period, nil, nil)

			assert.Equal(t, 0.0, overview.Revenue.Total)
			assert.Equal(t, 0.0, overview.Revenue.DailyAvg)
			assert.Equal(t, 0.0, overview.Revenue.Forecast)
			assert.Equal(t, 0.0, overview.Profit.Margin)
			assert.Equal(t, 0.0, overview.Efficiency.AvgSaleAmount)
			assert.Equal(t, 0.0, overview.Efficiency.StockTurnover)
			assert.Empty(t, overview.CategoryPerformance)
		})
	}
}

func TestBuildWarehouseSummary(t *testing.T) {
	products := []domain.Product{
		{PurchasePrice: 10, StockQuantity: 3, MinStock: 5},
		{PurchasePrice: 2, StockQuantity: 10, MinStock: 1},
	}
	week := []domain.SaleDetail{
		sale(1, 1, 2, 25, base, domain.Product{}),
	}

	summary := analytics.BuildWarehouseSummary(products, week)

	assert.Equal(t, 2, summary.TotalProducts)
	assert.Equal(t, 1, summary.LowStockCount)
	assert.Equal(t, 50.0, summary.StockValue)
	assert.Equal(t, 50.0, summary.WeeklyRevenue)
	assert.Equal(t, 1, summary.WeeklySales)
}

func conv(id int64, category, text string, at time.Time) domain.Conversation {
	return domain.Conversation{ID: id, Category: category, UserMessage: text, CreatedAt: at, LastMessageAt: at}
}

func TestBuildDailyActivity(t *testing.T) {
	convs := []domain.Conversation{
		conv(1, "general", "a", base),
		conv(2, "general", "b", base.Add(-24*time.Hour)),
		conv(3, "legal", "c", base.Add(-24*time.Hour)),
		conv(4, "legal", "d", base.Add(-48*time.Hour)),
		conv(5, "legal", "e", base.Add(-48*time.Hour)),
	}

	activity := analytics.BuildDailyActivity(convs, time.UTC)

	assert.Equal(t, 5, activity.Total)
	require.Len(t, activity.Days, 3)
	assert.Equal(t, "2025-06-08", activity.Days[0].Date)
	require.NotNil(t, activity.MostActiveDay)
	assert.Equal(t, "2025-06-08", activity.MostActiveDay.Date)
	assert.Equal(t, 2, activity.MostActiveDay.Count)
}

func TestBuildDailyActivity_Empty(t *testing.T) {
	activity := analytics.BuildDailyActivity(nil, time.UTC)

	assert.Equal(t, 0, activity.Total)
	assert.Empty(t, activity.Days)
	assert.Nil(t, activity.MostActiveDay)
}

func TestBuildCategoryInsights(t *testing.T) {
	long := "Помогите составить договор поставки товаров для розничного магазина на год"
	convs := []domain.Conversation{
		conv(1, "legal", long, base),
		conv(2, "legal", "short", base.Add(-time.Hour)),
		conv(3, "", "no category", base.Add(-2*time.Hour)),
		conv(4, "legal", "third", base.Add(-3*time.Hour)),
		conv(5, "legal", "fourth", base.Add(-4*time.Hour)),
	}

	insights := analytics.BuildCategoryInsights(convs)

	require.Len(t, insights, 2)
	assert.Equal(t, "legal", insights[0].Category)
	assert.Equal(t, 4, insights[0].Count)
	assert.Equal(t, base, insights[0].LastUsed)
	require.Len(t, insights[0].Examples, 3)
	assert.Equal(t, analytics.ExampleLength+3, len([]rune(insights[0].Examples[0])))
	assert.Equal(t, "short", insights[0].Examples[1])
	assert.Equal(t, domain.DefaultCategory, insights[1].Category)
}

func TestBuildActivityTrend(t *testing.T) {
	period, _ := domain.PeriodFromDays(base, 3)
	convs := []domain.Conversation{
		conv(1, "", "", base),
		conv(2, "", "", base.Add(-time.Hour)),
		conv(3, "", "", base.Add(-48*time.Hour)),
		conv(4, "", "", base.Add(-10*24*time.Hour)), // outside the period
	}

	trend := analytics.BuildActivityTrend(convs, period, time.UTC)

	require.Len(t, trend.Days, 4)
	assert.Equal(t, []domain.DayCount{
		{Date: "2025-06-07", Count: 0},
		{Date: "2025-06-08", Count: 1},
		{Date: "2025-06-09", Count: 0},
		{Date: "2025-06-10", Count: 2},
	}, trend.Days)
	assert.Equal(t, 3, trend.Total)
	assert.InDelta(t, 0.75, trend.AveragePerDay, 1e-9)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "hello", analytics.Snippet("hello", 50))
	assert.Equal(t, "hel…", analytics.Snippet("hello", 3))
	assert.Equal(t, "при…", analytics.Snippet("привет", 3))
}
