package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/business-assistant/internal/analytics"
	"github.com/Rrens/business-assistant/internal/config"
	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/rs/zerolog/log"
)

const warehouseSummaryDays = 7

// ReportService builds sales, stock and financial reports
type ReportService struct {
	productRepo domain.ProductRepository
	saleRepo    domain.SaleRepository
	cache       ReportCache
	cfg         config.ReportingConfig
	loc         *time.Location
	now         Clock
}

// NewReportService creates a new report service
func NewReportService(
	productRepo domain.ProductRepository,
	saleRepo domain.SaleRepository,
	cache ReportCache,
	cfg config.ReportingConfig,
) *ReportService {
	if cache == nil {
		cache = NoopCache()
	}
	if cfg.SalesPeriodDays <= 0 {
		cfg.SalesPeriodDays = 30
	}
	if cfg.FinancePeriodDays <= 0 {
		cfg.FinancePeriodDays = 30
	}
	return &ReportService{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		cache:       cache,
		cfg:         cfg,
		loc:         cfg.Location(),
		now:         time.Now,
	}
}

// DefaultSalesDays is the period used when a caller does not choose one
func (s *ReportService) DefaultSalesDays() int {
	return s.cfg.SalesPeriodDays
}

// DefaultFinanceDays is the period used for the financial overview when a caller does not choose one
func (s *ReportService) DefaultFinanceDays() int {
	return s.cfg.FinancePeriodDays
}

// PeriodFromDays resolves [now - days, now]
func (s *ReportService) PeriodFromDays(days int) (domain.Period, error) {
	return domain.PeriodFromDays(s.now(), days)
}

// Sales reports the sales of the user inside period
func (s *ReportService) Sales(ctx context.Context, userID int64, period domain.Period) (*domain.SalesReport, error) {
	sales, err := s.saleRepo.FindByPeriod(ctx, userID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	report := analytics.BuildSalesReport(period, sales, s.loc)
	return &report, nil
}

// SalesForDays reports the sales of the last days
func (s *ReportService) SalesForDays(ctx context.Context, userID int64, days int) (*domain.SalesReport, error) {
	period, err := s.PeriodFromDays(days)
	if err != nil {
		return nil, err
	}
	return s.Sales(ctx, userID, period)
}

// Stock reports the current inventory. The result is cached until the next stock change.
func (s *ReportService) Stock(ctx context.Context, userID int64) (*domain.StockReport, error) {
	const cacheKey = "stock"

	var cached domain.StockReport
	if ok := s.cacheGet(ctx, userID, cacheKey, &cached); ok {
		return &cached, nil
	}

	products, err := s.productRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	report := analytics.BuildStockReport(products)

	s.cacheSet(ctx, userID, cacheKey, report)
	return &report, nil
}

// Finance builds the financial overview of period
func (s *ReportService) Finance(ctx context.Context, userID int64, period domain.Period) (*domain.FinancialOverview, error) {
	sales, err := s.saleRepo.FindByPeriod(ctx, userID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	products, err := s.productRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	overview := analytics.BuildFinancialOverview(period, sales, products)
	return &overview, nil
}

// FinanceForDays builds the financial overview of the last days
func (s *ReportService) FinanceForDays(ctx context.Context, userID int64, days int) (*domain.FinancialOverview, error) {
	period, err := s.PeriodFromDays(days)
	if err != nil {
		return nil, err
	}
	return s.Finance(ctx, userID, period)
}

// WarehouseSummary is the short digest shown in the warehouse menu
func (s *ReportService) WarehouseSummary(ctx context.Context, userID int64) (*domain.WarehouseSummary, error) {
	const cacheKey = "warehouse"

	var cached domain.WarehouseSummary
	if ok := s.cacheGet(ctx, userID, cacheKey, &cached); ok {
		return &cached, nil
	}

	products, err := s.productRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	period, err := s.PeriodFromDays(warehouseSummaryDays)
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.FindByPeriod(ctx, userID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	summary := analytics.BuildWarehouseSummary(products, sales)
	s.cacheSet(ctx, userID, cacheKey, summary)
	return &summary, nil
}

// RecentSales returns the latest sales, newest first
func (s *ReportService) RecentSales(ctx context.Context, userID int64, limit int) ([]domain.SaleDetail, error) {
	if limit <= 0 {
		limit = analytics.RecentSalesLimit
	}
	sales, err := s.saleRepo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent sales: %w", err)
	}
	return sales, nil
}

// Cache failures only cost a recomputation
func (s *ReportService) cacheGet(ctx context.Context, userID int64, key string, dest any) bool {
	ok, err := s.cache.Get(ctx, userID, key, dest)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Str("key", key).Msg("Report cache read failed")
		return false
	}
	return ok
}

func (s *ReportService) cacheSet(ctx context.Context, userID int64, key string, value any) {
	if err := s.cache.Set(ctx, userID, key, value); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Str("key", key).Msg("Report cache write failed")
	}
}
