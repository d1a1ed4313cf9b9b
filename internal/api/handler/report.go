package handler

import (
	"net/http"

	"github.com/Rrens/business-assistant/internal/api/response"
	"github.com/Rrens/business-assistant/internal/domain"
)

// ReportHandler serves the sales, stock, finance and activity reports
type ReportHandler struct {
	reports   ReportService
	analytics AnalyticService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports ReportService, analytics AnalyticService) *ReportHandler {
	return &ReportHandler{reports: reports, analytics: analytics}
}

// period resolves ?start=&end= or ?days=, falling back to defaultDays.
// It writes the 400 itself on failure.
func (h *ReportHandler) period(w http.ResponseWriter, r *http.Request, defaultDays int) (domain.Period, bool) {
	start, err := queryTime(r, "start")
	if err != nil {
		response.BadRequest(w, err.Error())
		return domain.Period{}, false
	}
	end, err := queryTime(r, "end")
	if err != nil {
		response.BadRequest(w, err.Error())
		return domain.Period{}, false
	}

	if start != nil || end != nil {
		if start == nil || end == nil {
			response.BadRequest(w, "start and end must be given together")
			return domain.Period{}, false
		}
		period, err := domain.NewPeriod(*start, *end)
		if err != nil {
			response.FromError(w, err)
			return domain.Period{}, false
		}
		return period, true
	}

	days, err := queryInt(r, "days", defaultDays)
	if err != nil {
		response.BadRequest(w, err.Error())
		return domain.Period{}, false
	}
	period, err := h.reports.PeriodFromDays(days)
	if err != nil {
		response.FromError(w, err)
		return domain.Period{}, false
	}
	return period, true
}

// Sales returns the sales report
func (h *ReportHandler) Sales(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	period, ok := h.period(w, r, h.reports.DefaultSalesDays())
	if !ok {
		return
	}

	report, err := h.reports.Sales(r.Context(), userID, period)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, report)
}

// Stock returns the inventory report
func (h *ReportHandler) Stock(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	report, err := h.reports.Stock(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, report)
}

// Finance returns the financial overview
func (h *ReportHandler) Finance(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	period, ok := h.period(w, r, h.reports.DefaultFinanceDays())
	if !ok {
		return
	}

	overview, err := h.reports.Finance(r.Context(), userID, period)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, overview)
}

// Warehouse returns the short warehouse digest
func (h *ReportHandler) Warehouse(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	summary, err := h.reports.WarehouseSummary(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, summary)
}

// Activity returns the per-day histogram of the user's latest conversations and its peak day
func (h *ReportHandler) Activity(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	activity, err := h.analytics.DailyActivity(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, activity)
}

// Categories returns per-category consultation insights
func (h *ReportHandler) Categories(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	insights, err := h.analytics.CategoryInsights(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, insights)
}

// Weekly combines recent activity with the top categories
func (h *ReportHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	report, err := h.analytics.WeeklyReport(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, report)
}
