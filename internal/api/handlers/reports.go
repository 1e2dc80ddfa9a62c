package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/juniorxam/Gestaodevendas/internal/service"
)

// HandleReportGeneral returns the dashboard headline metrics.
func HandleReportGeneral(reports *service.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics, err := reports.GeneralMetrics(c.Request.Context())
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, metrics)
	}
}

// HandleReportDailySeries returns per-day sales for the last ?days= days.
func HandleReportDailySeries(reports *service.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		days, _ := strconv.Atoi(c.Query("days"))
		series, err := reports.DailySeries(c.Request.Context(), days)
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"series": series, "count": len(series)})
	}
}

// HandleReportPeriod assembles the full period report.
func HandleReportPeriod(reports *service.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to := periodQuery(c)
		report, err := reports.PeriodReport(c.Request.Context(), from, to)
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// HandleReportTopCustomers ranks customers by spend in a period.
func HandleReportTopCustomers(reports *service.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to := periodQuery(c)
		limit, _ := strconv.Atoi(c.Query("limit"))
		customers, err := reports.TopCustomers(c.Request.Context(), from, to, limit)
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"customers": customers, "count": len(customers)})
	}
}

// HandleReportSellers ranks registering users by revenue in a period.
func HandleReportSellers(reports *service.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to := periodQuery(c)
		sellers, err := reports.SellerProductivity(c.Request.Context(), from, to)
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sellers": sellers, "count": len(sellers)})
	}
}

// HandleReportStock returns the inventory summary through the report cache.
func HandleReportStock(reports *service.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := reports.StockReport(c.Request.Context())
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
