// internal/interfaces/http/handlers/reports.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/insight-pyme/internal/config"
	"github.com/your-org/insight-pyme/internal/domain/analytics"
	"github.com/your-org/insight-pyme/internal/pkg/report"
	"gorm.io/gorm"
)

// ReportHandler handles exported report endpoints
type ReportHandler struct {
	analyticsService *analytics.Service
	reportService    *report.Service
	config           *config.Config
}

// NewReportHandler creates a new report handler
func NewReportHandler(db *gorm.DB, cfg *config.Config) *ReportHandler {
	return &ReportHandler{
		analyticsService: analytics.NewService(db, cfg),
		reportService:    report.NewService(cfg),
		config:           cfg,
	}
}

// GetSalesReport handles GET /reportes/ventas.pdf?desde=&hasta=
func (h *ReportHandler) GetSalesReport(c *gin.Context) {
	desde := c.Query("desde")
	hasta := c.Query("hasta")

	kpis, err := h.analyticsService.GetKPIs(desde, hasta)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute report metrics",
		})
		return
	}

	topProducts, err := h.analyticsService.GetTopProducts(10, desde, hasta)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute report rankings",
		})
		return
	}

	pdf, err := h.reportService.GenerateSalesReport(kpis, topProducts, desde, hasta)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate report",
		})
		return
	}

	filename := fmt.Sprintf("ventas-%s.pdf", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf.Bytes())
}
