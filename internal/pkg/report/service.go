// internal/pkg/report/service.go
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/insight-pyme/internal/config"
	"github.com/your-org/insight-pyme/internal/domain/analytics"
)

// Service handles PDF report generation
type Service struct {
	config *config.Config
}

// NewService creates a new report service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// CompanyInfo identifies the business on the report header
type CompanyInfo struct {
	Name    string
	Address string
	Email   string
	Website string
}

// SalesReportData is everything the sales summary template needs
type SalesReportData struct {
	Title       string
	Period      string
	GeneratedAt string
	Company     CompanyInfo
	KPIs        *analytics.KPIRecord
	TopProducts []analytics.ProductRanking
}

// GenerateSalesReport renders the sales summary for a period as a PDF
func (s *Service) GenerateSalesReport(kpis *analytics.KPIRecord, topProducts []analytics.ProductRanking, desde, hasta string) (*bytes.Buffer, error) {
	period := "Mes actual"
	if desde != "" || hasta != "" {
		period = fmt.Sprintf("%s a %s", orDash(desde), orDash(hasta))
	}

	data := SalesReportData{
		Title:       "Resumen de Ventas",
		Period:      period,
		GeneratedAt: time.Now().Format("02/01/2006 15:04"),
		Company: CompanyInfo{
			Name:    s.config.Reports.CompanyName,
			Address: s.config.Reports.CompanyAddress,
			Email:   s.config.Reports.CompanyEmail,
			Website: s.config.Reports.CompanyWebsite,
		},
		KPIs:        kpis,
		TopProducts: topProducts,
	}

	// Generate HTML from template
	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	// Convert HTML to PDF
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	// Set PDF options
	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	// Add page from HTML content
	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	// Create PDF
	err = pdfg.Create()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data SalesReportData) (string, error) {
	tmpl := template.Must(template.New("sales-report").Parse(salesReportTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute report template: %w", err)
	}
	return buf.String(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
