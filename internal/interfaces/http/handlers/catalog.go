// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/insight-pyme/internal/config"
	"github.com/your-org/insight-pyme/internal/domain/product"
	"github.com/your-org/insight-pyme/internal/domain/sale"
	"gorm.io/gorm"
)

// CatalogHandler handles the dashboard support endpoints: product selects,
// the raw sales listing and the available date range.
type CatalogHandler struct {
	productService *product.Service
	saleService    *sale.Service
	config         *config.Config
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(db *gorm.DB, cfg *config.Config) *CatalogHandler {
	return &CatalogHandler{
		productService: product.NewService(db, cfg),
		saleService:    sale.NewService(db, cfg),
		config:         cfg,
	}
}

// ListProducts handles GET /productos
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.productService.ListProducts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list products",
		})
		return
	}

	c.JSON(http.StatusOK, products)
}

// ListSales handles GET /ventas?desde=&hasta= (inclusive bounds)
func (h *CatalogHandler) ListSales(c *gin.Context) {
	desde := parseQueryDate(c.Query("desde"))
	hasta := parseQueryDate(c.Query("hasta"))

	sales, err := h.saleService.ListSales(desde, hasta)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list sales",
		})
		return
	}

	c.JSON(http.StatusOK, sales)
}

// GetDateRange handles GET /rango-fechas, used to initialize datepickers
func (h *CatalogHandler) GetDateRange(c *gin.Context) {
	r, err := h.saleService.GetDateRange()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get sales date range",
		})
		return
	}

	c.JSON(http.StatusOK, r)
}

// parseQueryDate converts a YYYY-MM-DD query value; malformed input
// disables the bound rather than failing the request
func parseQueryDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil
	}
	return &t
}
