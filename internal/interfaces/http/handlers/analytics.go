// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/insight-pyme/internal/config"
	"github.com/your-org/insight-pyme/internal/domain/analytics"
	"github.com/your-org/insight-pyme/internal/domain/product"
	redisdb "github.com/your-org/insight-pyme/internal/infrastructure/database/redis"
	"gorm.io/gorm"
)

// AnalyticsHandler handles analytics endpoints
type AnalyticsHandler struct {
	analyticsService *analytics.Service
	productService   *product.Service
	cache            *redisdb.Client
	config           *config.Config
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(db *gorm.DB, cache *redisdb.Client, cfg *config.Config) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analytics.NewService(db, cfg),
		productService:   product.NewService(db, cfg),
		cache:            cache,
		config:           cfg,
	}
}

// GetKPIs handles GET /kpis?desde=YYYY-MM-DD&hasta=YYYY-MM-DD.
// Without a range the current month is compared against the previous one.
func (h *AnalyticsHandler) GetKPIs(c *gin.Context) {
	h.cached(c, func() (interface{}, error) {
		return h.analyticsService.GetKPIs(c.Query("desde"), c.Query("hasta"))
	})
}

// GetTopProducts handles GET /top-productos?limite=10&desde=&hasta=
func (h *AnalyticsHandler) GetTopProducts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limite", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	h.cached(c, func() (interface{}, error) {
		return h.analyticsService.GetTopProducts(limit, c.Query("desde"), c.Query("hasta"))
	})
}

// GetSalesByHour handles GET /ventas-por-hora?desde=&hasta=
func (h *AnalyticsHandler) GetSalesByHour(c *gin.Context) {
	h.cached(c, func() (interface{}, error) {
		return h.analyticsService.GetSalesByHour(c.Query("desde"), c.Query("hasta"))
	})
}

// GetSalesByWeekday handles GET /ventas-por-dia?desde=&hasta=
func (h *AnalyticsHandler) GetSalesByWeekday(c *gin.Context) {
	h.cached(c, func() (interface{}, error) {
		return h.analyticsService.GetSalesByWeekday(c.Query("desde"), c.Query("hasta"))
	})
}

// SegmentCustomers handles POST /segmentos. It classifies every customer
// with sales history and persists the labels, so it is never cached.
func (h *AnalyticsHandler) SegmentCustomers(c *gin.Context) {
	segments, err := h.analyticsService.SegmentCustomers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to segment customers",
		})
		return
	}

	c.JSON(http.StatusOK, segments)
}

// GetCustomerLifetimeValue handles GET /clientes/:id/clv
func (h *AnalyticsHandler) GetCustomerLifetimeValue(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cliente_id requerido"})
		return
	}

	clv, err := h.analyticsService.CustomerLifetimeValue(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute customer lifetime value",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cliente_id": id,
		"clv":        clv,
	})
}

// demandRequest is the POST /demanda body the dashboard sends
type demandRequest struct {
	ProductID   uint `json:"producto_id"`
	HorizonDays int  `json:"dias_futuro"`
}

// PredictDemand handles POST /demanda
func (h *AnalyticsHandler) PredictDemand(c *gin.Context) {
	var req demandRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "producto_id requerido"})
		return
	}
	if req.HorizonDays <= 0 {
		req.HorizonDays = 30
	}

	h.respondForecast(c, req.ProductID, req.HorizonDays)
}

// PredictDemandByID handles GET /demanda/:producto_id?dias=30
func (h *AnalyticsHandler) PredictDemandByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("producto_id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "producto_id requerido"})
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("dias", "30"))
	if err != nil || days <= 0 {
		days = 30
	}

	h.respondForecast(c, uint(id), days)
}

// respondForecast maps the forecast result, including the recoverable
// insufficient-data marker the dashboard checks for. An unknown product is
// a 404; a known product without sales is the insufficient-data marker.
func (h *AnalyticsHandler) respondForecast(c *gin.Context, productID uint, horizonDays int) {
	if _, err := h.productService.GetProduct(productID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Producto no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to predict demand",
		})
		return
	}

	forecast, err := h.analyticsService.PredictDemand(productID, horizonDays)
	if errors.Is(err, analytics.ErrInsufficientData) {
		c.JSON(http.StatusOK, gin.H{"error": "Datos insuficientes"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to predict demand",
		})
		return
	}

	c.JSON(http.StatusOK, forecast)
}

// cached serves a read-only analytics response from Redis when possible,
// falling through to computation on any cache miss or cache failure.
func (h *AnalyticsHandler) cached(c *gin.Context, compute func() (interface{}, error)) {
	key := "analytics:" + c.Request.URL.RequestURI()
	useCache := h.config.Cache.Enabled && h.cache != nil

	if useCache {
		var body json.RawMessage
		if err := h.cache.GetJSON(c.Request.Context(), key, &body); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			return
		}
	}

	result, err := compute()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute analytics",
		})
		return
	}

	if useCache {
		// Cache errors only cost us the cache, never the response
		h.cache.SetJSON(c.Request.Context(), key, result, h.config.Cache.TTL)
	}

	c.JSON(http.StatusOK, result)
}
