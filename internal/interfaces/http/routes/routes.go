// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/insight-pyme/internal/config"
	redisdb "github.com/your-org/insight-pyme/internal/infrastructure/database/redis"
	"github.com/your-org/insight-pyme/internal/interfaces/http/handlers"
	"gorm.io/gorm"
)

// SetupRoutes wires every API endpoint to its handler
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, cache *redisdb.Client, cfg *config.Config) {
	SetupAnalyticsRoutes(rg, db, cache, cfg)
	SetupCatalogRoutes(rg, db, cfg)
	SetupReportRoutes(rg, db, cfg)
}

// SetupAnalyticsRoutes sets up the analytics engine endpoints
func SetupAnalyticsRoutes(rg *gin.RouterGroup, db *gorm.DB, cache *redisdb.Client, cfg *config.Config) {
	analyticsHandler := handlers.NewAnalyticsHandler(db, cache, cfg)

	rg.GET("/kpis", analyticsHandler.GetKPIs)
	rg.GET("/top-productos", analyticsHandler.GetTopProducts)
	rg.GET("/ventas-por-hora", analyticsHandler.GetSalesByHour)
	rg.GET("/ventas-por-dia", analyticsHandler.GetSalesByWeekday)

	rg.POST("/segmentos", analyticsHandler.SegmentCustomers)
	rg.GET("/clientes/:id/clv", analyticsHandler.GetCustomerLifetimeValue)

	// The dashboard posts; the GET variant exists for quick URL checks
	rg.POST("/demanda", analyticsHandler.PredictDemand)
	rg.GET("/demanda/:producto_id", analyticsHandler.PredictDemandByID)
}

// SetupCatalogRoutes sets up the dashboard support endpoints
func SetupCatalogRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	catalogHandler := handlers.NewCatalogHandler(db, cfg)

	rg.GET("/productos", catalogHandler.ListProducts)
	rg.GET("/ventas", catalogHandler.ListSales)
	rg.GET("/rango-fechas", catalogHandler.GetDateRange)
}

// SetupReportRoutes sets up the exported report endpoints
func SetupReportRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	reportHandler := handlers.NewReportHandler(db, cfg)

	rg.GET("/reportes/ventas.pdf", reportHandler.GetSalesReport)
}
