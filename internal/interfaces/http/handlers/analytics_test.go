// internal/interfaces/http/handlers/analytics_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/insight-pyme/internal/config"
	"github.com/your-org/insight-pyme/internal/domain/customer"
	"github.com/your-org/insight-pyme/internal/domain/product"
	"github.com/your-org/insight-pyme/internal/domain/sale"
	redisdb "github.com/your-org/insight-pyme/internal/infrastructure/database/redis"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAnalyticsRouter(t *testing.T, cacheEnabled bool) (*gin.Engine, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&customer.Customer{}, &product.Product{}, &sale.Sale{}))

	mr := miniredis.RunT(t)
	cache := &redisdb.Client{
		Redis: goredis.NewClient(&goredis.Options{Addr: mr.Addr()}),
	}

	cfg := &config.Config{
		Cache: config.CacheConfig{Enabled: cacheEnabled, TTL: time.Minute},
	}

	h := NewAnalyticsHandler(db, cache, cfg)

	r := gin.New()
	r.GET("/kpis", h.GetKPIs)
	r.GET("/demanda/:producto_id", h.PredictDemandByID)
	r.GET("/clientes/:id/clv", h.GetCustomerLifetimeValue)
	return r, db, mr
}

func seedKPISale(t *testing.T, db *gorm.DB, id uint, total float64) {
	t.Helper()
	require.NoError(t, db.Create(&sale.Sale{
		ID:         id,
		ProductID:  1,
		OccurredAt: time.Date(2024, 1, 11, 10, 0, 0, 0, time.Local),
		Quantity:   1,
		Total:      total,
	}).Error)
}

func TestKPIsResponseIsCachedInRedis(t *testing.T) {
	r, db, mr := newAnalyticsRouter(t, true)
	require.NoError(t, db.Create(&product.Product{ID: 1, Name: "Café"}).Error)
	seedKPISale(t, db, 1, 100)

	url := "/kpis?desde=2024-01-10&hasta=2024-01-12"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ventas_mes":100`)

	// The computed body landed in Redis under the request URI
	assert.True(t, mr.Exists("analytics:"+url))

	// New rows do not show until the cache entry expires
	seedKPISale(t, db, 2, 50)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ventas_mes":100`)

	mr.FastForward(2 * time.Minute)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ventas_mes":150`)
}

func TestKPIsCacheDisabledAlwaysRecomputes(t *testing.T) {
	r, db, mr := newAnalyticsRouter(t, false)
	require.NoError(t, db.Create(&product.Product{ID: 1, Name: "Café"}).Error)
	seedKPISale(t, db, 1, 100)

	url := "/kpis?desde=2024-01-10&hasta=2024-01-12"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Empty(t, mr.Keys())

	seedKPISale(t, db, 2, 50)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ventas_mes":150`)
}

func TestPredictDemandUnknownProductIs404(t *testing.T) {
	r, _, _ := newAnalyticsRouter(t, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/demanda/999", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Producto no encontrado")
}

func TestPredictDemandKnownProductWithoutSales(t *testing.T) {
	r, db, _ := newAnalyticsRouter(t, false)
	require.NoError(t, db.Create(&product.Product{ID: 1, Name: "Café"}).Error)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/demanda/1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Datos insuficientes")
}

func TestCLVRejectsInvalidCustomerID(t *testing.T) {
	r, _, _ := newAnalyticsRouter(t, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/clientes/abc/clv", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cliente_id requerido")
}
