// internal/domain/sale/service_test.go
package sale

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/insight-pyme/internal/config"
	"github.com/your-org/insight-pyme/internal/domain/customer"
	"github.com/your-org/insight-pyme/internal/domain/product"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&customer.Customer{}, &product.Product{}, &Sale{}))

	return NewService(db, &config.Config{}), db
}

func TestListSalesNewestFirstWithNames(t *testing.T) {
	svc, db := newTestService(t)

	require.NoError(t, db.Create(&customer.Customer{ID: 1, Name: "María Pérez"}).Error)
	require.NoError(t, db.Create(&product.Product{ID: 1, Name: "Café Americano"}).Error)

	cid := uint(1)
	older := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
	newer := time.Date(2024, 1, 11, 9, 0, 0, 0, time.Local)
	require.NoError(t, db.Create(&Sale{ID: 1, CustomerID: &cid, ProductID: 1, OccurredAt: older, Quantity: 1, Total: 10}).Error)
	require.NoError(t, db.Create(&Sale{ID: 2, ProductID: 1, OccurredAt: newer, Quantity: 2, Total: 20}).Error)

	rows, err := svc.ListSales(nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, uint(2), rows[0].ID)
	assert.Nil(t, rows[0].Customer) // anonymous sale
	require.NotNil(t, rows[0].Product)
	assert.Equal(t, "Café Americano", *rows[0].Product)

	assert.Equal(t, uint(1), rows[1].ID)
	require.NotNil(t, rows[1].Customer)
	assert.Equal(t, "María Pérez", *rows[1].Customer)
}

func TestListSalesRangeIsInclusiveOfFinalDay(t *testing.T) {
	svc, db := newTestService(t)
	require.NoError(t, db.Create(&product.Product{ID: 1, Name: "Café"}).Error)

	inside := time.Date(2024, 1, 12, 23, 59, 0, 0, time.Local)
	outside := time.Date(2024, 1, 13, 0, 1, 0, 0, time.Local)
	require.NoError(t, db.Create(&Sale{ID: 1, ProductID: 1, OccurredAt: inside, Quantity: 1, Total: 10}).Error)
	require.NoError(t, db.Create(&Sale{ID: 2, ProductID: 1, OccurredAt: outside, Quantity: 1, Total: 10}).Error)

	desde := time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local)
	hasta := time.Date(2024, 1, 12, 0, 0, 0, 0, time.Local)
	rows, err := svc.ListSales(&desde, &hasta)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(1), rows[0].ID)
}

func TestListSalesEmptyStore(t *testing.T) {
	svc, _ := newTestService(t)

	rows, err := svc.ListSales(nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Len(t, rows, 0)
}

func TestGetDateRange(t *testing.T) {
	svc, db := newTestService(t)
	require.NoError(t, db.Create(&product.Product{ID: 1, Name: "Café"}).Error)
	require.NoError(t, db.Create(&Sale{ID: 1, ProductID: 1, OccurredAt: time.Date(2024, 1, 5, 9, 0, 0, 0, time.Local), Quantity: 1, Total: 10}).Error)
	require.NoError(t, db.Create(&Sale{ID: 2, ProductID: 1, OccurredAt: time.Date(2024, 3, 20, 9, 0, 0, 0, time.Local), Quantity: 1, Total: 10}).Error)

	r, err := svc.GetDateRange()
	require.NoError(t, err)
	require.NotNil(t, r.Min)
	require.NotNil(t, r.Max)
	assert.Equal(t, "2024-01-05", *r.Min)
	assert.Equal(t, "2024-03-20", *r.Max)
}

func TestGetDateRangeEmptyStore(t *testing.T) {
	svc, _ := newTestService(t)

	r, err := svc.GetDateRange()
	require.NoError(t, err)
	assert.Nil(t, r.Min)
	assert.Nil(t, r.Max)
}
