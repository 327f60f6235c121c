// internal/domain/ingest/service_test.go
package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/insight-pyme/internal/config"
	"github.com/your-org/insight-pyme/internal/domain/customer"
	"github.com/your-org/insight-pyme/internal/domain/product"
	"github.com/your-org/insight-pyme/internal/domain/sale"
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

	require.NoError(t, db.AutoMigrate(&customer.Customer{}, &product.Product{}, &sale.Sale{}))

	return NewService(db, &config.Config{}), db
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCustomers(t *testing.T) {
	svc, db := newTestService(t)

	path := writeFile(t, "clientes.csv",
		"id,nombre,correo\n"+
			"1,María Pérez,maria@example.com\n"+
			"2,Jorge Gómez,\n")

	require.NoError(t, svc.LoadCustomers(path))

	var customers []customer.Customer
	require.NoError(t, db.Order("id").Find(&customers).Error)
	require.Len(t, customers, 2)

	assert.Equal(t, "María Pérez", customers[0].Name)
	require.NotNil(t, customers[0].Email)
	assert.Equal(t, "maria@example.com", *customers[0].Email)
	assert.Nil(t, customers[1].Email)
}

func TestLoadCustomersAcceptsHeaderVariants(t *testing.T) {
	svc, db := newTestService(t)

	path := writeFile(t, "clientes.csv",
		"cliente_id,nombre,email\n"+
			"7,Ana Torres,ana@example.com\n")

	require.NoError(t, svc.LoadCustomers(path))

	var c customer.Customer
	require.NoError(t, db.First(&c, 7).Error)
	assert.Equal(t, "Ana Torres", c.Name)
	require.NotNil(t, c.Email)
	assert.Equal(t, "ana@example.com", *c.Email)
}

func TestLoadCustomersUpsertIsIdempotent(t *testing.T) {
	svc, db := newTestService(t)

	first := writeFile(t, "v1.csv", "id,nombre,correo\n1,Maria,old@example.com\n")
	require.NoError(t, svc.LoadCustomers(first))

	second := writeFile(t, "v2.csv", "id,nombre,correo\n1,María Pérez,new@example.com\n")
	require.NoError(t, svc.LoadCustomers(second))

	var count int64
	require.NoError(t, db.Model(&customer.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var c customer.Customer
	require.NoError(t, db.First(&c, 1).Error)
	assert.Equal(t, "María Pérez", c.Name)
	require.NotNil(t, c.Email)
	assert.Equal(t, "new@example.com", *c.Email)
}

func TestLoadCustomersMissingIDFailsWholeFile(t *testing.T) {
	svc, db := newTestService(t)

	path := writeFile(t, "clientes.csv",
		"id,nombre\n"+
			"1,Maria\n"+
			",SinID\n")

	err := svc.LoadCustomers(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")

	// The transaction rolled back the valid first row too
	var count int64
	require.NoError(t, db.Model(&customer.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestLoadProducts(t *testing.T) {
	svc, db := newTestService(t)

	path := writeFile(t, "productos.csv",
		"id,nombre,categoria,precio\n"+
			"1,Café Americano,Bebidas,2.50\n"+
			"2,Croissant,,1.80\n")

	require.NoError(t, svc.LoadProducts(path))

	var products []product.Product
	require.NoError(t, db.Order("id").Find(&products).Error)
	require.Len(t, products, 2)

	assert.Equal(t, "Café Americano", products[0].Name)
	require.NotNil(t, products[0].Category)
	assert.Equal(t, "Bebidas", *products[0].Category)
	assert.Equal(t, 2.50, products[0].Price)
	assert.Nil(t, products[1].Category)
}

func TestLoadProductsPriceHeaderVariants(t *testing.T) {
	svc, db := newTestService(t)

	path := writeFile(t, "productos.csv",
		"producto_id,nombre,valor\n"+
			"3,Jugo Natural,3.20\n")

	require.NoError(t, svc.LoadProducts(path))

	var p product.Product
	require.NoError(t, db.First(&p, 3).Error)
	assert.Equal(t, 3.20, p.Price)
}

func TestLoadSales(t *testing.T) {
	svc, db := newTestService(t)

	path := writeFile(t, "ventas.csv",
		"id,fecha,cliente_id,producto_id,cantidad,precio_unitario,total\n"+
			"1,2024-01-10,1,2,3,2.50,7.50\n"+
			"2,2024-01-11T14:30:00,0,2,1,2.50,2.50\n")

	require.NoError(t, svc.LoadSales(path))

	var sales []sale.Sale
	require.NoError(t, db.Order("id").Find(&sales).Error)
	require.Len(t, sales, 2)

	require.NotNil(t, sales[0].CustomerID)
	assert.Equal(t, uint(1), *sales[0].CustomerID)
	assert.Equal(t, uint(2), sales[0].ProductID)
	assert.Equal(t, 3, sales[0].Quantity)
	assert.Equal(t, 7.50, sales[0].Total)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local), sales[0].OccurredAt)

	// A zero customer reference becomes an anonymous sale
	assert.Nil(t, sales[1].CustomerID)
	assert.Equal(t, 14, sales[1].OccurredAt.Hour())
}

func TestLoadSalesAcceptsAlternateDateFormats(t *testing.T) {
	svc, db := newTestService(t)

	path := writeFile(t, "ventas.csv",
		"id,fecha,producto_id,cantidad,total\n"+
			"1,2024/01/10,1,1,5\n"+
			"2,15/01/2024,1,1,5\n")

	require.NoError(t, svc.LoadSales(path))

	var sales []sale.Sale
	require.NoError(t, db.Order("id").Find(&sales).Error)
	require.Len(t, sales, 2)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local), sales[0].OccurredAt)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local), sales[1].OccurredAt)
}

func TestLoadSalesRejectsUnparseableDate(t *testing.T) {
	svc, db := newTestService(t)

	path := writeFile(t, "ventas.csv",
		"id,fecha,producto_id,cantidad,total\n"+
			"1,10 de enero,1,1,5\n")

	err := svc.LoadSales(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")

	var count int64
	require.NoError(t, db.Model(&sale.Sale{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestReadRowsSniffsSemicolonDelimiter(t *testing.T) {
	svc, db := newTestService(t)

	path := writeFile(t, "clientes.csv",
		"id;nombre;correo\n"+
			"1;María Pérez;maria@example.com\n")

	require.NoError(t, svc.LoadCustomers(path))

	var c customer.Customer
	require.NoError(t, db.First(&c, 1).Error)
	assert.Equal(t, "María Pérez", c.Name)
}

func TestReadRowsSniffsTabDelimiter(t *testing.T) {
	svc, db := newTestService(t)

	path := writeFile(t, "clientes.tsv",
		"id\tnombre\n"+
			"1\tMaría Pérez\n")

	require.NoError(t, svc.LoadCustomers(path))

	var c customer.Customer
	require.NoError(t, db.First(&c, 1).Error)
	assert.Equal(t, "María Pérez", c.Name)
}

func TestReadRowsStripsBOMAndNormalizesHeaders(t *testing.T) {
	svc, db := newTestService(t)

	path := writeFile(t, "clientes.csv",
		"\xef\xbb\xbfID, Nombre , Correo\n"+
			"1, María Pérez , maria@example.com\n")

	require.NoError(t, svc.LoadCustomers(path))

	var c customer.Customer
	require.NoError(t, db.First(&c, 1).Error)
	assert.Equal(t, "María Pérez", c.Name)
	require.NotNil(t, c.Email)
	assert.Equal(t, "maria@example.com", *c.Email)
}

func TestLoadAllWithTruncate(t *testing.T) {
	svc, db := newTestService(t)

	// Stale rows that a truncating reload must wipe
	stale := "Viejo"
	require.NoError(t, db.Create(&customer.Customer{ID: 99, Name: stale}).Error)
	require.NoError(t, db.Create(&product.Product{ID: 99, Name: stale}).Error)
	require.NoError(t, db.Create(&sale.Sale{ID: 99, ProductID: 99, OccurredAt: time.Now(), Quantity: 1, Total: 1}).Error)

	customers := writeFile(t, "clientes.csv", "id,nombre\n1,Maria\n")
	products := writeFile(t, "productos.csv", "id,nombre,precio\n1,Café,2.50\n")
	sales := writeFile(t, "ventas.csv", "id,fecha,cliente_id,producto_id,cantidad,total\n1,2024-01-10,1,1,2,5\n")

	summary, err := svc.LoadAll(customers, products, sales, true)
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.Customers)
	assert.Equal(t, int64(1), summary.Products)
	assert.Equal(t, int64(1), summary.Sales)

	var gone customer.Customer
	err = db.First(&gone, 99).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLoadAllWithoutTruncateKeepsExistingRows(t *testing.T) {
	svc, db := newTestService(t)

	require.NoError(t, db.Create(&customer.Customer{ID: 99, Name: "Existente"}).Error)

	customers := writeFile(t, "clientes.csv", "id,nombre\n1,Maria\n")
	products := writeFile(t, "productos.csv", "id,nombre,precio\n1,Café,2.50\n")
	sales := writeFile(t, "ventas.csv", "id,fecha,producto_id,cantidad,total\n1,2024-01-10,1,2,5\n")

	summary, err := svc.LoadAll(customers, products, sales, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Customers)
}

func TestLoadCustomersMissingFile(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.LoadCustomers(filepath.Join(t.TempDir(), "no-such.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}
