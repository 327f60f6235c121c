// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"
	"time"

	"github.com/your-org/insight-pyme/internal/domain/customer"
	"github.com/your-org/insight-pyme/internal/domain/product"
	"github.com/your-org/insight-pyme/internal/domain/sale"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Define all models that need migration in dependency order
	models := []interface{}{
		&customer.Customer{},
		&product.Product{},
		&sale.Sale{},
	}

	// Run auto-migration for each model
	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Sale indexes - every aggregate filters or groups on these
		"CREATE INDEX IF NOT EXISTS idx_sales_occurred_at ON sales(occurred_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_sales_customer_occurred ON sales(customer_id, occurred_at)",
		"CREATE INDEX IF NOT EXISTS idx_sales_product_occurred ON sales(product_id, occurred_at)",

		// Customer indexes
		"CREATE INDEX IF NOT EXISTS idx_customers_segment ON customers(segment)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)",
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database indexes created successfully")
	return nil
}

// SeedInitialData seeds demo data in development so the dashboard has
// something to show before the first ETL run
func (m *Migration) SeedInitialData() error {
	var salesCount int64
	m.db.Model(&sale.Sale{}).Count(&salesCount)
	if salesCount > 0 {
		log.Println("⏭️ Sales data already present, skipping seed")
		return nil
	}

	log.Println("🌱 Seeding demo data...")

	bebidas := "Bebidas"
	panaderia := "Panadería"
	products := []product.Product{
		{ID: 1, Name: "Café Americano", Category: &bebidas, Price: 2.50},
		{ID: 2, Name: "Jugo Natural", Category: &bebidas, Price: 3.00},
		{ID: 3, Name: "Croissant", Category: &panaderia, Price: 1.80},
		{ID: 4, Name: "Torta de Chocolate", Category: &panaderia, Price: 4.50},
	}
	for _, p := range products {
		if err := m.db.Create(&p).Error; err != nil {
			return fmt.Errorf("failed to seed product %q: %w", p.Name, err)
		}
	}

	emails := []string{"maria@example.com", "jorge@example.com", "lucia@example.com"}
	names := []string{"María Pérez", "Jorge Gómez", "Lucía Torres"}
	for i := range names {
		c := customer.Customer{ID: uint(i + 1), Name: names[i], Email: &emails[i]}
		if err := m.db.Create(&c).Error; err != nil {
			return fmt.Errorf("failed to seed customer %q: %w", c.Name, err)
		}
	}

	// Spread sales over the last 60 days at varying hours so every
	// dashboard chart has non-trivial shape
	now := time.Now()
	var id uint = 1
	for day := 0; day < 60; day++ {
		for slot := 0; slot < 3; slot++ {
			p := products[(day+slot)%len(products)]
			customerID := uint((day+slot)%len(names) + 1)
			quantity := 1 + (day+slot)%4
			occurredAt := now.AddDate(0, 0, -day).
				Truncate(24 * time.Hour).
				Add(time.Duration(8+5*slot) * time.Hour)

			v := sale.Sale{
				ID:         id,
				CustomerID: &customerID,
				ProductID:  p.ID,
				OccurredAt: occurredAt,
				Quantity:   quantity,
				UnitPrice:  p.Price,
				Total:      float64(quantity) * p.Price,
			}
			if err := m.db.Create(&v).Error; err != nil {
				return fmt.Errorf("failed to seed sale %d: %w", id, err)
			}
			id++
		}
	}

	log.Println("✅ Demo data seeded successfully")
	return nil
}

// GetTableInfo logs current collection sizes
func (m *Migration) GetTableInfo() {
	var customers, products, sales int64
	m.db.Model(&customer.Customer{}).Count(&customers)
	m.db.Model(&product.Product{}).Count(&products)
	m.db.Model(&sale.Sale{}).Count(&sales)
	log.Printf("📊 Table counts - customers: %d, products: %d, sales: %d", customers, products, sales)
}
