// internal/domain/product/entity.go
package product

import (
	"time"
)

// Product represents a catalog product
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:120" json:"name"`
	Category  *string   `gorm:"size:80;index" json:"category,omitempty"`
	Price     float64   `gorm:"default:0" json:"price"` // Unit price, >= 0
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Product) TableName() string { return "products" }
