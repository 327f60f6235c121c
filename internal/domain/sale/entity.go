// internal/domain/sale/entity.go
package sale

import (
	"time"

	"github.com/your-org/insight-pyme/internal/domain/customer"
	"github.com/your-org/insight-pyme/internal/domain/product"
)

// Sale represents a single sales transaction.
// OccurredAt is the primary ordering/grouping key for every aggregate.
// Total is the authoritative monetary value, not Quantity * UnitPrice.
type Sale struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID *uint     `gorm:"index" json:"customer_id,omitempty"` // A sale may have no customer
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	OccurredAt time.Time `gorm:"not null;index" json:"occurred_at"`
	Quantity   int       `gorm:"default:0" json:"quantity"`
	UnitPrice  float64   `gorm:"default:0" json:"unit_price"`
	Total      float64   `gorm:"default:0" json:"total"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Customer *customer.Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer,omitempty"`
	Product  product.Product    `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"product,omitempty"`
}

// TableName overrides
func (Sale) TableName() string { return "sales" }
