// internal/domain/customer/entity.go
package customer

import (
	"time"
)

// Customer represents a customer loaded from the tabular source.
// Segment is derived by the analytics engine, never an ingest input.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:120" json:"name"`
	Email     *string   `gorm:"size:120" json:"email,omitempty"`
	Segment   *string   `gorm:"size:40;index" json:"segment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Customer) TableName() string { return "customers" }
