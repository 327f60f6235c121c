// internal/domain/sale/service.go
package sale

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/insight-pyme/internal/config"
	"gorm.io/gorm"
)

// maxListRows caps the sales listing endpoint
const maxListRows = 1000

// Service handles sale listing and range discovery
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new sale service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// SaleRow is the dashboard listing contract
type SaleRow struct {
	ID       uint    `json:"id"`
	Date     string  `json:"fecha"`
	Customer *string `json:"cliente"`
	Product  *string `json:"producto"`
	Quantity int     `json:"cantidad"`
	Total    float64 `json:"total"`
}

// DateRange holds the min/max sale dates present in the store
type DateRange struct {
	Min *string `json:"min"`
	Max *string `json:"max"`
}

// ListSales returns the newest sales first, capped at 1000 rows.
// Both bounds are inclusive of the whole day.
func (s *Service) ListSales(desde, hasta *time.Time) ([]SaleRow, error) {
	q := s.db.Model(&Sale{}).
		Preload("Customer").
		Preload("Product").
		Order("occurred_at DESC")

	if desde != nil {
		q = q.Where("occurred_at >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where("occurred_at < ?", hasta.AddDate(0, 0, 1))
	}

	var sales []Sale
	if err := q.Limit(maxListRows).Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	rows := make([]SaleRow, 0, len(sales))
	for _, v := range sales {
		row := SaleRow{
			ID:       v.ID,
			Date:     v.OccurredAt.Format(time.RFC3339),
			Quantity: v.Quantity,
			Total:    v.Total,
		}
		if v.Customer != nil {
			name := v.Customer.Name
			row.Customer = &name
		}
		if v.Product.ID != 0 {
			name := v.Product.Name
			row.Product = &name
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GetDateRange returns the earliest and latest sale dates, for datepickers
func (s *Service) GetDateRange() (*DateRange, error) {
	r := &DateRange{}

	var first Sale
	err := s.db.Order("occurred_at ASC").First(&first).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get earliest sale: %w", err)
	}

	var last Sale
	if err := s.db.Order("occurred_at DESC").First(&last).Error; err != nil {
		return nil, fmt.Errorf("failed to get latest sale: %w", err)
	}

	min := first.OccurredAt.Format("2006-01-02")
	max := last.OccurredAt.Format("2006-01-02")
	r.Min = &min
	r.Max = &max
	return r, nil
}
