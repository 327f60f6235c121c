// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"

	"github.com/your-org/insight-pyme/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound marks a lookup for a product id that does not exist.
// Handlers map it to a 404 instead of a server fault.
var ErrNotFound = errors.New("product not found")

// Service handles product catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductOption is the minimal row the dashboard needs to populate selects
type ProductOption struct {
	ID   uint   `json:"id"`
	Name string `json:"nombre"`
}

// ListProducts returns all products ordered by name
func (s *Service) ListProducts() ([]ProductOption, error) {
	var options []ProductOption
	err := s.db.Model(&Product{}).
		Select("id, name").
		Order("name ASC").
		Scan(&options).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return options, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var p Product
	if err := s.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}
