// internal/domain/ingest/service.go
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/your-org/insight-pyme/internal/config"
	"github.com/your-org/insight-pyme/internal/domain/customer"
	"github.com/your-org/insight-pyme/internal/domain/product"
	"github.com/your-org/insight-pyme/internal/domain/sale"
	"gorm.io/gorm"
)

// dateLayouts are the accepted sale date formats, tried in order
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"02/01/2006",
	time.RFC3339,
}

// Service bulk-loads customers, products and sales from tabular files,
// upserting by identifier. Analytics calls must not run until a load commits.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new ingest service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// Summary reports the collection sizes after a load run
type Summary struct {
	Customers int64 `json:"customers"`
	Products  int64 `json:"products"`
	Sales     int64 `json:"sales"`
}

// LoadAll loads the three collections, optionally truncating them first
func (s *Service) LoadAll(customersPath, productsPath, salesPath string, truncate bool) (*Summary, error) {
	if truncate {
		if err := s.Truncate(); err != nil {
			return nil, err
		}
	}

	if err := s.LoadCustomers(customersPath); err != nil {
		return nil, err
	}
	if err := s.LoadProducts(productsPath); err != nil {
		return nil, err
	}
	if err := s.LoadSales(salesPath); err != nil {
		return nil, err
	}

	summary := &Summary{}
	s.db.Model(&customer.Customer{}).Count(&summary.Customers)
	s.db.Model(&product.Product{}).Count(&summary.Products)
	s.db.Model(&sale.Sale{}).Count(&summary.Sales)
	return summary, nil
}

// Truncate removes all rows from the three collections, sales first
func (s *Service) Truncate() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&sale.Sale{}).Error; err != nil {
			return fmt.Errorf("failed to truncate sales: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&product.Product{}).Error; err != nil {
			return fmt.Errorf("failed to truncate products: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&customer.Customer{}).Error; err != nil {
			return fmt.Errorf("failed to truncate customers: %w", err)
		}
		return nil
	})
}

// LoadCustomers upserts customers from a CSV file. Accepted headers:
// id|cliente_id, nombre, correo|email.
func (s *Service) LoadCustomers(path string) error {
	rows, err := readRows(path)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, row := range rows {
			idValue := firstNonEmpty(row, "id", "cliente_id")
			if idValue == "" {
				return fmt.Errorf("%s: row %d is missing 'id' (or 'cliente_id')", path, i+1)
			}
			id, err := strconv.ParseUint(idValue, 10, 32)
			if err != nil {
				return fmt.Errorf("%s: row %d has invalid id %q", path, i+1, idValue)
			}

			var c customer.Customer
			err = tx.First(&c, uint(id)).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c = customer.Customer{ID: uint(id)}
			} else if err != nil {
				return fmt.Errorf("failed to look up customer %d: %w", id, err)
			}

			c.Name = row["nombre"]
			c.Email = nil
			if email := firstNonEmpty(row, "correo", "email"); email != "" {
				c.Email = &email
			}

			if err := tx.Save(&c).Error; err != nil {
				return fmt.Errorf("failed to upsert customer %d: %w", id, err)
			}
		}
		return nil
	})
}

// LoadProducts upserts products from a CSV file. Accepted headers:
// id|producto_id, nombre, categoria, precio|valor|price.
func (s *Service) LoadProducts(path string) error {
	rows, err := readRows(path)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, row := range rows {
			idValue := firstNonEmpty(row, "id", "producto_id")
			if idValue == "" {
				return fmt.Errorf("%s: row %d is missing 'id' (or 'producto_id')", path, i+1)
			}
			id, err := strconv.ParseUint(idValue, 10, 32)
			if err != nil {
				return fmt.Errorf("%s: row %d has invalid id %q", path, i+1, idValue)
			}

			var p product.Product
			err = tx.First(&p, uint(id)).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				p = product.Product{ID: uint(id)}
			} else if err != nil {
				return fmt.Errorf("failed to look up product %d: %w", id, err)
			}

			p.Name = row["nombre"]
			p.Category = nil
			if category := row["categoria"]; category != "" {
				p.Category = &category
			}
			p.Price = parseFloat(firstNonEmpty(row, "precio", "valor", "price"))

			if err := tx.Save(&p).Error; err != nil {
				return fmt.Errorf("failed to upsert product %d: %w", id, err)
			}
		}
		return nil
	})
}

// LoadSales upserts sales from a CSV file. Accepted headers: id, fecha,
// cliente_id|id_cliente, producto_id|id_producto, cantidad|qty,
// precio_unitario, total|monto. A zero or absent customer reference is
// stored as NULL.
func (s *Service) LoadSales(path string) error {
	rows, err := readRows(path)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, row := range rows {
			idValue := row["id"]
			if idValue == "" {
				return fmt.Errorf("%s: row %d is missing 'id'", path, i+1)
			}
			id, err := strconv.ParseUint(idValue, 10, 32)
			if err != nil {
				return fmt.Errorf("%s: row %d has invalid id %q", path, i+1, idValue)
			}

			occurredAt, err := parseSaleDate(row["fecha"])
			if err != nil {
				return fmt.Errorf("%s: row %d: %w", path, i+1, err)
			}

			var v sale.Sale
			err = tx.First(&v, uint(id)).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				v = sale.Sale{ID: uint(id)}
			} else if err != nil {
				return fmt.Errorf("failed to look up sale %d: %w", id, err)
			}

			v.OccurredAt = occurredAt
			v.CustomerID = nil
			if customerID := parseUint(firstNonEmpty(row, "cliente_id", "id_cliente")); customerID != 0 {
				v.CustomerID = &customerID
			}
			v.ProductID = parseUint(firstNonEmpty(row, "producto_id", "id_producto"))
			v.Quantity = int(parseUint(firstNonEmpty(row, "cantidad", "qty")))
			v.UnitPrice = parseFloat(row["precio_unitario"])
			v.Total = parseFloat(firstNonEmpty(row, "total", "monto"))

			if err := tx.Save(&v).Error; err != nil {
				return fmt.Errorf("failed to upsert sale %d: %w", id, err)
			}
		}
		return nil
	})
}

// readRows reads a CSV file into normalized key/value rows. The delimiter is
// sniffed from the header line, a UTF-8 BOM is stripped, and headers are
// trimmed and lowercased.
func readRows(path string) ([]map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	text := strings.TrimPrefix(string(content), "\xef\xbb\xbf")
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("%s: no header row detected", path)
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = normalizeKey(h)
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, value := range record {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// sniffDelimiter picks the separator that appears most in the header line
func sniffDelimiter(text string) rune {
	header := text
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		header = text[:idx]
	}

	delimiter := ','
	best := strings.Count(header, ",")
	if n := strings.Count(header, ";"); n > best {
		delimiter, best = ';', n
	}
	if n := strings.Count(header, "\t"); n > best {
		delimiter = '\t'
	}
	return delimiter
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// firstNonEmpty returns the first non-empty value among the given keys
func firstNonEmpty(row map[string]string, keys ...string) string {
	for _, key := range keys {
		if value := row[key]; value != "" {
			return value
		}
	}
	return ""
}

// parseSaleDate tries every accepted date layout
func parseSaleDate(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

func parseUint(value string) uint {
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}
