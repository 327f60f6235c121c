// internal/domain/analytics/service.go
package analytics

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/your-org/insight-pyme/internal/config"
	"github.com/your-org/insight-pyme/internal/domain/customer"
	"github.com/your-org/insight-pyme/internal/domain/sale"
	"gorm.io/gorm"
)

// ErrInsufficientData marks a recoverable empty-state forecast result.
// Callers must check for it instead of treating it as a fault.
var ErrInsufficientData = errors.New("insufficient sales data")

// Segment labels assigned by RFM classification
const (
	SegmentVIP        = "VIP"
	SegmentAtRisk     = "En Riesgo"
	SegmentRegular    = "Regular"
	SegmentOccasional = "Ocasional"
)

// atRiskRecencyDays is the recency threshold for the At Risk segment
const atRiskRecencyDays = 90

// clvHorizonYears is the fixed projection horizon for lifetime value
const clvHorizonYears = 2

// weekdayNames are the dashboard labels, Monday first
var weekdayNames = [7]string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

// Service handles analytics business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new analytics service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// KPIRecord is the headline metrics block for the dashboard summary.
// Field names follow the dashboard wire contract.
type KPIRecord struct {
	Revenue         float64 `json:"ventas_mes"` // Legacy name kept for the front-end
	Growth          float64 `json:"crecimiento"`
	AverageTicket   float64 `json:"ticket_promedio"`
	UnitsSold       int64   `json:"productos_vendidos"`
	UniqueCustomers int64   `json:"clientes_unicos"`
}

// ProductRanking is one row of the top-products result
type ProductRanking struct {
	Product  string  `json:"producto"`
	Category *string `json:"categoria,omitempty"`
	Quantity int64   `json:"cantidad"`
	Revenue  float64 `json:"ingreso"`
}

// HourBucket is one of the 24 hourly revenue buckets
type HourBucket struct {
	Hour    string  `json:"hora"`
	Revenue float64 `json:"ventas"`
}

// WeekdayBucket is one of the 7 weekday revenue buckets
type WeekdayBucket struct {
	Day     string  `json:"dia"`
	Revenue float64 `json:"ventas"`
}

// CustomerSegment is one classified customer
type CustomerSegment struct {
	CustomerID  uint    `json:"cliente_id"`
	Name        string  `json:"nombre"`
	RecencyDays int     `json:"recencia"`
	Frequency   int     `json:"frecuencia"`
	Monetary    float64 `json:"monto"`
	Segment     string  `json:"segmento"`
}

// DemandForecast is the naive per-day-average demand projection
type DemandForecast struct {
	EstimatedDemand int     `json:"demanda_estimada"`
	DailyAverage    float64 `json:"promedio_diario"`
	HorizonDays     int     `json:"horizonte_dias"`
}

// GetKPIs computes the KPI summary. Without a range it compares the current
// calendar month to date against the previous full month; with a range every
// metric is computed inside the range and growth compares against the
// immediately preceding window of identical day count.
func (s *Service) GetKPIs(desde, hasta string) (*KPIRecord, error) {
	if desde == "" && hasta == "" {
		return s.currentMonthKPIs()
	}
	return s.rangeKPIs(desde, hasta)
}

// currentMonthKPIs is the default trailing-month policy
func (s *Service) currentMonthKPIs() (*KPIRecord, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	record := &KPIRecord{}

	var revenue float64
	if err := s.db.Model(&sale.Sale{}).
		Where("occurred_at >= ?", monthStart).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum month revenue: %w", err)
	}

	var prevRevenue float64
	if err := s.db.Model(&sale.Sale{}).
		Where("occurred_at >= ? AND occurred_at < ?", prevMonthStart, monthStart).
		Select("COALESCE(SUM(total), 0)").
		Scan(&prevRevenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum previous month revenue: %w", err)
	}

	record.Revenue = round2(revenue)
	record.Growth = round2(growthPercent(revenue, prevRevenue))

	if err := s.fillWindowMetrics(record, func() *gorm.DB {
		return s.db.Model(&sale.Sale{}).Where("occurred_at >= ?", monthStart)
	}); err != nil {
		return nil, err
	}

	return record, nil
}

// rangeKPIs computes every metric inside the explicit range
func (s *Service) rangeKPIs(desde, hasta string) (*KPIRecord, error) {
	d := parseDate(desde)
	h := parseDate(hasta)

	record := &KPIRecord{}

	var revenue float64
	if err := applyRange(s.db.Model(&sale.Sale{}), d, h).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum range revenue: %w", err)
	}

	// Growth needs both ends of the window; a one-sided range has no
	// comparable prior period and reports 0.
	var prevRevenue float64
	if d != nil && h != nil {
		prevDesde, prevHasta := previousWindow(*d, *h)
		if err := s.db.Model(&sale.Sale{}).
			Where("occurred_at >= ?", prevDesde).
			Where("occurred_at < ?", endOfDay(prevHasta)).
			Select("COALESCE(SUM(total), 0)").
			Scan(&prevRevenue).Error; err != nil {
			return nil, fmt.Errorf("failed to sum previous window revenue: %w", err)
		}
	}

	record.Revenue = round2(revenue)
	record.Growth = round2(growthPercent(revenue, prevRevenue))

	if err := s.fillWindowMetrics(record, func() *gorm.DB {
		return applyRange(s.db.Model(&sale.Sale{}), d, h)
	}); err != nil {
		return nil, err
	}

	return record, nil
}

// fillWindowMetrics fills the ticket/units/customers metrics for a window
func (s *Service) fillWindowMetrics(record *KPIRecord, base func() *gorm.DB) error {
	var avgTicket float64
	if err := base().
		Select("COALESCE(AVG(total), 0)").
		Scan(&avgTicket).Error; err != nil {
		return fmt.Errorf("failed to compute average ticket: %w", err)
	}
	record.AverageTicket = round2(avgTicket)

	if err := base().
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&record.UnitsSold).Error; err != nil {
		return fmt.Errorf("failed to sum units sold: %w", err)
	}

	if err := base().
		Where("customer_id IS NOT NULL").
		Select("COUNT(DISTINCT customer_id)").
		Scan(&record.UniqueCustomers).Error; err != nil {
		return fmt.Errorf("failed to count unique customers: %w", err)
	}

	return nil
}

// growthPercent is (current - previous) / previous * 100, defined as 0 when
// the previous period had no revenue.
func growthPercent(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// GetTopProducts ranks products by summed revenue inside the optional range.
// Revenue ties keep the store's default order.
func (s *Service) GetTopProducts(limit int, desde, hasta string) ([]ProductRanking, error) {
	if limit <= 0 {
		limit = 10
	}
	d := parseDate(desde)
	h := parseDate(hasta)

	q := s.db.Model(&sale.Sale{}).
		Select("products.name AS product, products.category AS category, COALESCE(SUM(sales.quantity), 0) AS quantity, COALESCE(SUM(sales.total), 0) AS revenue").
		Joins("JOIN products ON products.id = sales.product_id")
	q = applyRange(q, d, h)

	var rows []ProductRanking
	if err := q.Group("products.id, products.name, products.category").
		Order("SUM(sales.total) DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to rank products: %w", err)
	}

	for i := range rows {
		rows[i].Revenue = round2(rows[i].Revenue)
	}
	if rows == nil {
		rows = []ProductRanking{}
	}
	return rows, nil
}

// GetSalesByHour buckets revenue by the naive local hour of each sale.
// Always returns all 24 buckets in ascending hour order, zero-filled.
func (s *Service) GetSalesByHour(desde, hasta string) ([]HourBucket, error) {
	sales, err := s.salesInRange(desde, hasta)
	if err != nil {
		return nil, err
	}

	var totals [24]float64
	for _, v := range sales {
		totals[v.OccurredAt.Hour()] += v.Total
	}

	buckets := make([]HourBucket, 24)
	for hour := 0; hour < 24; hour++ {
		buckets[hour] = HourBucket{
			Hour:    fmt.Sprintf("%02d:00", hour),
			Revenue: round2(totals[hour]),
		}
	}
	return buckets, nil
}

// GetSalesByWeekday buckets revenue by weekday, Monday first.
// Always returns all 7 buckets, zero-filled.
func (s *Service) GetSalesByWeekday(desde, hasta string) ([]WeekdayBucket, error) {
	sales, err := s.salesInRange(desde, hasta)
	if err != nil {
		return nil, err
	}

	var totals [7]float64
	for _, v := range sales {
		// time.Weekday is Sunday=0; the dashboard orders Monday=0
		totals[(int(v.OccurredAt.Weekday())+6)%7] += v.Total
	}

	buckets := make([]WeekdayBucket, 7)
	for day := 0; day < 7; day++ {
		buckets[day] = WeekdayBucket{
			Day:     weekdayNames[day],
			Revenue: round2(totals[day]),
		}
	}
	return buckets, nil
}

// salesInRange loads the matching sale rows for in-memory bucketing
func (s *Service) salesInRange(desde, hasta string) ([]sale.Sale, error) {
	d := parseDate(desde)
	h := parseDate(hasta)

	var sales []sale.Sale
	if err := applyRange(s.db.Model(&sale.Sale{}), d, h).
		Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	return sales, nil
}

// rfmTotals accumulates per-customer recency/frequency/monetary inputs
type rfmTotals struct {
	lastSale  time.Time
	frequency int
	monetary  float64
}

// SegmentCustomers classifies every customer with at least one sale using
// RFM thresholds over the whole population, persists the labels in one
// atomic batch, and returns the classified records ordered by customer ID.
//
// The percentile thresholds are lower order statistics of the ascending
// sorted population (index len/2 for the frequency median, index
// floor(0.75*len) for the monetary 75th percentile), deliberately not
// interpolated, so results are reproducible against the dashboard.
func (s *Service) SegmentCustomers() ([]CustomerSegment, error) {
	var sales []sale.Sale
	if err := s.db.Where("customer_id IS NOT NULL").
		Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to load sales for segmentation: %w", err)
	}

	byCustomer := make(map[uint]*rfmTotals)
	for _, v := range sales {
		totals, ok := byCustomer[*v.CustomerID]
		if !ok {
			totals = &rfmTotals{}
			byCustomer[*v.CustomerID] = totals
		}
		if v.OccurredAt.After(totals.lastSale) {
			totals.lastSale = v.OccurredAt
		}
		totals.frequency++
		totals.monetary += v.Total
	}
	if len(byCustomer) == 0 {
		return []CustomerSegment{}, nil
	}

	ids := make([]uint, 0, len(byCustomer))
	for id := range byCustomer {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var customers []customer.Customer
	if err := s.db.Where("id IN ?", ids).Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to load customers for segmentation: %w", err)
	}
	names := make(map[uint]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}

	// Population statistics over customers that exist and have sales
	var frequencies []int
	var amounts []float64
	for _, id := range ids {
		if _, ok := names[id]; !ok {
			continue
		}
		frequencies = append(frequencies, byCustomer[id].frequency)
		amounts = append(amounts, byCustomer[id].monetary)
	}
	if len(frequencies) == 0 {
		return []CustomerSegment{}, nil
	}
	sort.Ints(frequencies)
	sort.Float64s(amounts)
	p50Frequency := frequencies[len(frequencies)/2]
	p75Monetary := amounts[int(float64(len(amounts))*0.75)]

	now := time.Now()
	results := make([]CustomerSegment, 0, len(frequencies))
	for _, id := range ids {
		name, ok := names[id]
		if !ok {
			continue
		}
		totals := byCustomer[id]

		recency := 9999
		if !totals.lastSale.IsZero() {
			recency = int(now.Sub(totals.lastSale).Hours() / 24)
		}

		var segment string
		switch {
		case totals.monetary > p75Monetary && totals.frequency > p50Frequency:
			segment = SegmentVIP
		case recency > atRiskRecencyDays:
			segment = SegmentAtRisk
		case totals.frequency > p50Frequency:
			segment = SegmentRegular
		default:
			segment = SegmentOccasional
		}

		results = append(results, CustomerSegment{
			CustomerID:  id,
			Name:        name,
			RecencyDays: recency,
			Frequency:   totals.frequency,
			Monetary:    round2(totals.monetary),
			Segment:     segment,
		})
	}

	// All labels commit together; a failure leaves prior labels untouched
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, res := range results {
			if err := tx.Model(&customer.Customer{}).
				Where("id = ?", res.CustomerID).
				Update("segment", res.Segment).Error; err != nil {
				return fmt.Errorf("failed to persist segment for customer %d: %w", res.CustomerID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// CustomerLifetimeValue projects a customer's value over a fixed 2-year
// horizon from their average sale amount and purchase cadence.
func (s *Service) CustomerLifetimeValue(customerID uint) (float64, error) {
	var sales []sale.Sale
	if err := s.db.Where("customer_id = ?", customerID).
		Order("occurred_at ASC").
		Find(&sales).Error; err != nil {
		return 0, fmt.Errorf("failed to load customer sales: %w", err)
	}
	if len(sales) == 0 {
		return 0.0, nil
	}

	var total float64
	for _, v := range sales {
		total += v.Total
	}
	n := len(sales)
	averageSale := total / float64(n)

	var intervalDays float64
	if n > 1 {
		days := int(sales[n-1].OccurredAt.Sub(sales[0].OccurredAt).Hours() / 24)
		if days == 0 {
			days = 1 // same-day purchases must not zero the interval
		}
		intervalDays = float64(days) / float64(n-1)
	} else {
		intervalDays = 30.0 // flat assumption for a single purchase
	}

	purchasesPerYear := 365.0 / intervalDays
	return round2(averageSale * purchasesPerYear * clvHorizonYears), nil
}

// PredictDemand projects demand for a product over the horizon from the
// average quantity sold per active sale day. Days without sales do not
// lower the average.
func (s *Service) PredictDemand(productID uint, horizonDays int) (*DemandForecast, error) {
	if horizonDays <= 0 {
		horizonDays = 30
	}

	var sales []sale.Sale
	if err := s.db.Where("product_id = ?", productID).
		Order("occurred_at ASC").
		Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to load product sales: %w", err)
	}
	if len(sales) == 0 {
		return nil, ErrInsufficientData
	}

	perDay := make(map[string]int)
	for _, v := range sales {
		perDay[v.OccurredAt.Format(dateLayout)] += v.Quantity
	}

	var totalQuantity int
	for _, qty := range perDay {
		totalQuantity += qty
	}
	dailyAverage := float64(totalQuantity) / float64(len(perDay))

	return &DemandForecast{
		EstimatedDemand: int(math.Round(dailyAverage * float64(horizonDays))),
		DailyAverage:    round2(dailyAverage),
		HorizonDays:     horizonDays,
	}, nil
}
