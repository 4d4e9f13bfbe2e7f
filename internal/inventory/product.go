package inventory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus is the stock classification derived from a product's quantity.
type ProductStatus string

const (
	StatusInStock    ProductStatus = "In Stock"
	StatusLowStock   ProductStatus = "Low Stock"
	StatusOutOfStock ProductStatus = "Out of Stock"
)

// LowStockThreshold is the highest quantity still classified as low stock.
const LowStockThreshold = 50

const idPrefix = "PID-"

var (
	// ErrInvalidProduct is returned when product input fails validation.
	ErrInvalidProduct  = errors.New("invalid product")
	ErrProductNotFound = errors.New("product not found")
)

// Product is a single inventory line.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Supplier  string          `json:"supplier"`
	Status    ProductStatus   `json:"status"`
	DateAdded string          `json:"dateAdded"`
}

// ProductInput carries the operator-editable fields of a product. Status is
// intentionally absent: it is always derived from Quantity.
type ProductInput struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Supplier string          `json:"supplier"`
}

// DeriveStatus maps a quantity to its stock status.
func DeriveStatus(quantity int) ProductStatus {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Validate checks the input fields.
func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if in.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidProduct)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	return nil
}

// NewProduct builds a product from validated input with the given id.
func NewProduct(id string, in ProductInput, now time.Time) Product {
	p := Product{
		ID:        id,
		DateAdded: now.Format(time.DateOnly),
	}
	p.apply(in)
	return p
}

// Update returns a copy of p with the input applied. ID and DateAdded are kept.
func (p Product) Update(in ProductInput) Product {
	p.apply(in)
	return p
}

func (p *Product) apply(in ProductInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.Category = strings.TrimSpace(in.Category)
	p.Quantity = in.Quantity
	p.Price = in.Price
	p.Supplier = strings.TrimSpace(in.Supplier)
	p.Status = DeriveStatus(in.Quantity)
}

// NextID returns the id following the highest PID-### among existing.
// Ids that do not parse are ignored.
func NextID(existing []Product) string {
	highest := 0
	for _, p := range existing {
		if n, ok := idNumber(p.ID); ok && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%03d", idPrefix, highest+1)
}

func idNumber(id string) (int, bool) {
	if !strings.HasPrefix(id, idPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, idPrefix))
	if err != nil {
		return 0, false
	}
	return n, true
}

// FilterByStatus returns the products whose status equals s.
func FilterByStatus(products []Product, s ProductStatus) []Product {
	var out []Product
	for _, p := range products {
		if p.Status == s {
			out = append(out, p)
		}
	}
	return out
}

// Counts tallies products per status.
func Counts(products []Product) map[ProductStatus]int {
	counts := map[ProductStatus]int{
		StatusInStock:    0,
		StatusLowStock:   0,
		StatusOutOfStock: 0,
	}
	for _, p := range products {
		counts[p.Status]++
	}
	return counts
}
