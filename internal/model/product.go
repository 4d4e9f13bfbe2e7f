package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is an inventory line. Status is stored for reporting queries but is
// always written from the quantity by the application.
type Product struct {
	ID        string          `gorm:"primaryKey;size:16"`
	Name      string          `gorm:"size:256;not null"`
	Category  string          `gorm:"size:128;index"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Supplier  string          `gorm:"size:128"`
	Status    string          `gorm:"size:32;not null"`
	DateAdded string          `gorm:"size:10;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
