package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultMinStock is applied when a stock row is created implicitly by a
// restock or increase against a product without one.
const DefaultMinStock = 10

// Stock is the authoritative quantity record, one row per product.
// Quantity is only ever written through the inventory service; the
// conditional-update decrement keeps it non-negative under concurrency.
type Stock struct {
	gorm.Model
	ProductID   uint      `gorm:"uniqueIndex;not null" json:"product_id"`
	Quantity    int       `gorm:"not null;default:0" json:"quantity"`
	MinStock    int       `gorm:"not null;default:10" json:"min_stock"`
	LastRestock time.Time `json:"last_restock"`

	Product *Product `json:"-"`
}

// IsLow reports whether quantity is at or below the configured threshold.
func (s *Stock) IsLow() bool {
	return s.Quantity <= s.MinStock
}
