package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction statuses. Membership is validated on update; the transition
// graph itself is deliberately unrestricted.
const (
	StatusPending    = "pending"
	StatusPaid       = "paid"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// ValidStatuses lists every accepted transaction status, in lifecycle order.
func ValidStatuses() []string {
	return []string{StatusPending, StatusPaid, StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled}
}

// IsValidStatus reports whether s is a member of the status set.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// Transaction is an immutable priced order record created by checkout.
// TotalAmount is computed once at creation and never recomputed.
type Transaction struct {
	gorm.Model
	TransactionCode string          `gorm:"size:50;uniqueIndex;not null" json:"transaction_code"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status          string          `gorm:"size:50;not null;default:pending" json:"status"`
	PaymentMethod   string          `gorm:"size:100" json:"payment_method"`
	ShippingAddress string          `gorm:"type:text;not null" json:"shipping_address"`
	Notes           string          `gorm:"type:text" json:"notes"`

	Items []TransactionItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	User  *User             `json:"-"`
}

// TransactionItem snapshots one order line: unit price at purchase time and
// the derived subtotal. Never mutated after insert.
type TransactionItem struct {
	gorm.Model
	TransactionID uint            `gorm:"not null;index" json:"transaction_id"`
	ProductID     uint            `gorm:"not null;index" json:"product_id"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`

	Product *Product `json:"-"`
}
