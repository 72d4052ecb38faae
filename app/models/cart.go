package models

import "gorm.io/gorm"

// Cart is a per-user scratch collection of pending selections, created
// lazily on first add and fully cleared by checkout. Not an audit record.
type Cart struct {
	gorm.Model
	UserID uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Items  []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// CartItem holds one (product, quantity) line. Quantity is always positive;
// an update to zero or below removes the row instead.
type CartItem struct {
	gorm.Model
	CartID    uint `gorm:"not null;index" json:"cart_id"`
	ProductID uint `gorm:"not null;index" json:"product_id"`
	Quantity  int  `gorm:"not null;default:1" json:"quantity"`

	Product *Product `json:"-"`
}
