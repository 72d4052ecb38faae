package models

import "gorm.io/gorm"

// User owns carts and transactions; both cascade on user removal.
type User struct {
	gorm.Model
	Username     string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"` // bcrypt, never serialised
	Phone        string `gorm:"size:20;not null" json:"phone"`
	FullName     string `gorm:"size:200" json:"full_name"`
	Address      string `gorm:"type:text;not null" json:"address"`
	City         string `gorm:"size:100" json:"city"`
	PostalCode   string `gorm:"size:10" json:"postal_code"`
	Province     string `gorm:"size:100" json:"province"`
	IsAdmin      bool   `gorm:"default:false" json:"is_admin"`
	IsVerified   bool   `gorm:"default:false" json:"is_verified"`

	Carts        []Cart        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Transactions []Transaction `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
