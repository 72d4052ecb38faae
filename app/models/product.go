package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a coffee catalog entry. Price changes never touch existing
// transaction items; those snapshot the price at checkout.
type Product struct {
	gorm.Model
	Name          string              `gorm:"size:200;not null;index" json:"name"`
	Description   string              `gorm:"type:text" json:"description"`
	Price         decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	OriginalPrice decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"original_price"`
	Category      string              `gorm:"size:100;not null;index" json:"category"`
	ImageURL      string              `gorm:"size:500" json:"image_url"`
	IsAvailable   bool                `gorm:"default:true" json:"is_available"`
	IsFeatured    bool                `gorm:"default:false" json:"is_featured"`

	// Derived from Price vs OriginalPrice; recomputed by CalculateDiscount
	// on every price change, never set directly.
	IsDiscounted       bool    `gorm:"default:false" json:"is_discounted"`
	DiscountPercentage float64 `gorm:"default:0" json:"discount_percentage"`

	Rating *float64 `json:"rating,omitempty"`

	// Coffee attributes.
	Specifications string `gorm:"type:text" json:"specifications"`
	Weight         string `gorm:"size:100" json:"weight"`
	Type           string `gorm:"size:100" json:"type"`
	Origin         string `gorm:"size:200" json:"origin"`
	Process        string `gorm:"size:200" json:"process"`
	RoastLevel     string `gorm:"size:100" json:"roast_level"`
	FlavorNotes    string `gorm:"type:text" json:"flavor_notes"`
	BrewingMethods string `gorm:"type:text" json:"brewing_methods"`
	Grade          string `gorm:"size:100" json:"grade"`
	Certification  string `gorm:"size:200" json:"certification"`

	Stock *Stock `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

var hundred = decimal.NewFromInt(100)

// CalculateDiscount recomputes DiscountPercentage and IsDiscounted from the
// current Price/OriginalPrice pair, rounded to one decimal place. Zero when
// there is no original price or it does not exceed the current price.
func (p *Product) CalculateDiscount() {
	orig := p.OriginalPrice
	if !orig.Valid || orig.Decimal.LessThanOrEqual(decimal.Zero) || !orig.Decimal.GreaterThan(p.Price) {
		p.DiscountPercentage = 0
		p.IsDiscounted = false
		return
	}

	pct := orig.Decimal.Sub(p.Price).Div(orig.Decimal).Mul(hundred).Round(1)
	p.DiscountPercentage, _ = pct.Float64()
	p.IsDiscounted = true
}
