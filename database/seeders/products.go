package seeders

import (
	"time"

	"github.com/danuartha/kopistore/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	Register("products", SeedProducts)
}

func price(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func origPrice(v string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: price(v), Valid: true}
}

// SeedProducts loads the starter coffee catalog with stock rows. Skips
// entirely when any product already exists.
func SeedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	type seedProduct struct {
		product models.Product
		stock   int
	}

	items := []seedProduct{
		{
			product: models.Product{
				Name:           "Gayo Arabica",
				Description:    "Single origin arabica from the Gayo highlands of Aceh.",
				Price:          price("95000"),
				OriginalPrice:  origPrice("110000"),
				Category:       "arabica",
				IsAvailable:    true,
				IsFeatured:     true,
				Specifications: "Altitude: 1200-1600 masl\nHarvest: 2025\nMoisture: 11%",
				Weight:         "250g",
				Type:           "whole bean",
				Origin:         "Aceh, Indonesia",
				Process:        "Wet-hulled",
				RoastLevel:     "Medium",
				FlavorNotes:    "Dark chocolate, herbal, brown sugar",
				BrewingMethods: "V60; French press; Espresso",
				Grade:          "Specialty",
				Certification:  "Fair Trade",
			},
			stock: 40,
		},
		{
			product: models.Product{
				Name:           "Toraja Sapan",
				Description:    "Full-bodied arabica from the Sapan region of North Toraja.",
				Price:          price("105000"),
				Category:       "arabica",
				IsAvailable:    true,
				Specifications: "Altitude: 1400-1800 masl\nHarvest: 2025",
				Weight:         "250g",
				Type:           "whole bean",
				Origin:         "South Sulawesi, Indonesia",
				Process:        "Semi-washed",
				RoastLevel:     "Medium-dark",
				FlavorNotes:    "Spice, caramel, low acidity",
				BrewingMethods: "Tubruk; Moka pot",
				Grade:          "Grade 1",
			},
			stock: 25,
		},
		{
			product: models.Product{
				Name:           "Java Robusta Dampit",
				Description:    "Classic East Java robusta, strong and affordable.",
				Price:          price("55000"),
				Category:       "robusta",
				IsAvailable:    true,
				Weight:         "500g",
				Type:           "ground",
				Origin:         "East Java, Indonesia",
				Process:        "Natural",
				RoastLevel:     "Dark",
				FlavorNotes:    "Earthy, bitter cocoa, nutty",
				BrewingMethods: "Tubruk; Espresso",
				Grade:          "Grade 2",
			},
			stock: 60,
		},
		{
			product: models.Product{
				Name:           "Kintamani Natural",
				Description:    "Bright citrus-forward arabica from the Kintamani plateau.",
				Price:          price("98000"),
				OriginalPrice:  origPrice("120000"),
				Category:       "arabica",
				IsAvailable:    true,
				IsFeatured:     true,
				Specifications: "Altitude: 1300-1700 masl\nVariety: S795",
				Weight:         "200g",
				Type:           "whole bean",
				Origin:         "Bali, Indonesia",
				Process:        "Natural",
				RoastLevel:     "Light",
				FlavorNotes:    "Orange peel, winey, floral",
				BrewingMethods: "V60; Aeropress",
				Grade:          "Specialty",
			},
			stock: 15,
		},
		{
			product: models.Product{
				Name:           "House Blend Drip Bags",
				Description:    "Box of 10 single-serve drip bags of the house blend.",
				Price:          price("65000"),
				Category:       "drip bag",
				IsAvailable:    true,
				Weight:         "10 x 12g",
				Type:           "drip bag",
				Origin:         "Blend",
				RoastLevel:     "Medium",
				FlavorNotes:    "Chocolate, balanced, sweet finish",
				BrewingMethods: "Pour over",
			},
			stock: 80,
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			item.product.CalculateDiscount()
			if err := tx.Create(&item.product).Error; err != nil {
				return err
			}
			stock := models.Stock{
				ProductID:   item.product.ID,
				Quantity:    item.stock,
				MinStock:    models.DefaultMinStock,
				LastRestock: time.Now(),
			}
			if err := tx.Create(&stock).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
