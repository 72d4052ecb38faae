package services_test

import (
	"testing"
	"time"

	"github.com/danuartha/kopistore/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
// Capped at one connection: each sqlite :memory: connection is its own
// database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Stock{},
		&models.Cart{},
		&models.CartItem{},
		&models.Transaction{},
		&models.TransactionItem{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Phone:        "0800000000",
		Address:      "Jl. Kopi No. 1, Bandung",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createProduct(t *testing.T, db *gorm.DB, name string, price string, qty int) models.Product {
	t.Helper()

	p, err := decimal.NewFromString(price)
	require.NoError(t, err)

	product := models.Product{
		Name:        name,
		Price:       p,
		Category:    "arabica",
		IsAvailable: true,
	}
	require.NoError(t, db.Create(&product).Error)

	stock := models.Stock{
		ProductID:   product.ID,
		Quantity:    qty,
		MinStock:    models.DefaultMinStock,
		LastRestock: time.Now(),
	}
	require.NoError(t, db.Create(&stock).Error)
	return product
}

func stockQuantity(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()

	var stock models.Stock
	require.NoError(t, db.Where("product_id = ?", productID).First(&stock).Error)
	return stock.Quantity
}
