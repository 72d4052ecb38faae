package repositories

import (
	"time"

	"github.com/danuartha/kopistore/app/models"
	"gorm.io/gorm"
)

// StockRepository is the only writer of stock quantities. The delta
// operations are single conditional UPDATEs so concurrent callers can never
// drive a quantity negative or lose an update.
type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// WithTx returns a copy bound to the given transaction handle. Checkout and
// compensating restock run every stock write through such a copy so the
// decrement commits or rolls back with the order rows.
func (r *StockRepository) WithTx(tx *gorm.DB) *StockRepository {
	return &StockRepository{db: tx}
}

// FindByID looks up a stock row by primary key, with its product attached
// for display fields.
func (r *StockRepository) FindByID(id uint) (models.Stock, error) {
	var stock models.Stock
	err := r.db.Preload("Product").First(&stock, id).Error
	return stock, err
}

// FindByProduct looks up the stock row for a product.
func (r *StockRepository) FindByProduct(productID uint) (models.Stock, error) {
	var stock models.Stock
	err := r.db.Where("product_id = ?", productID).First(&stock).Error
	return stock, err
}

// All returns every stock row with products attached.
func (r *StockRepository) All() ([]models.Stock, error) {
	var stocks []models.Stock
	err := r.db.Preload("Product").Order("product_id").Find(&stocks).Error
	return stocks, err
}

// Low returns rows at or below their minimum threshold.
func (r *StockRepository) Low() ([]models.Stock, error) {
	var stocks []models.Stock
	err := r.db.Preload("Product").Where("quantity <= min_stock").Order("product_id").Find(&stocks).Error
	return stocks, err
}

// Create persists a new stock row.
func (r *StockRepository) Create(stock *models.Stock) error {
	return r.db.Create(stock).Error
}

// Save persists changes to an existing stock row.
func (r *StockRepository) Save(stock *models.Stock) error {
	return r.db.Save(stock).Error
}

// Delete removes a stock row.
func (r *StockRepository) Delete(stock *models.Stock) error {
	return r.db.Delete(stock).Error
}

// ReduceQuantity decrements atomically, guarded by the availability check in
// the WHERE clause:
//
//	UPDATE stocks SET quantity = quantity - ? WHERE product_id = ? AND quantity >= ?
//
// Returns false when no row matched: either the row is missing or the
// quantity is short. Reading the quantity into memory and writing it back
// would race; the affected-row count is the only safe signal.
func (r *StockRepository) ReduceQuantity(productID uint, qty int) (bool, error) {
	res := r.db.Model(&models.Stock{}).
		Where("product_id = ? AND quantity >= ?", productID, qty).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// IncreaseQuantity increments atomically and bumps last_restock. Returns
// false when the product has no stock row yet; the caller creates one.
func (r *StockRepository) IncreaseQuantity(productID uint, qty int) (bool, error) {
	now := time.Now()
	res := r.db.Model(&models.Stock{}).
		Where("product_id = ?", productID).
		Updates(map[string]interface{}{
			"quantity":     gorm.Expr("quantity + ?", qty),
			"last_restock": now,
			"updated_at":   now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
