package repositories

import (
	"github.com/danuartha/kopistore/app/models"
	"gorm.io/gorm"
)

// CartRepository handles database operations for Cart and CartItem.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// WithTx returns a copy bound to the given transaction handle so the cart
// clear at the end of checkout rolls back with the rest of the order.
func (r *CartRepository) WithTx(tx *gorm.DB) *CartRepository {
	return &CartRepository{db: tx}
}

// FindByUser looks up a user's cart without its items.
func (r *CartRepository) FindByUser(userID uint) (models.Cart, error) {
	var cart models.Cart
	err := r.db.Where("user_id = ?", userID).First(&cart).Error
	return cart, err
}

// FindByUserWithItems loads a user's cart with all item lines.
func (r *CartRepository) FindByUserWithItems(userID uint) (models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	return cart, err
}

// FindByUserWithProducts loads a user's cart with item lines and their
// products, for the priced cart view.
func (r *CartRepository) FindByUserWithProducts(userID uint) (models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error
	return cart, err
}

// Create persists a new cart.
func (r *CartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// FindItem looks up a cart line by cart and product, used to merge
// repeated adds into a single row.
func (r *CartRepository) FindItem(cartID, productID uint) (models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	return item, err
}

// FindItemByID looks up a cart line by primary key.
func (r *CartRepository) FindItemByID(itemID uint) (models.CartItem, error) {
	var item models.CartItem
	err := r.db.First(&item, itemID).Error
	return item, err
}

// FindItemCart loads the cart owning an item, for ownership checks.
func (r *CartRepository) FindItemCart(item models.CartItem) (models.Cart, error) {
	var cart models.Cart
	err := r.db.First(&cart, item.CartID).Error
	return cart, err
}

// SaveItem persists a new or updated cart line.
func (r *CartRepository) SaveItem(item *models.CartItem) error {
	return r.db.Save(item).Error
}

// CreateItem persists a new cart line.
func (r *CartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// DeleteItem removes a single cart line.
func (r *CartRepository) DeleteItem(item *models.CartItem) error {
	return r.db.Delete(item).Error
}

// ClearItems removes every line from a cart.
func (r *CartRepository) ClearItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
