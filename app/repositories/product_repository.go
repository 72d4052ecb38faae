package repositories

import (
	"github.com/danuartha/kopistore/app/models"
	"gorm.io/gorm"
)

// ProductFilter narrows catalog listings. Zero values mean "no filter".
type ProductFilter struct {
	Category      string
	AvailableOnly bool
	FeaturedOnly  bool
	Search        string // substring match on name
}

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a copy bound to the given transaction handle so product
// writes join a larger unit of work.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var product models.Product
	err := r.db.First(&product, id).Error
	return product, err
}

// FindByIDWithStock loads a product together with its stock row.
func (r *ProductRepository) FindByIDWithStock(id uint) (models.Product, error) {
	var product models.Product
	err := r.db.Preload("Stock").First(&product, id).Error
	return product, err
}

// All returns products matching the filter, with stock preloaded.
func (r *ProductRepository) All(filter ProductFilter) ([]models.Product, error) {
	q := r.db.Preload("Stock").Order("id")

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}
	if filter.FeaturedOnly {
		q = q.Where("is_featured = ?", true)
	}
	if filter.Search != "" {
		q = q.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	var products []models.Product
	err := q.Find(&products).Error
	return products, err
}

// Create persists a new product record.
func (r *ProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Save persists changes to an existing product.
func (r *ProductRepository) Save(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete removes a product row.
func (r *ProductRepository) Delete(product *models.Product) error {
	return r.db.Delete(product).Error
}
