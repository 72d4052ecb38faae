package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danuartha/kopistore/app/models"
	"github.com/danuartha/kopistore/app/repositories"
	"github.com/danuartha/kopistore/pkg/apperr"
	"github.com/danuartha/kopistore/pkg/cache"
	"github.com/danuartha/kopistore/pkg/logger"
	"github.com/danuartha/kopistore/pkg/specs"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogService owns the product catalog. Reads go through Redis when it
// is available; every mutation invalidates the product keys so stale
// listings never outlive a write by more than the in-flight requests.
type CatalogService struct {
	db       *gorm.DB
	products *repositories.ProductRepository
	stocks   *repositories.StockRepository
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{
		db:       db,
		products: repositories.NewProductRepository(db),
		stocks:   repositories.NewStockRepository(db),
	}
}

const (
	productCacheTTL    = 5 * time.Minute
	productListPattern = "products:*"
)

func productKey(id uint) string { return fmt.Sprintf("products:id:%d", id) }

func listKey(f repositories.ProductFilter) string {
	return fmt.Sprintf("products:list:%s:%t:%t:%s", f.Category, f.AvailableOnly, f.FeaturedOnly, f.Search)
}

// ProductView is the catalog projection: the product row plus its stock
// quantity and the specification text split into display lines.
type ProductView struct {
	ID                 uint                `json:"id"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	Price              decimal.Decimal     `json:"price"`
	OriginalPrice      decimal.NullDecimal `json:"original_price"`
	Category           string              `json:"category"`
	ImageURL           string              `json:"image_url"`
	IsAvailable        bool                `json:"is_available"`
	IsFeatured         bool                `json:"is_featured"`
	IsDiscounted       bool                `json:"is_discounted"`
	DiscountPercentage float64             `json:"discount_percentage"`
	Rating             *float64            `json:"rating,omitempty"`
	Specifications     []string            `json:"specifications"`
	SpecMeta           map[string]string   `json:"spec_meta,omitempty"`
	Weight             string              `json:"weight"`
	Type               string              `json:"type"`
	Origin             string              `json:"origin"`
	Process            string              `json:"process"`
	RoastLevel         string              `json:"roast_level"`
	FlavorNotes        string              `json:"flavor_notes"`
	BrewingMethods     string              `json:"brewing_methods"`
	Grade              string              `json:"grade"`
	Certification      string              `json:"certification"`
	StockQuantity      int                 `json:"stock_quantity"`
	InStock            bool                `json:"in_stock"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

func productView(p models.Product) ProductView {
	lines := specs.Parse(p.Specifications)

	view := ProductView{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		Price:              p.Price,
		OriginalPrice:      p.OriginalPrice,
		Category:           p.Category,
		ImageURL:           p.ImageURL,
		IsAvailable:        p.IsAvailable,
		IsFeatured:         p.IsFeatured,
		IsDiscounted:       p.IsDiscounted,
		DiscountPercentage: p.DiscountPercentage,
		Rating:             p.Rating,
		Specifications:     lines,
		SpecMeta:           specs.Meta(lines),
		Weight:             p.Weight,
		Type:               p.Type,
		Origin:             p.Origin,
		Process:            p.Process,
		RoastLevel:         p.RoastLevel,
		FlavorNotes:        p.FlavorNotes,
		BrewingMethods:     p.BrewingMethods,
		Grade:              p.Grade,
		Certification:      p.Certification,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if p.Stock != nil {
		view.StockQuantity = p.Stock.Quantity
		view.InStock = p.Stock.Quantity > 0
	}
	return view
}

// List returns catalog products matching the filter, cached per filter
// combination.
func (s *CatalogService) List(ctx context.Context, filter repositories.ProductFilter) ([]ProductView, error) {
	key := listKey(filter)

	var cached []ProductView
	if cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	products, err := s.products.WithTx(s.db.WithContext(ctx)).All(filter)
	if err != nil {
		return nil, apperr.Internal("list products", err)
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, productView(p))
	}

	if err := cache.Set(ctx, key, views, productCacheTTL); err != nil {
		logger.WithCtx(ctx).Warn("cache product list", "error", err)
	}
	return views, nil
}

// Get returns one product with stock, cached by ID.
func (s *CatalogService) Get(ctx context.Context, id uint) (ProductView, error) {
	key := productKey(id)

	var cached ProductView
	if cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	product, err := s.products.WithTx(s.db.WithContext(ctx)).FindByIDWithStock(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ProductView{}, apperr.NotFound("product not found")
	}
	if err != nil {
		return ProductView{}, apperr.Internal("get product", err)
	}

	view := productView(product)
	if err := cache.Set(ctx, key, view, productCacheTTL); err != nil {
		logger.WithCtx(ctx).Warn("cache product", "error", err)
	}
	return view, nil
}

// ProductInput carries the writable product fields for create and update.
type ProductInput struct {
	Name           string              `json:"name"           validate:"required,max=200"`
	Description    string              `json:"description"`
	Price          decimal.Decimal     `json:"price"          validate:"required"`
	OriginalPrice  decimal.NullDecimal `json:"original_price"`
	Category       string              `json:"category"       validate:"required,max=100"`
	ImageURL       string              `json:"image_url"      validate:"max=500"`
	IsAvailable    *bool               `json:"is_available"`
	IsFeatured     *bool               `json:"is_featured"`
	Rating         *float64            `json:"rating"`
	Specifications string              `json:"specifications"`
	Weight         string              `json:"weight"`
	Type           string              `json:"type"`
	Origin         string              `json:"origin"`
	Process        string              `json:"process"`
	RoastLevel     string              `json:"roast_level"`
	FlavorNotes    string              `json:"flavor_notes"`
	BrewingMethods string              `json:"brewing_methods"`
	Grade          string              `json:"grade"`
	Certification  string              `json:"certification"`
	InitialStock   int                 `json:"initial_stock"  validate:"gte=0"`
	MinStock       int                 `json:"min_stock"      validate:"gte=0"`
}

// Create inserts a product and its stock row in one transaction, so a
// catalog entry without inventory tracking can never exist.
func (s *CatalogService) Create(ctx context.Context, in ProductInput) (ProductView, error) {
	if in.Price.LessThanOrEqual(decimal.Zero) {
		return ProductView{}, apperr.InvalidInput("price must be greater than 0")
	}

	product := models.Product{
		Name:           in.Name,
		Description:    in.Description,
		Price:          in.Price,
		OriginalPrice:  in.OriginalPrice,
		Category:       in.Category,
		ImageURL:       in.ImageURL,
		IsAvailable:    true,
		Rating:         in.Rating,
		Specifications: in.Specifications,
		Weight:         in.Weight,
		Type:           in.Type,
		Origin:         in.Origin,
		Process:        in.Process,
		RoastLevel:     in.RoastLevel,
		FlavorNotes:    in.FlavorNotes,
		BrewingMethods: in.BrewingMethods,
		Grade:          in.Grade,
		Certification:  in.Certification,
	}
	if in.IsAvailable != nil {
		product.IsAvailable = *in.IsAvailable
	}
	if in.IsFeatured != nil {
		product.IsFeatured = *in.IsFeatured
	}
	product.CalculateDiscount()

	minStock := in.MinStock
	if minStock == 0 {
		minStock = models.DefaultMinStock
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.products.WithTx(tx).Create(&product); err != nil {
			return apperr.Internal("create product", err)
		}
		stock := models.Stock{
			ProductID:   product.ID,
			Quantity:    in.InitialStock,
			MinStock:    minStock,
			LastRestock: time.Now(),
		}
		if err := s.stocks.WithTx(tx).Create(&stock); err != nil {
			return apperr.Internal("create stock", err)
		}
		return nil
	})
	if err != nil {
		return ProductView{}, err
	}

	s.invalidate(ctx, product.ID)
	return s.Get(ctx, product.ID)
}

// UpdateProductInput carries optional overrides for a product update.
// Nil fields keep their current value; OriginalPrice can be cleared by
// sending an invalid NullDecimal.
type UpdateProductInput struct {
	Name           *string              `json:"name"           validate:"nullable,max=200"`
	Description    *string              `json:"description"`
	Price          *decimal.Decimal     `json:"price"`
	OriginalPrice  *decimal.NullDecimal `json:"original_price"`
	Category       *string              `json:"category"       validate:"nullable,max=100"`
	ImageURL       *string              `json:"image_url"      validate:"nullable,max=500"`
	IsAvailable    *bool                `json:"is_available"`
	IsFeatured     *bool                `json:"is_featured"`
	Rating         *float64             `json:"rating"`
	Specifications *string              `json:"specifications"`
	Weight         *string              `json:"weight"`
	Type           *string              `json:"type"`
	Origin         *string              `json:"origin"`
	Process        *string              `json:"process"`
	RoastLevel     *string              `json:"roast_level"`
	FlavorNotes    *string              `json:"flavor_notes"`
	BrewingMethods *string              `json:"brewing_methods"`
	Grade          *string              `json:"grade"`
	Certification  *string              `json:"certification"`
}

// Update applies the provided fields to a product, leaving omitted fields
// untouched, and recomputes the derived discount columns from the
// resulting price pair.
func (s *CatalogService) Update(ctx context.Context, id uint, in UpdateProductInput) (ProductView, error) {
	repo := s.products.WithTx(s.db.WithContext(ctx))

	product, err := repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ProductView{}, apperr.NotFound("product not found")
	}
	if err != nil {
		return ProductView{}, apperr.Internal("get product", err)
	}

	if in.Price != nil {
		if in.Price.LessThanOrEqual(decimal.Zero) {
			return ProductView{}, apperr.InvalidInput("price must be greater than 0")
		}
		product.Price = *in.Price
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.OriginalPrice != nil {
		product.OriginalPrice = *in.OriginalPrice
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.IsAvailable != nil {
		product.IsAvailable = *in.IsAvailable
	}
	if in.IsFeatured != nil {
		product.IsFeatured = *in.IsFeatured
	}
	if in.Rating != nil {
		product.Rating = in.Rating
	}
	if in.Specifications != nil {
		product.Specifications = *in.Specifications
	}
	if in.Weight != nil {
		product.Weight = *in.Weight
	}
	if in.Type != nil {
		product.Type = *in.Type
	}
	if in.Origin != nil {
		product.Origin = *in.Origin
	}
	if in.Process != nil {
		product.Process = *in.Process
	}
	if in.RoastLevel != nil {
		product.RoastLevel = *in.RoastLevel
	}
	if in.FlavorNotes != nil {
		product.FlavorNotes = *in.FlavorNotes
	}
	if in.BrewingMethods != nil {
		product.BrewingMethods = *in.BrewingMethods
	}
	if in.Grade != nil {
		product.Grade = *in.Grade
	}
	if in.Certification != nil {
		product.Certification = *in.Certification
	}
	product.CalculateDiscount()

	if err := repo.Save(&product); err != nil {
		return ProductView{}, apperr.Internal("update product", err)
	}

	s.invalidate(ctx, product.ID)
	return s.Get(ctx, product.ID)
}

// Delete removes a product and its stock row together.
func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.products.WithTx(tx).FindByID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product not found")
		}
		if err != nil {
			return apperr.Internal("get product", err)
		}

		if stock, err := s.stocks.WithTx(tx).FindByProduct(id); err == nil {
			if err := s.stocks.WithTx(tx).Delete(&stock); err != nil {
				return apperr.Internal("delete stock", err)
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Internal("load stock", err)
		}

		if err := s.products.WithTx(tx).Delete(&product); err != nil {
			return apperr.Internal("delete product", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

// Categories returns the distinct category names in the catalog.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	key := "products:categories"

	var cached []string
	if cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	var categories []string
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, apperr.Internal("list categories", err)
	}

	if err := cache.Set(ctx, key, categories, productCacheTTL); err != nil {
		logger.WithCtx(ctx).Warn("cache categories", "error", err)
	}
	return categories, nil
}

func (s *CatalogService) invalidate(ctx context.Context, id uint) {
	if err := cache.Del(ctx, productKey(id)); err != nil {
		logger.WithCtx(ctx).Warn("invalidate product cache", "error", err)
	}
	if err := cache.DelPattern(ctx, productListPattern); err != nil {
		logger.WithCtx(ctx).Warn("invalidate product listings", "error", err)
	}
}
