package services

import (
	"context"
	"errors"
	"time"

	"github.com/danuartha/kopistore/app/models"
	"github.com/danuartha/kopistore/app/repositories"
	"github.com/danuartha/kopistore/pkg/apperr"
	"github.com/danuartha/kopistore/pkg/metrics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryService is the only writer of stock quantities. Delta operations
// are conditional single-statement updates; the quantity can never go
// negative and concurrent decrements can never both succeed past the
// available amount.
type InventoryService struct {
	db       *gorm.DB
	stocks   *repositories.StockRepository
	products *repositories.ProductRepository
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{
		db:       db,
		stocks:   repositories.NewStockRepository(db),
		products: repositories.NewProductRepository(db),
	}
}

// StockView is the read projection for stock rows, joining product display
// fields with an "Unknown" fallback for dangling references.
type StockView struct {
	ID           uint            `json:"id"`
	ProductID    uint            `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Quantity     int             `json:"quantity"`
	MinStock     int             `json:"min_stock"`
	LastRestock  time.Time       `json:"last_restock"`
	Status       string          `json:"status"` // "LOW" | "OK"
}

func stockView(s models.Stock) StockView {
	view := StockView{
		ID:           s.ID,
		ProductID:    s.ProductID,
		ProductName:  "Unknown",
		ProductPrice: decimal.Zero,
		Quantity:     s.Quantity,
		MinStock:     s.MinStock,
		LastRestock:  s.LastRestock,
		Status:       "OK",
	}
	if s.Product != nil {
		view.ProductName = s.Product.Name
		view.ProductPrice = s.Product.Price
	}
	if s.IsLow() {
		view.Status = "LOW"
	}
	return view
}

func stockViews(stocks []models.Stock) []StockView {
	views := make([]StockView, 0, len(stocks))
	for _, s := range stocks {
		views = append(views, stockView(s))
	}
	return views
}

// List returns every stock row with product display fields.
func (s *InventoryService) List(ctx context.Context) ([]StockView, error) {
	stocks, err := s.stocks.WithTx(s.db.WithContext(ctx)).All()
	if err != nil {
		return nil, apperr.Internal("list stocks", err)
	}
	return stockViews(stocks), nil
}

// Get returns one stock row by primary key.
func (s *InventoryService) Get(ctx context.Context, id uint) (StockView, error) {
	stock, err := s.stocks.WithTx(s.db.WithContext(ctx)).FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StockView{}, apperr.NotFound("stock not found")
	}
	if err != nil {
		return StockView{}, apperr.Internal("get stock", err)
	}
	return stockView(stock), nil
}

// CheckLow returns rows where quantity is at or below min_stock.
func (s *InventoryService) CheckLow(ctx context.Context) ([]StockView, error) {
	stocks, err := s.stocks.WithTx(s.db.WithContext(ctx)).Low()
	if err != nil {
		return nil, apperr.Internal("list low stocks", err)
	}
	return stockViews(stocks), nil
}

// CreateStockInput creates an explicit stock row for a product.
type CreateStockInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"gte=0"`
	MinStock  int  `json:"min_stock"  validate:"gte=0"`
}

// Create adds a stock row for a product that has none yet.
func (s *InventoryService) Create(ctx context.Context, in CreateStockInput) (StockView, error) {
	db := s.db.WithContext(ctx)

	if _, err := s.products.WithTx(db).FindByID(in.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StockView{}, apperr.NotFound("product not found")
		}
		return StockView{}, apperr.Internal("load product", err)
	}

	if _, err := s.stocks.WithTx(db).FindByProduct(in.ProductID); err == nil {
		return StockView{}, apperr.Conflict("stock already exists for this product")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return StockView{}, apperr.Internal("load stock", err)
	}

	minStock := in.MinStock
	if minStock == 0 {
		minStock = models.DefaultMinStock
	}

	stock := models.Stock{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		MinStock:    minStock,
		LastRestock: time.Now(),
	}
	if err := s.stocks.WithTx(db).Create(&stock); err != nil {
		return StockView{}, apperr.Internal("create stock", err)
	}

	return s.Get(ctx, stock.ID)
}

// UpdateStockInput is the explicit admin override. Absolute values, not
// deltas; nil fields keep their current value.
type UpdateStockInput struct {
	Quantity *int `json:"quantity"`
	MinStock *int `json:"min_stock"`
}

// Update overwrites quantity and/or min_stock. A negative quantity input is
// rejected, but no availability arithmetic applies: this is the admin
// escape hatch, distinct from the delta operations.
func (s *InventoryService) Update(ctx context.Context, id uint, in UpdateStockInput) (StockView, error) {
	db := s.db.WithContext(ctx)
	repo := s.stocks.WithTx(db)

	stock, err := repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StockView{}, apperr.NotFound("stock not found")
	}
	if err != nil {
		return StockView{}, apperr.Internal("get stock", err)
	}

	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return StockView{}, apperr.InvalidInput("quantity must not be negative")
		}
		stock.Quantity = *in.Quantity
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return StockView{}, apperr.InvalidInput("min_stock must not be negative")
		}
		stock.MinStock = *in.MinStock
	}
	stock.LastRestock = time.Now()

	if err := repo.Save(&stock); err != nil {
		return StockView{}, apperr.Internal("update stock", err)
	}
	return s.Get(ctx, stock.ID)
}

// Delete removes a stock row.
func (s *InventoryService) Delete(ctx context.Context, id uint) error {
	repo := s.stocks.WithTx(s.db.WithContext(ctx))

	stock, err := repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("stock not found")
	}
	if err != nil {
		return apperr.Internal("get stock", err)
	}

	if err := repo.Delete(&stock); err != nil {
		return apperr.Internal("delete stock", err)
	}
	return nil
}

// Restock adds quantity to a product's stock, creating the row when absent.
// The public admin operation behind POST /stocks/restock.
func (s *InventoryService) Restock(ctx context.Context, productID uint, qty int) (StockView, error) {
	if qty <= 0 {
		return StockView{}, apperr.InvalidInput("quantity must be greater than 0")
	}

	db := s.db.WithContext(ctx)

	if _, err := s.products.WithTx(db).FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StockView{}, apperr.NotFound("product not found")
		}
		return StockView{}, apperr.Internal("load product", err)
	}

	if err := s.Increase(db, productID, qty); err != nil {
		return StockView{}, err
	}

	stock, err := s.stocks.WithTx(db).FindByProduct(productID)
	if err != nil {
		return StockView{}, apperr.Internal("load stock", err)
	}
	return s.Get(ctx, stock.ID)
}

// Reduce decrements a product's stock inside the given unit of work. The
// caller passes its transaction handle so the decrement commits or rolls
// back with the surrounding operation (checkout, primarily).
//
// Fails closed: a missing stock row blocks the decrement just like a short
// quantity, reported as InsufficientStockError with the available amount.
func (s *InventoryService) Reduce(tx *gorm.DB, productID uint, qty int) error {
	if qty <= 0 {
		return apperr.InvalidInput("quantity must be greater than 0")
	}

	ok, err := s.stocks.WithTx(tx).ReduceQuantity(productID, qty)
	if err != nil {
		return apperr.Internal("reduce stock", err)
	}
	if ok {
		metrics.StockReductions.Inc()
		return nil
	}

	metrics.InsufficientStock.Inc()

	// No row matched: distinguish "row missing" (available 0) from "short"
	// only for the error message; both reject the decrement entirely.
	available := 0
	if stock, err := s.stocks.WithTx(tx).FindByProduct(productID); err == nil {
		available = stock.Quantity
	}

	insufficient := &apperr.InsufficientStockError{
		ProductID: productID,
		Available: available,
		Requested: qty,
	}
	if product, err := s.products.WithTx(tx).FindByID(productID); err == nil {
		insufficient.ProductName = product.Name
	}
	return insufficient
}

// Increase adds quantity inside the given unit of work, creating the stock
// row (with the default minimum threshold) when the product has none. The
// ensure-then-adjust order avoids a race between "row missing" and "row
// exists with zero".
func (s *InventoryService) Increase(tx *gorm.DB, productID uint, qty int) error {
	if qty <= 0 {
		return apperr.InvalidInput("quantity must be greater than 0")
	}

	repo := s.stocks.WithTx(tx)

	ok, err := repo.IncreaseQuantity(productID, qty)
	if err != nil {
		return apperr.Internal("increase stock", err)
	}
	if ok {
		return nil
	}

	stock := models.Stock{
		ProductID:   productID,
		Quantity:    qty,
		MinStock:    models.DefaultMinStock,
		LastRestock: time.Now(),
	}
	if err := repo.Create(&stock); err != nil {
		return apperr.Internal("create stock", err)
	}
	return nil
}
