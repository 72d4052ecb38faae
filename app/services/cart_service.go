package services

import (
	"context"
	"errors"

	"github.com/danuartha/kopistore/app/models"
	"github.com/danuartha/kopistore/app/repositories"
	"github.com/danuartha/kopistore/pkg/apperr"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartService manages the per-user scratch cart. Prices in the cart view
// are always computed live from the current catalog; only a completed
// transaction freezes them.
type CartService struct {
	db       *gorm.DB
	carts    *repositories.CartRepository
	products *repositories.ProductRepository
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{
		db:       db,
		carts:    repositories.NewCartRepository(db),
		products: repositories.NewProductRepository(db),
	}
}

// GetOrCreate returns the user's cart, creating an empty one on first use.
func (s *CartService) GetOrCreate(ctx context.Context, userID uint) (models.Cart, error) {
	repo := s.carts.WithTx(s.db.WithContext(ctx))

	cart, err := repo.FindByUser(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Cart{}, apperr.Internal("load cart", err)
	}

	cart = models.Cart{UserID: userID}
	if err := repo.Create(&cart); err != nil {
		return models.Cart{}, apperr.Internal("create cart", err)
	}
	return cart, nil
}

// AddItemInput adds a product to the caller's cart.
type AddItemInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"required,gt=0"`
}

// AddItem merges the quantity into an existing line for the same product,
// or inserts a new line. No stock check here; stock is validated only at
// checkout.
func (s *CartService) AddItem(ctx context.Context, userID uint, in AddItemInput) error {
	if in.Quantity <= 0 {
		return apperr.InvalidInput("quantity must be greater than 0")
	}

	db := s.db.WithContext(ctx)

	product, err := s.products.WithTx(db).FindByID(in.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("product not found")
	}
	if err != nil {
		return apperr.Internal("load product", err)
	}
	if !product.IsAvailable {
		return apperr.InvalidInput("product is not available")
	}

	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	repo := s.carts.WithTx(db)

	item, err := repo.FindItem(cart.ID, in.ProductID)
	switch {
	case err == nil:
		item.Quantity += in.Quantity
		if err := repo.SaveItem(&item); err != nil {
			return apperr.Internal("update cart item", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{CartID: cart.ID, ProductID: in.ProductID, Quantity: in.Quantity}
		if err := repo.CreateItem(&item); err != nil {
			return apperr.Internal("add cart item", err)
		}
	default:
		return apperr.Internal("load cart item", err)
	}

	return nil
}

// UpdateItem overwrites a line's quantity. A quantity of zero or below
// removes the line; zero-quantity lines are never stored. Only the cart
// owner may touch the line.
func (s *CartService) UpdateItem(ctx context.Context, itemID, requesterID uint, qty int) error {
	repo := s.carts.WithTx(s.db.WithContext(ctx))

	item, err := s.ownedItem(repo, itemID, requesterID)
	if err != nil {
		return err
	}

	if qty <= 0 {
		if err := repo.DeleteItem(&item); err != nil {
			return apperr.Internal("remove cart item", err)
		}
		return nil
	}

	item.Quantity = qty
	if err := repo.SaveItem(&item); err != nil {
		return apperr.Internal("update cart item", err)
	}
	return nil
}

// RemoveItem deletes a line from the owner's cart.
func (s *CartService) RemoveItem(ctx context.Context, itemID, requesterID uint) error {
	repo := s.carts.WithTx(s.db.WithContext(ctx))

	item, err := s.ownedItem(repo, itemID, requesterID)
	if err != nil {
		return err
	}

	if err := repo.DeleteItem(&item); err != nil {
		return apperr.Internal("remove cart item", err)
	}
	return nil
}

// Clear removes every line from the user's cart.
func (s *CartService) Clear(ctx context.Context, userID uint) error {
	repo := s.carts.WithTx(s.db.WithContext(ctx))

	cart, err := repo.FindByUser(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil // nothing to clear
	}
	if err != nil {
		return apperr.Internal("load cart", err)
	}

	if err := repo.ClearItems(cart.ID); err != nil {
		return apperr.Internal("clear cart", err)
	}
	return nil
}

func (s *CartService) ownedItem(repo *repositories.CartRepository, itemID, requesterID uint) (models.CartItem, error) {
	item, err := repo.FindItemByID(itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CartItem{}, apperr.NotFound("cart item not found")
	}
	if err != nil {
		return models.CartItem{}, apperr.Internal("load cart item", err)
	}

	cart, err := repo.FindItemCart(item)
	if err != nil {
		return models.CartItem{}, apperr.Internal("load cart", err)
	}
	if cart.UserID != requesterID {
		return models.CartItem{}, apperr.Forbidden("cart item belongs to another user")
	}
	return item, nil
}

// CartLine is one priced line in the cart view.
type CartLine struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ImageURL    string          `json:"image_url"`
}

// CartView is the priced cart projection returned to clients.
type CartView struct {
	CartID    uint            `json:"cart_id"`
	UserID    uint            `json:"user_id"`
	Items     []CartLine      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// View prices the cart against the live catalog. Lines whose product has
// been removed from the catalog are skipped rather than failing the view.
func (s *CartService) View(ctx context.Context, userID uint) (CartView, error) {
	cart, err := s.carts.WithTx(s.db.WithContext(ctx)).FindByUserWithProducts(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return CartView{}, apperr.NotFound("cart not found")
	}
	if err != nil {
		return CartView{}, apperr.Internal("load cart", err)
	}

	view := CartView{
		CartID: cart.ID,
		UserID: cart.UserID,
		Items:  make([]CartLine, 0, len(cart.Items)),
		Total:  decimal.Zero,
	}

	for _, item := range cart.Items {
		if item.Product == nil {
			continue
		}
		subtotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, CartLine{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Price:       item.Product.Price,
			Quantity:    item.Quantity,
			Subtotal:    subtotal,
			ImageURL:    item.Product.ImageURL,
		})
		view.Total = view.Total.Add(subtotal)
	}
	view.ItemCount = len(view.Items)

	return view, nil
}
