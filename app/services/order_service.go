package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/danuartha/kopistore/app/models"
	"github.com/danuartha/kopistore/app/repositories"
	"github.com/danuartha/kopistore/pkg/apperr"
	"github.com/danuartha/kopistore/pkg/logger"
	"github.com/danuartha/kopistore/pkg/metrics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService converts a cart or an explicit item list into an immutable
// transaction, decrementing stock in the same unit of work. Every write in
// checkout and deletion commits or rolls back as one: a transaction row
// without its stock decrements can never be observed.
type OrderService struct {
	db           *gorm.DB
	inventory    *InventoryService
	carts        *repositories.CartRepository
	products     *repositories.ProductRepository
	transactions *repositories.TransactionRepository
	users        *repositories.UserRepository
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		db:           db,
		inventory:    NewInventoryService(db),
		carts:        repositories.NewCartRepository(db),
		products:     repositories.NewProductRepository(db),
		transactions: repositories.NewTransactionRepository(db),
		users:        repositories.NewUserRepository(db),
	}
}

// CheckoutItem is one requested order line.
type CheckoutItem struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"required,gt=0"`
}

// CheckoutInput describes a checkout request. When FromCart is set the
// user's cart supplies the lines and is cleared on success; otherwise Items
// is used as given. ShippingAddress falls back to the user's profile
// address when empty.
type CheckoutInput struct {
	UserID          uint           `json:"user_id"`
	FromCart        bool           `json:"from_cart"`
	Items           []CheckoutItem `json:"items"`
	PaymentMethod   string         `json:"payment_method"`
	ShippingAddress string         `json:"shipping_address"`
	Notes           string         `json:"notes"`
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateTransactionCode builds "TRX-YYYYMMDD-XXXXXX" with a 6-character
// uppercase alphanumeric suffix.
func generateTransactionCode(now time.Time) string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return "TRX-" + now.Format("20060102") + "-" + string(b)
}

// codeRetries bounds the regeneration loop on a suffix collision.
const codeRetries = 3

// Checkout runs the whole order sequence as one database transaction:
// resolve lines, validate products and availability, snapshot prices,
// insert the transaction and its items, decrement stock, clear the cart.
// Any failing step rolls everything back and surfaces that step's error.
func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (TransactionDetail, error) {
	start := time.Now()
	log := logger.WithCtx(ctx)

	user, err := s.users.FindByID(in.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TransactionDetail{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return TransactionDetail{}, apperr.Internal("load user", err)
	}

	shippingAddress := in.ShippingAddress
	if shippingAddress == "" {
		shippingAddress = user.Address
	}

	var created models.Transaction

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines, cartID, err := s.resolveLines(tx, in)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperr.InvalidInput("order has no items")
		}

		total := decimal.Zero
		items := make([]models.TransactionItem, 0, len(lines))

		// Single validation pass: price snapshot and availability check per
		// line. The conditional decrement below re-checks under the
		// transaction's isolation, so a concurrent checkout that slips past
		// this read still cannot oversell.
		for _, line := range lines {
			if line.Quantity <= 0 {
				return apperr.InvalidInput("quantity must be greater than 0")
			}

			product, err := s.products.WithTx(tx).FindByID(line.ProductID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(fmt.Sprintf("product %d not found", line.ProductID))
			}
			if err != nil {
				return apperr.Internal("load product", err)
			}

			stock, err := s.inventory.stocks.WithTx(tx).FindByProduct(line.ProductID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &apperr.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   0,
					Requested:   line.Quantity,
				}
			}
			if err != nil {
				return apperr.Internal("load stock", err)
			}
			if stock.Quantity < line.Quantity {
				return &apperr.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   stock.Quantity,
					Requested:   line.Quantity,
				}
			}

			subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			items = append(items, models.TransactionItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     product.Price,
				Subtotal:  subtotal,
			})
			total = total.Add(subtotal)
		}

		code, err := s.uniqueCode(tx)
		if err != nil {
			return err
		}

		created = models.Transaction{
			TransactionCode: code,
			UserID:          in.UserID,
			TotalAmount:     total,
			Status:          models.StatusPending,
			PaymentMethod:   in.PaymentMethod,
			ShippingAddress: shippingAddress,
			Notes:           in.Notes,
			Items:           items,
		}
		if err := s.transactions.WithTx(tx).Create(&created); err != nil {
			return apperr.Internal("create transaction", err)
		}

		for _, item := range created.Items {
			if err := s.inventory.Reduce(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if in.FromCart && cartID != 0 {
			if err := s.carts.WithTx(tx).ClearItems(cartID); err != nil {
				return apperr.Internal("clear cart", err)
			}
		}

		return nil
	})

	if txErr != nil {
		outcome := "error"
		if apperr.IsKind(txErr, apperr.KindInsufficientStock) {
			outcome = "insufficient_stock"
		}
		metrics.ObserveCheckout(outcome, start)
		return TransactionDetail{}, txErr
	}

	metrics.ObserveCheckout("success", start)
	log.Info("checkout completed",
		"transaction_code", created.TransactionCode,
		"user_id", in.UserID,
		"total_amount", created.TotalAmount.String(),
		"items", len(created.Items),
	)

	return s.Get(ctx, created.ID)
}

// resolveLines returns the requested order lines and, for cart checkouts,
// the cart ID to clear on success.
func (s *OrderService) resolveLines(tx *gorm.DB, in CheckoutInput) ([]CheckoutItem, uint, error) {
	if !in.FromCart {
		return in.Items, 0, nil
	}

	cart, err := s.carts.WithTx(tx).FindByUserWithItems(in.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, nil // no cart yet: empty order
	}
	if err != nil {
		return nil, 0, apperr.Internal("load cart", err)
	}

	lines := make([]CheckoutItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, CheckoutItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines, cart.ID, nil
}

// uniqueCode generates a transaction code, regenerating on collision up to
// codeRetries times. Collisions need a same-day 6-character suffix match,
// so exhausting the retries means something is wrong beyond bad luck.
func (s *OrderService) uniqueCode(tx *gorm.DB) (string, error) {
	repo := s.transactions.WithTx(tx)
	for i := 0; i < codeRetries; i++ {
		code := generateTransactionCode(time.Now())
		exists, err := repo.CodeExists(code)
		if err != nil {
			return "", apperr.Internal("check transaction code", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", apperr.Conflict("could not generate a unique transaction code")
}

// UpdateStatus overwrites a transaction's status after a membership check
// against the known set. No transition-graph restriction applies: any
// status may follow any other.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) error {
	if !models.IsValidStatus(status) {
		return &apperr.InvalidStatusError{Status: status, Valid: models.ValidStatuses()}
	}

	repo := s.transactions.WithTx(s.db.WithContext(ctx))

	trx, err := repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("transaction not found")
	}
	if err != nil {
		return apperr.Internal("load transaction", err)
	}

	trx.Status = status
	if err := repo.Save(&trx); err != nil {
		return apperr.Internal("update transaction", err)
	}
	return nil
}

// Delete removes a transaction and its items. Unless the transaction was
// already cancelled, every item's quantity is returned to stock first.
// Restoration and deletion commit or roll back together.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.transactions.WithTx(tx)

		trx, err := repo.FindByID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("transaction not found")
		}
		if err != nil {
			return apperr.Internal("load transaction", err)
		}

		if trx.Status != models.StatusCancelled {
			for _, item := range trx.Items {
				if err := s.inventory.Increase(tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}

		if err := repo.Delete(&trx); err != nil {
			return apperr.Internal("delete transaction", err)
		}
		return nil
	})
}

// TransactionSummary is the list projection.
type TransactionSummary struct {
	ID              uint            `json:"id"`
	TransactionCode string          `json:"transaction_code"`
	UserID          uint            `json:"user_id"`
	Username        string          `json:"username"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"payment_method"`
	ItemCount       int             `json:"item_count"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TransactionLine is one priced line in the detail projection.
type TransactionLine struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// TransactionDetail is the single-transaction projection.
type TransactionDetail struct {
	ID              uint              `json:"id"`
	TransactionCode string            `json:"transaction_code"`
	UserID          uint              `json:"user_id"`
	Username        string            `json:"username"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	Status          string            `json:"status"`
	PaymentMethod   string            `json:"payment_method"`
	ShippingAddress string            `json:"shipping_address"`
	Notes           string            `json:"notes"`
	Items           []TransactionLine `json:"items"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Joined display names fall back to "Unknown" when the referenced entity is
// gone; reads tolerate dangling references rather than failing.
func summarize(trx models.Transaction) TransactionSummary {
	username := "Unknown"
	if trx.User != nil {
		username = trx.User.Username
	}
	return TransactionSummary{
		ID:              trx.ID,
		TransactionCode: trx.TransactionCode,
		UserID:          trx.UserID,
		Username:        username,
		TotalAmount:     trx.TotalAmount,
		Status:          trx.Status,
		PaymentMethod:   trx.PaymentMethod,
		ItemCount:       len(trx.Items),
		CreatedAt:       trx.CreatedAt,
	}
}

func detail(trx models.Transaction) TransactionDetail {
	username := "Unknown"
	if trx.User != nil {
		username = trx.User.Username
	}

	lines := make([]TransactionLine, 0, len(trx.Items))
	for _, item := range trx.Items {
		name := "Unknown"
		if item.Product != nil {
			name = item.Product.Name
		}
		lines = append(lines, TransactionLine{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: name,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Subtotal,
		})
	}

	return TransactionDetail{
		ID:              trx.ID,
		TransactionCode: trx.TransactionCode,
		UserID:          trx.UserID,
		Username:        username,
		TotalAmount:     trx.TotalAmount,
		Status:          trx.Status,
		PaymentMethod:   trx.PaymentMethod,
		ShippingAddress: trx.ShippingAddress,
		Notes:           trx.Notes,
		Items:           lines,
		CreatedAt:       trx.CreatedAt,
		UpdatedAt:       trx.UpdatedAt,
	}
}

// Get returns one transaction with its priced lines.
func (s *OrderService) Get(ctx context.Context, id uint) (TransactionDetail, error) {
	trx, err := s.transactions.WithTx(s.db.WithContext(ctx)).FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TransactionDetail{}, apperr.NotFound("transaction not found")
	}
	if err != nil {
		return TransactionDetail{}, apperr.Internal("load transaction", err)
	}
	return detail(trx), nil
}

// ListAll returns every transaction, newest first.
func (s *OrderService) ListAll(ctx context.Context) ([]TransactionSummary, error) {
	trxs, err := s.transactions.WithTx(s.db.WithContext(ctx)).All()
	if err != nil {
		return nil, apperr.Internal("list transactions", err)
	}

	summaries := make([]TransactionSummary, 0, len(trxs))
	for _, trx := range trxs {
		summaries = append(summaries, summarize(trx))
	}
	return summaries, nil
}

// ListForUser returns a user's transactions, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID uint) ([]TransactionSummary, error) {
	trxs, err := s.transactions.WithTx(s.db.WithContext(ctx)).ByUser(userID)
	if err != nil {
		return nil, apperr.Internal("list transactions", err)
	}

	summaries := make([]TransactionSummary, 0, len(trxs))
	for _, trx := range trxs {
		summaries = append(summaries, summarize(trx))
	}
	return summaries, nil
}
