package migrations

import (
	"github.com/danuartha/kopistore/app/models"
	"github.com/danuartha/kopistore/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_products_table", &CreateProductsTable{})
	migration.Register("20260101000002_create_stocks_table", &CreateStocksTable{})
	migration.Register("20260101000003_create_carts_tables", &CreateCartsTables{})
	migration.Register("20260101000004_create_transactions_tables", &CreateTransactionsTables{})
}

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

type CreateStocksTable struct{}

func (m *CreateStocksTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Stock{})
}

func (m *CreateStocksTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("stocks")
}

type CreateCartsTables struct{}

func (m *CreateCartsTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Cart{}, &models.CartItem{})
}

func (m *CreateCartsTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("cart_items", "carts")
}

type CreateTransactionsTables struct{}

func (m *CreateTransactionsTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Transaction{}, &models.TransactionItem{})
}

func (m *CreateTransactionsTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("transaction_items", "transactions")
}
