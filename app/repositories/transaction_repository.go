package repositories

import (
	"github.com/danuartha/kopistore/app/models"
	"gorm.io/gorm"
)

// TransactionRepository handles database operations for Transaction and its
// immutable item lines.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a copy bound to the given transaction handle.
func (r *TransactionRepository) WithTx(tx *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

// Create persists a transaction together with any attached items.
func (r *TransactionRepository) Create(trx *models.Transaction) error {
	return r.db.Create(trx).Error
}

// FindByID loads a transaction with its items.
func (r *TransactionRepository) FindByID(id uint) (models.Transaction, error) {
	var trx models.Transaction
	err := r.db.Preload("Items.Product").Preload("User").First(&trx, id).Error
	return trx, err
}

// All returns every transaction with items, newest first.
func (r *TransactionRepository) All() ([]models.Transaction, error) {
	var trxs []models.Transaction
	err := r.db.Preload("Items.Product").Preload("User").Order("id DESC").Find(&trxs).Error
	return trxs, err
}

// ByUser returns a user's transactions with items, newest first.
func (r *TransactionRepository) ByUser(userID uint) ([]models.Transaction, error) {
	var trxs []models.Transaction
	err := r.db.Preload("Items.Product").Preload("User").Where("user_id = ?", userID).Order("id DESC").Find(&trxs).Error
	return trxs, err
}

// Save persists changes to an existing transaction.
func (r *TransactionRepository) Save(trx *models.Transaction) error {
	return r.db.Save(trx).Error
}

// Delete removes a transaction and its item lines.
func (r *TransactionRepository) Delete(trx *models.Transaction) error {
	if err := r.db.Where("transaction_id = ?", trx.ID).Delete(&models.TransactionItem{}).Error; err != nil {
		return err
	}
	return r.db.Delete(trx).Error
}

// CodeExists reports whether a transaction code is already taken.
func (r *TransactionRepository) CodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Transaction{}).Where("transaction_code = ?", code).Count(&count).Error
	return count > 0, err
}
