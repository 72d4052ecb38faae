package services_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danuartha/kopistore/app/models"
	"github.com/danuartha/kopistore/app/services"
	"github.com/danuartha/kopistore/pkg/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceFloorsAtZero(t *testing.T) {
	db := newTestDB(t)
	inventory := services.NewInventoryService(db)
	beans := createProduct(t, db, "Gayo", "95000", 5)

	require.NoError(t, inventory.Reduce(db, beans.ID, 5))
	assert.Equal(t, 0, stockQuantity(t, db, beans.ID))

	err := inventory.Reduce(db, beans.ID, 1)
	require.Error(t, err)

	var insufficient *apperr.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 0, insufficient.Available)
	assert.Equal(t, "Gayo", insufficient.ProductName)
	assert.Equal(t, 0, stockQuantity(t, db, beans.ID))
}

func TestReduceRejectsNonPositiveQuantity(t *testing.T) {
	db := newTestDB(t)
	inventory := services.NewInventoryService(db)
	beans := createProduct(t, db, "Gayo", "95000", 5)

	for _, qty := range []int{0, -3} {
		err := inventory.Reduce(db, beans.ID, qty)
		assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	}
	assert.Equal(t, 5, stockQuantity(t, db, beans.ID))
}

func TestReduceConcurrentNeverOversells(t *testing.T) {
	db := newTestDB(t)
	inventory := services.NewInventoryService(db)
	scarce := createProduct(t, db, "Limited Lot", "200000", 5)

	const (
		workers = 8
		qty     = 3
	)

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := inventory.Reduce(db, scarce.ID, qty)
			if err == nil {
				successes.Add(1)
				return
			}
			// Every rejection must be the stock kind, never a raced write.
			assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))
		}()
	}
	wg.Wait()

	// Only one 3-of-5 decrement can fit; the rest must be rejected and the
	// quantity can never go negative.
	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, 2, stockQuantity(t, db, scarce.ID))
}

func TestReduceMissingStockRowFailsClosed(t *testing.T) {
	db := newTestDB(t)
	inventory := services.NewInventoryService(db)

	err := inventory.Reduce(db, 424242, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))
}

func TestIncreaseCreatesMissingRow(t *testing.T) {
	db := newTestDB(t)
	inventory := services.NewInventoryService(db)
	beans := createProduct(t, db, "Gayo", "95000", 5)

	require.NoError(t, inventory.Increase(db, beans.ID, 7))
	assert.Equal(t, 12, stockQuantity(t, db, beans.ID))

	// Product without a stock row: Increase must create one with the
	// default threshold.
	drip := models.Product{Name: "Drip", Price: decimal.NewFromInt(65000), Category: "drip bag", IsAvailable: true}
	require.NoError(t, db.Create(&drip).Error)

	require.NoError(t, inventory.Increase(db, drip.ID, 30))

	var stock models.Stock
	require.NoError(t, db.Where("product_id = ?", drip.ID).First(&stock).Error)
	assert.Equal(t, 30, stock.Quantity)
	assert.Equal(t, models.DefaultMinStock, stock.MinStock)
}

func TestRestock(t *testing.T) {
	db := newTestDB(t)
	inventory := services.NewInventoryService(db)
	beans := createProduct(t, db, "Gayo", "95000", 5)

	view, err := inventory.Restock(context.Background(), beans.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, 25, view.Quantity)
	assert.Equal(t, "Gayo", view.ProductName)

	_, err = inventory.Restock(context.Background(), beans.ID, 0)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = inventory.Restock(context.Background(), 9999, 5)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestStockUpdateIsAbsolute(t *testing.T) {
	db := newTestDB(t)
	inventory := services.NewInventoryService(db)
	beans := createProduct(t, db, "Gayo", "95000", 5)

	stocks, err := inventory.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stocks, 1)

	qty, minStock := 42, 3
	view, err := inventory.Update(context.Background(), stocks[0].ID,
		services.UpdateStockInput{Quantity: &qty, MinStock: &minStock})
	require.NoError(t, err)
	assert.Equal(t, 42, view.Quantity)
	assert.Equal(t, 3, view.MinStock)
	assert.Equal(t, "OK", view.Status)

	negative := -1
	_, err = inventory.Update(context.Background(), stocks[0].ID,
		services.UpdateStockInput{Quantity: &negative})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	assert.Equal(t, 42, stockQuantity(t, db, beans.ID))
}

func TestCheckLow(t *testing.T) {
	db := newTestDB(t)
	inventory := services.NewInventoryService(db)
	createProduct(t, db, "Plenty", "95000", 50)
	low := createProduct(t, db, "Scarce", "98000", 2)

	views, err := inventory.CheckLow(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, low.ID, views[0].ProductID)
	assert.Equal(t, "LOW", views[0].Status)
	assert.Equal(t, "Scarce", views[0].ProductName)
}

func TestCreateStockConflicts(t *testing.T) {
	db := newTestDB(t)
	inventory := services.NewInventoryService(db)
	beans := createProduct(t, db, "Gayo", "95000", 5)

	_, err := inventory.Create(context.Background(),
		services.CreateStockInput{ProductID: beans.ID, Quantity: 10})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = inventory.Create(context.Background(),
		services.CreateStockInput{ProductID: 9999, Quantity: 10})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
