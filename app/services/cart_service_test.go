package services_test

import (
	"context"
	"testing"

	"github.com/danuartha/kopistore/app/models"
	"github.com/danuartha/kopistore/app/services"
	"github.com/danuartha/kopistore/pkg/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemMergesRepeatedAdds(t *testing.T) {
	db := newTestDB(t)
	carts := services.NewCartService(db)
	user := createUser(t, db, "alice")
	beans := createProduct(t, db, "Gayo", "95000", 100)

	ctx := context.Background()
	require.NoError(t, carts.AddItem(ctx, user.ID, services.AddItemInput{ProductID: beans.ID, Quantity: 2}))
	require.NoError(t, carts.AddItem(ctx, user.ID, services.AddItemInput{ProductID: beans.ID, Quantity: 3}))

	view, err := carts.View(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.True(t, view.Total.Equal(decimal.RequireFromString("475000")))
}

func TestAddItemValidation(t *testing.T) {
	db := newTestDB(t)
	carts := services.NewCartService(db)
	user := createUser(t, db, "bob")
	beans := createProduct(t, db, "Gayo", "95000", 100)

	ctx := context.Background()

	err := carts.AddItem(ctx, user.ID, services.AddItemInput{ProductID: beans.ID, Quantity: 0})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	err = carts.AddItem(ctx, user.ID, services.AddItemInput{ProductID: 9999, Quantity: 1})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", beans.ID).
		Update("is_available", false).Error)
	err = carts.AddItem(ctx, user.ID, services.AddItemInput{ProductID: beans.ID, Quantity: 1})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestUpdateItemOwnershipAndZeroDeletes(t *testing.T) {
	db := newTestDB(t)
	carts := services.NewCartService(db)
	owner := createUser(t, db, "carol")
	other := createUser(t, db, "dave")
	beans := createProduct(t, db, "Gayo", "95000", 100)

	ctx := context.Background()
	require.NoError(t, carts.AddItem(ctx, owner.ID, services.AddItemInput{ProductID: beans.ID, Quantity: 2}))

	view, err := carts.View(ctx, owner.ID)
	require.NoError(t, err)
	itemID := view.Items[0].ID

	err = carts.UpdateItem(ctx, itemID, other.ID, 5)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	require.NoError(t, carts.UpdateItem(ctx, itemID, owner.ID, 7))
	view, err = carts.View(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, view.Items[0].Quantity)

	// Zero removes the line; zero-quantity lines are never stored.
	require.NoError(t, carts.UpdateItem(ctx, itemID, owner.ID, 0))
	view, err = carts.View(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestRemoveItemAndClear(t *testing.T) {
	db := newTestDB(t)
	carts := services.NewCartService(db)
	user := createUser(t, db, "erin")
	beans := createProduct(t, db, "Gayo", "95000", 100)
	drip := createProduct(t, db, "Drip", "65000", 100)

	ctx := context.Background()
	require.NoError(t, carts.AddItem(ctx, user.ID, services.AddItemInput{ProductID: beans.ID, Quantity: 1}))
	require.NoError(t, carts.AddItem(ctx, user.ID, services.AddItemInput{ProductID: drip.ID, Quantity: 2}))

	view, err := carts.View(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)

	require.NoError(t, carts.RemoveItem(ctx, view.Items[0].ID, user.ID))
	view, err = carts.View(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)

	require.NoError(t, carts.Clear(ctx, user.ID))
	view, err = carts.View(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())

	// Clearing a user with no cart is a no-op.
	ghost := createUser(t, db, "frank")
	assert.NoError(t, carts.Clear(ctx, ghost.ID))
}

func TestCartViewSkipsDanglingProducts(t *testing.T) {
	db := newTestDB(t)
	carts := services.NewCartService(db)
	user := createUser(t, db, "grace")
	beans := createProduct(t, db, "Gayo", "95000", 100)
	gone := createProduct(t, db, "Discontinued", "50000", 100)

	ctx := context.Background()
	require.NoError(t, carts.AddItem(ctx, user.ID, services.AddItemInput{ProductID: beans.ID, Quantity: 1}))
	require.NoError(t, carts.AddItem(ctx, user.ID, services.AddItemInput{ProductID: gone.ID, Quantity: 1}))

	require.NoError(t, db.Unscoped().Delete(&models.Product{}, gone.ID).Error)

	view, err := carts.View(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, beans.ID, view.Items[0].ProductID)
	assert.True(t, view.Total.Equal(decimal.RequireFromString("95000")))
}
