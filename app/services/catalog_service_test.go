package services_test

import (
	"context"
	"testing"

	"github.com/danuartha/kopistore/app/models"
	"github.com/danuartha/kopistore/app/repositories"
	"github.com/danuartha/kopistore/app/services"
	"github.com/danuartha/kopistore/pkg/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductCreatesStockRow(t *testing.T) {
	db := newTestDB(t)
	catalog := services.NewCatalogService(db)

	view, err := catalog.Create(context.Background(), services.ProductInput{
		Name:         "Gayo Arabica",
		Price:        decimal.RequireFromString("95000"),
		Category:     "arabica",
		InitialStock: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, view.StockQuantity)
	assert.True(t, view.InStock)
	assert.True(t, view.IsAvailable)

	var stock models.Stock
	require.NoError(t, db.Where("product_id = ?", view.ID).First(&stock).Error)
	assert.Equal(t, models.DefaultMinStock, stock.MinStock)
}

func TestCreateProductRejectsBadPrice(t *testing.T) {
	db := newTestDB(t)
	catalog := services.NewCatalogService(db)

	_, err := catalog.Create(context.Background(), services.ProductInput{
		Name:     "Free Coffee",
		Price:    decimal.Zero,
		Category: "arabica",
	})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestDiscountDerivedFromPricePair(t *testing.T) {
	db := newTestDB(t)
	catalog := services.NewCatalogService(db)

	view, err := catalog.Create(context.Background(), services.ProductInput{
		Name:          "Kintamani",
		Price:         decimal.RequireFromString("90000"),
		OriginalPrice: decimal.NullDecimal{Decimal: decimal.RequireFromString("120000"), Valid: true},
		Category:      "arabica",
	})
	require.NoError(t, err)
	assert.True(t, view.IsDiscounted)
	assert.InDelta(t, 25.0, view.DiscountPercentage, 0.01)

	// Raising the price to the original clears the discount.
	full := decimal.RequireFromString("120000")
	view, err = catalog.Update(context.Background(), view.ID,
		services.UpdateProductInput{Price: &full})
	require.NoError(t, err)
	assert.False(t, view.IsDiscounted)
	assert.Zero(t, view.DiscountPercentage)
}

func TestUpdateProductKeepsOmittedFields(t *testing.T) {
	db := newTestDB(t)
	catalog := services.NewCatalogService(db)
	ctx := context.Background()

	view, err := catalog.Create(ctx, services.ProductInput{
		Name:        "Gayo Arabica",
		Description: "washed-process highland arabica",
		Price:       decimal.RequireFromString("95000"),
		Category:    "arabica",
		ImageURL:    "https://cdn.kopistore.local/gayo.jpg",
		Origin:      "Aceh",
		RoastLevel:  "Medium",
	})
	require.NoError(t, err)

	// A price-only update must leave every other field alone.
	newPrice := decimal.RequireFromString("99000")
	updated, err := catalog.Update(ctx, view.ID, services.UpdateProductInput{Price: &newPrice})
	require.NoError(t, err)

	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, "Gayo Arabica", updated.Name)
	assert.Equal(t, "washed-process highland arabica", updated.Description)
	assert.Equal(t, "https://cdn.kopistore.local/gayo.jpg", updated.ImageURL)
	assert.Equal(t, "Aceh", updated.Origin)
	assert.Equal(t, "Medium", updated.RoastLevel)
	assert.Equal(t, "arabica", updated.Category)
	assert.True(t, updated.IsAvailable)

	// Provided fields overwrite, including clearing to empty.
	name := "Gayo Arabica Reserve"
	empty := ""
	updated, err = catalog.Update(ctx, view.ID, services.UpdateProductInput{
		Name:        &name,
		Description: &empty,
	})
	require.NoError(t, err)
	assert.Equal(t, "Gayo Arabica Reserve", updated.Name)
	assert.Empty(t, updated.Description)
	assert.Equal(t, "Aceh", updated.Origin)

	bad := decimal.Zero
	_, err = catalog.Update(ctx, view.ID, services.UpdateProductInput{Price: &bad})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestProductSpecificationsParsedIntoLines(t *testing.T) {
	db := newTestDB(t)
	catalog := services.NewCatalogService(db)

	view, err := catalog.Create(context.Background(), services.ProductInput{
		Name:           "Toraja",
		Price:          decimal.RequireFromString("105000"),
		Category:       "arabica",
		Specifications: "Altitude: 1400 masl\nProcess: Semi-washed",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Altitude: 1400 masl", "Process: Semi-washed"}, view.Specifications)
	assert.Equal(t, "1400 masl", view.SpecMeta["altitude"])
}

func TestListFilters(t *testing.T) {
	db := newTestDB(t)
	catalog := services.NewCatalogService(db)
	ctx := context.Background()

	mk := func(name, category string, featured bool) {
		_, err := catalog.Create(ctx, services.ProductInput{
			Name:       name,
			Price:      decimal.RequireFromString("80000"),
			Category:   category,
			IsFeatured: &featured,
		})
		require.NoError(t, err)
	}
	mk("Gayo Arabica", "arabica", true)
	mk("Toraja Arabica", "arabica", false)
	mk("Dampit Robusta", "robusta", false)

	all, err := catalog.List(ctx, repositories.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	arabica, err := catalog.List(ctx, repositories.ProductFilter{Category: "arabica"})
	require.NoError(t, err)
	assert.Len(t, arabica, 2)

	featured, err := catalog.List(ctx, repositories.ProductFilter{FeaturedOnly: true})
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "Gayo Arabica", featured[0].Name)

	search, err := catalog.List(ctx, repositories.ProductFilter{Search: "Toraja"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "Toraja Arabica", search[0].Name)

	categories, err := catalog.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"arabica", "robusta"}, categories)
}

func TestDeleteProductRemovesStock(t *testing.T) {
	db := newTestDB(t)
	catalog := services.NewCatalogService(db)
	ctx := context.Background()

	view, err := catalog.Create(ctx, services.ProductInput{
		Name:         "Gayo",
		Price:        decimal.RequireFromString("95000"),
		Category:     "arabica",
		InitialStock: 10,
	})
	require.NoError(t, err)

	require.NoError(t, catalog.Delete(ctx, view.ID))

	_, err = catalog.Get(ctx, view.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	var count int64
	require.NoError(t, db.Model(&models.Stock{}).Where("product_id = ?", view.ID).Count(&count).Error)
	assert.Zero(t, count)

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(catalog.Delete(ctx, view.ID)))
}
