package controllers

import (
	"net/http"

	"github.com/danuartha/kopistore/app/repositories"
	"github.com/danuartha/kopistore/app/services"
	"github.com/danuartha/kopistore/pkg/response"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// List handles GET /products with optional query filters.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.ProductFilter{
		Category:      q.Get("category"),
		AvailableOnly: q.Get("available") == "true",
		FeaturedOnly:  q.Get("featured") == "true",
		Search:        q.Get("search"),
	}

	products, err := c.catalog.List(r.Context(), filter)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, products)
}

// Get handles GET /products/{id}.
func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	product, err := c.catalog.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, product)
}

// Categories handles GET /products/categories.
func (c *ProductController) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalog.Categories(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, categories)
}

// Create handles POST /products (admin).
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if !decode(w, r, &in) {
		return
	}

	product, err := c.catalog.Create(r.Context(), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, product)
}

// Update handles PUT /products/{id} (admin). Omitted fields keep their
// current value.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var in services.UpdateProductInput
	if !decode(w, r, &in) {
		return
	}

	product, err := c.catalog.Update(r.Context(), id, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, product)
}

// Delete handles DELETE /products/{id} (admin).
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := c.catalog.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, "product deleted")
}
