package controllers

import (
	"net/http"

	"github.com/danuartha/kopistore/app/services"
	"github.com/danuartha/kopistore/pkg/response"
)

type StockController struct {
	inventory *services.InventoryService
}

func NewStockController(inventory *services.InventoryService) *StockController {
	return &StockController{inventory: inventory}
}

// List handles GET /stocks (admin).
func (c *StockController) List(w http.ResponseWriter, r *http.Request) {
	stocks, err := c.inventory.List(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, stocks)
}

// Get handles GET /stocks/{id} (admin).
func (c *StockController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	stock, err := c.inventory.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, stock)
}

// Low handles GET /stocks/low (admin).
func (c *StockController) Low(w http.ResponseWriter, r *http.Request) {
	stocks, err := c.inventory.CheckLow(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, stocks)
}

// Create handles POST /stocks (admin).
func (c *StockController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateStockInput
	if !decode(w, r, &in) {
		return
	}

	stock, err := c.inventory.Create(r.Context(), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, stock)
}

// Update handles PUT /stocks/{id} (admin).
func (c *StockController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var in services.UpdateStockInput
	if !decode(w, r, &in) {
		return
	}

	stock, err := c.inventory.Update(r.Context(), id, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, stock)
}

// Delete handles DELETE /stocks/{id} (admin).
func (c *StockController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := c.inventory.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, "stock deleted")
}

type restockRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"required,gt=0"`
}

// Restock handles POST /stocks/restock (admin).
func (c *StockController) Restock(w http.ResponseWriter, r *http.Request) {
	var in restockRequest
	if !decode(w, r, &in) {
		return
	}

	stock, err := c.inventory.Restock(r.Context(), in.ProductID, in.Quantity)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, stock)
}
