package controllers

import (
	"net/http"

	"github.com/danuartha/kopistore/app/services"
	"github.com/danuartha/kopistore/pkg/auth"
	"github.com/danuartha/kopistore/pkg/response"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

// View handles GET /cart.
func (c *CartController) View(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	// First view of a fresh account creates the empty cart.
	if _, err := c.carts.GetOrCreate(r.Context(), id.UserID); err != nil {
		response.FromError(w, err)
		return
	}

	view, err := c.carts.View(r.Context(), id.UserID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, view)
}

// AddItem handles POST /cart/items.
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in services.AddItemInput
	if !decode(w, r, &in) {
		return
	}

	if err := c.carts.AddItem(r.Context(), id.UserID, in); err != nil {
		response.FromError(w, err)
		return
	}

	view, err := c.carts.View(r.Context(), id.UserID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, view)
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem handles PUT /cart/items/{id}. Quantity zero or below removes
// the line.
func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	itemID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var in updateItemRequest
	if !decode(w, r, &in) {
		return
	}

	if err := c.carts.UpdateItem(r.Context(), itemID, id.UserID, in.Quantity); err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, "cart updated")
}

// RemoveItem handles DELETE /cart/items/{id}.
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	itemID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := c.carts.RemoveItem(r.Context(), itemID, id.UserID); err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, "item removed")
}

// Clear handles DELETE /cart.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	if err := c.carts.Clear(r.Context(), id.UserID); err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, "cart cleared")
}
