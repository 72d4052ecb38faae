package controllers

import (
	"net/http"

	"github.com/danuartha/kopistore/app/services"
	"github.com/danuartha/kopistore/pkg/auth"
	"github.com/danuartha/kopistore/pkg/response"
)

type TransactionController struct {
	orders *services.OrderService
}

func NewTransactionController(orders *services.OrderService) *TransactionController {
	return &TransactionController{orders: orders}
}

type checkoutRequest struct {
	FromCart        bool                    `json:"from_cart"`
	Items           []services.CheckoutItem `json:"items"`
	PaymentMethod   string                  `json:"payment_method" validate:"required,max=100"`
	ShippingAddress string                  `json:"shipping_address"`
	Notes           string                  `json:"notes"`
}

// Checkout handles POST /transactions/checkout. The user ID always comes
// from the token, never the body.
func (c *TransactionController) Checkout(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in checkoutRequest
	if !decode(w, r, &in) {
		return
	}

	trx, err := c.orders.Checkout(r.Context(), services.CheckoutInput{
		UserID:          id.UserID,
		FromCart:        in.FromCart,
		Items:           in.Items,
		PaymentMethod:   in.PaymentMethod,
		ShippingAddress: in.ShippingAddress,
		Notes:           in.Notes,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, trx)
}

// ListMine handles GET /transactions.
func (c *TransactionController) ListMine(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	trxs, err := c.orders.ListForUser(r.Context(), id.UserID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, trxs)
}

// ListAll handles GET /admin/transactions (admin).
func (c *TransactionController) ListAll(w http.ResponseWriter, r *http.Request) {
	trxs, err := c.orders.ListAll(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, trxs)
}

// Get handles GET /transactions/{id}. Non-admins may only read their own.
func (c *TransactionController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	trxID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	trx, err := c.orders.Get(r.Context(), trxID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	if trx.UserID != id.UserID && !id.IsAdmin {
		response.Forbidden(w)
		return
	}
	response.Success(w, trx)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus handles PUT /transactions/{id}/status (admin).
func (c *TransactionController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	trxID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var in updateStatusRequest
	if !decode(w, r, &in) {
		return
	}

	if err := c.orders.UpdateStatus(r.Context(), trxID, in.Status); err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, "status updated")
}

// Delete handles DELETE /transactions/{id} (admin). Stock is restored for
// every line unless the transaction was already cancelled.
func (c *TransactionController) Delete(w http.ResponseWriter, r *http.Request) {
	trxID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := c.orders.Delete(r.Context(), trxID); err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, "transaction deleted")
}
