package validate_test

import (
	"testing"

	"github.com/danuartha/kopistore/pkg/validate"
	"github.com/stretchr/testify/assert"
)

type addItemInput struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"required,gt=0"`
	Notes     string `json:"notes"      validate:"nullable,max=500"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(addItemInput{ProductID: 3, Quantity: 2})
	assert.False(t, validate.HasErrors(errs), "expected no errors, got: %v", errs)
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(addItemInput{})
	assert.True(t, validate.HasErrors(errs))
	assert.Contains(t, errs, "product_id")
	assert.Contains(t, errs, "quantity")
}

func TestGtRejectsZeroAndNegative(t *testing.T) {
	for _, qty := range []int{0, -3} {
		errs := validate.Struct(struct {
			Quantity int `json:"quantity" validate:"gt=0"`
		}{Quantity: qty})
		assert.Contains(t, errs, "quantity", "qty=%d should fail", qty)
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	assert.Contains(t, errs, "email")

	errs = validate.Struct(in{Email: "barista@kopistore.id"})
	assert.False(t, validate.HasErrors(errs))
}

func TestInRule(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required,in=pending,paid,cancelled"`
	}
	errs := validate.Struct(in{Status: "done"})
	assert.Contains(t, errs["status"], "pending, paid, cancelled")

	errs = validate.Struct(in{Status: "paid"})
	assert.False(t, validate.HasErrors(errs))
}

func TestNullableSkipsEmpty(t *testing.T) {
	errs := validate.Struct(addItemInput{ProductID: 1, Quantity: 1, Notes: ""})
	assert.False(t, validate.HasErrors(errs))
}

func TestStringMinMax(t *testing.T) {
	type in struct {
		Username string `json:"username" validate:"required,alpha_dash,min=3,max=20"`
	}
	assert.Contains(t, validate.Struct(in{Username: "ab"}), "username")
	assert.Contains(t, validate.Struct(in{Username: "has space"}), "username")
	assert.False(t, validate.HasErrors(validate.Struct(in{Username: "kopi_lover"})))
}
