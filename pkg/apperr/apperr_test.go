package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/danuartha/kopistore/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{"not found", apperr.NotFound("product not found"), apperr.KindNotFound},
		{"invalid input", apperr.InvalidInput("quantity must be positive"), apperr.KindInvalidInput},
		{"conflict", apperr.Conflict("stock already exists"), apperr.KindConflict},
		{"forbidden", apperr.Forbidden("not your cart"), apperr.KindForbidden},
		{"internal", apperr.Internal("query failed", errors.New("boom")), apperr.KindInternal},
		{"plain error", errors.New("boom"), apperr.KindInternal},
		{"insufficient stock", &apperr.InsufficientStockError{ProductID: 1, Available: 2, Requested: 5}, apperr.KindInsufficientStock},
		{"invalid status", &apperr.InvalidStatusError{Status: "done", Valid: []string{"pending"}}, apperr.KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.KindOf(tt.err))
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("checkout: %w", apperr.NotFound("product not found"))
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestInsufficientStockMessage(t *testing.T) {
	err := &apperr.InsufficientStockError{ProductName: "Gayo Arabica", Available: 2, Requested: 5}
	require.EqualError(t, err, "insufficient stock for Gayo Arabica: available 2, requested 5")

	unnamed := &apperr.InsufficientStockError{ProductID: 7, Available: 0, Requested: 1}
	assert.Contains(t, unnamed.Error(), "product 7")
}

func TestInvalidStatusListsValidSet(t *testing.T) {
	err := &apperr.InvalidStatusError{Status: "done", Valid: []string{"pending", "paid"}}
	assert.Contains(t, err.Error(), `"done"`)
	assert.Contains(t, err.Error(), "pending, paid")
}

func TestInternalUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperr.Internal("save transaction", cause)
	assert.ErrorIs(t, err, cause)
}
