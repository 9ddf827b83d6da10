package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("create purchase: %w", NewInsufficientStock(4, 10, 3))

	assert.Equal(t, CodeInsufficientStock, CodeOf(wrapped))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	assert.True(t, HasCode(wrapped, CodeInsufficientStock))
	assert.False(t, IsNotFound(wrapped))
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDatabase("product.create", cause)

	assert.Equal(t, "DATABASE_ERROR: database error during product.create (caused by: connection refused)", err.Error())
	assert.ErrorIs(t, err, cause)

	plain := NewNotFound("product", 7)
	assert.Equal(t, "NOT_FOUND: product not found", plain.Error())
	assert.Equal(t, 7, plain.Details["id"])
}

func TestAppError_WithDetail(t *testing.T) {
	err := NewValidation("name is required").WithDetail("field", "name")

	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, "name", err.Details["field"])
}

func TestAsAppError(t *testing.T) {
	src := NewDuplicate("product", "barcode", "7702001")
	got, ok := AsAppError(fmt.Errorf("hook: %w", src))

	assert.True(t, ok)
	assert.Same(t, src, got)
	assert.True(t, IsDuplicate(got))

	_, ok = AsAppError(errors.New("x"))
	assert.False(t, ok)
}
