package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "product does not exist"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("resolving product: %w", NewNotFoundError("product does not exist"))

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "product does not exist", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "sku", Message: "sku is required"},
		{Field: "quantity", Message: "quantity must be at least 1"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "sku", ve.Details[0].Field)
}

func TestBadRequestError(t *testing.T) {
	err := NewBadRequestError("store does not exist")

	br, ok := IsBadRequestError(err)
	assert.True(t, ok)
	assert.Equal(t, "store does not exist", br.Error())

	_, ok = IsNotFoundError(err)
	assert.False(t, ok)
}

func TestInsufficientStockError_Message(t *testing.T) {
	err := NewInsufficientStockError("SKU-1", "store-a", 10, 5, 10)

	assert.Equal(t, "minimum stock is: '5', current stock is: '10'", err.Error())

	is, ok := IsInsufficientStockError(err)
	assert.True(t, ok)
	assert.Equal(t, "SKU-1", is.SKU)
	assert.Equal(t, "store-a", is.StoreID)
	assert.Equal(t, 10, is.Requested)
}

func TestConflictError_Unwrap(t *testing.T) {
	cause := errors.New("Deadlock found when trying to get lock")
	err := NewConflictErrorWithCause("transfer conflicted with a concurrent update", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "concurrent update")

	_, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, "duplicate", NewConflictError("duplicate").Error())
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))

	_, ok := IsInternalError(fmt.Errorf("outer: %w", err))
	assert.True(t, ok)
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}
