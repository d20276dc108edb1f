package errs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores("Not Found"))
	assert.Equal(t, "OK", MakeUpperCaseWithUnderscores("OK"))
}

func TestConstructors(t *testing.T) {
	unauthorized := NewUnauthorizedError("Authentication token is required", false)
	assert.Equal(t, http.StatusUnauthorized, unauthorized.Status)
	assert.Equal(t, "UNAUTHORIZED", unauthorized.Code)

	forbidden := NewForbiddenError("nope", true)
	assert.Equal(t, http.StatusForbidden, forbidden.Status)
	assert.True(t, forbidden.Override)

	custom := "PRODUCT_NOT_FOUND"
	notFound := NewNotFoundError("Product not found", true, &custom)
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.Equal(t, custom, notFound.Code)

	badRequest := NewBadRequestError("Validation failed", true, nil,
		[]FieldError{{Field: "productId", Error: "Product id is required"}}, nil)
	assert.Equal(t, http.StatusBadRequest, badRequest.Status)
	assert.Equal(t, "BAD_REQUEST", badRequest.Code)
	assert.Len(t, badRequest.Errors, 1)

	internal := NewInternalServerError()
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.False(t, internal.Override)
}

func TestHTTPErrorIs(t *testing.T) {
	err := NewNotFoundError("Product not found", true, nil)
	assert.True(t, errors.Is(err, &HTTPError{}))
	assert.False(t, errors.Is(errors.New("plain"), &HTTPError{}))
}

func TestWithMessage(t *testing.T) {
	err := NewForbiddenError("original", true)
	changed := err.WithMessage("changed")

	assert.Equal(t, "changed", changed.Message)
	assert.Equal(t, err.Status, changed.Status)
	assert.Equal(t, "original", err.Message)
}
