package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bazario/marketplace-api/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name   string `json:"name" validate:"required"`
	Amount string `json:"amount" validate:"required,numeric"`
	Flag   string `json:"flag" validate:"required,boolean"`
}

func (p *samplePayload) Validate() error {
	return Struct(p)
}

func TestExtractValidationError_TagMessages(t *testing.T) {
	p := &samplePayload{Amount: "abc", Flag: "maybe"}

	err := p.Validate()
	require.Error(t, err)

	msg, fieldErrors := ExtractValidationError(err)
	assert.Equal(t, "Validation failed", msg)
	require.Len(t, fieldErrors, 3)

	byField := map[string]string{}
	for _, fe := range fieldErrors {
		byField[fe.Field] = fe.Error
	}

	assert.Equal(t, "is required", byField["name"])
	assert.Equal(t, "must be a number", byField["amount"])
	assert.Equal(t, "must be a boolean", byField["flag"])
}

func TestExtractValidationError_UsesJSONFieldNames(t *testing.T) {
	p := &samplePayload{Name: "ok", Amount: "10", Flag: "maybe"}

	err := p.Validate()
	require.Error(t, err)

	_, fieldErrors := ExtractValidationError(err)
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "flag", fieldErrors[0].Field)
}

func TestExtractValidationError_CustomErrors(t *testing.T) {
	err := CustomValidationErrors{
		{Field: "images", Message: "Each product should have at least 3 images"},
	}

	msg, fieldErrors := ExtractValidationError(err)
	assert.Equal(t, "Validation failed", msg)
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "images", fieldErrors[0].Field)
	assert.Equal(t, "Each product should have at least 3 images", fieldErrors[0].Error)
}

func TestBindAndValidate_CollectsAllFieldErrors(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"amount":"abc","flag":"notabool"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	payload := &samplePayload{}
	err := BindAndValidate(c, payload)
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.Len(t, httpErr.Errors, 3)
}

func TestBindAndValidate_MalformedBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	payload := &samplePayload{}
	err := BindAndValidate(c, payload)
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Invalid request body", httpErr.Message)
}

func TestBindAndValidate_Valid(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"name":"chair","amount":"125000","flag":"true"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	payload := &samplePayload{}
	require.NoError(t, BindAndValidate(c, payload))
	assert.Equal(t, "chair", payload.Name)
	assert.Equal(t, "125000", payload.Amount)
	assert.Equal(t, "true", payload.Flag)
}
