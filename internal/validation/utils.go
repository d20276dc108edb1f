package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/bazario/marketplace-api/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to
// validate themselves.
//
// Typical pattern:
//   - define a request struct with validator tags (`validate:"required,numeric"`)
//   - implement Validate() error that runs Struct(req)
//   - return validator.ValidationErrors, or CustomValidationErrors for rules
//     that tags cannot express
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific
// field, with a caller-supplied message.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that
// satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// validate is the shared validator instance. Field names in errors come from
// the json tag so clients see the same names they sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Struct runs tag-based validation on s. On failure it returns
// validator.ValidationErrors carrying every failing field.
func Struct(s interface{}) error {
	return validate.Struct(s)
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. c.Bind(payload) populates the request struct from body/query params.
//  2. payload.Validate() applies the validation rules.
//  3. Returns *errs.HTTPError (400) with field-level errors on failure.
//
// payload must be a pointer so Bind can populate it.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError("Invalid request body", false, nil, nil, nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return ExtractValidationError(err)
	}
	return "", nil
}

// ExtractValidationError converts a validation error (tag-based or custom)
// into a message plus the full list of failing fields.
func ExtractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		customValidationErrors, ok := err.(CustomValidationErrors)
		if !ok {
			return "Validation failed", []errs.FieldError{{Field: "request", Error: err.Error()}}
		}
		for _, cerr := range customValidationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: cerr.Field,
				Error: cerr.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	for _, ferr := range validationErrors {
		field := ferr.Field()
		var msg string

		switch ferr.Tag() {
		case "required":
			msg = "is required"

		case "numeric":
			msg = "must be a number"

		case "boolean":
			msg = "must be a boolean"

		case "min":
			switch ferr.Type().Kind() {
			case reflect.String:
				msg = fmt.Sprintf("must be at least %s characters", ferr.Param())
			case reflect.Slice, reflect.Array:
				msg = fmt.Sprintf("must contain at least %s items", ferr.Param())
			default:
				msg = fmt.Sprintf("must be at least %s", ferr.Param())
			}

		case "max":
			switch ferr.Type().Kind() {
			case reflect.String:
				msg = fmt.Sprintf("must not exceed %s characters", ferr.Param())
			case reflect.Slice, reflect.Array:
				msg = fmt.Sprintf("must not contain more than %s items", ferr.Param())
			default:
				msg = fmt.Sprintf("must not exceed %s", ferr.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", ferr.Param())

		case "uuid":
			msg = "must be a valid UUID"

		case "dive":
			msg = "some items are invalid"

		default:
			if ferr.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, ferr.Tag(), ferr.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, ferr.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
