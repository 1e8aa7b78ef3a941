package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/furniture_shop/internal/transport"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{6,19}$`)

// Validator adapts go-playground/validator to echo.Validator.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error {
	return cv.v.Struct(i)
}

// schemaError carries per field failures of a request body.
type schemaError struct {
	fields []transport.FieldError
}

func (e *schemaError) Error() string {
	parts := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid body: " + strings.Join(parts, "; ")
}

// bindJSON decodes the body strictly and validates it. Unknown fields,
// trailing data and schema failures are all rejected.
func bindJSON(c echo.Context, dst any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &schemaError{fields: []transport.FieldError{{Field: "body", Message: "request body is empty"}}}
		}
		return &schemaError{fields: []transport.FieldError{{Field: "body", Message: decodeMessage(err)}}}
	}
	if dec.More() {
		return &schemaError{fields: []transport.FieldError{{Field: "body", Message: "unexpected data after JSON object"}}}
	}

	if err := c.Validate(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		out := make([]transport.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, transport.FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)})
		}
		return &schemaError{fields: out}
	}
	return nil
}

func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("field %q must be %s", typeErr.Field, typeErr.Type.String())
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "malformed JSON"
	}
	// json: unknown field "x"
	return strings.TrimPrefix(err.Error(), "json: ")
}

// fieldPath turns "CreateOrderRequest.items[0].productId" into
// "items[0].productId". Embedded structs have no json name and are dropped.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ReplaceAll(ns, "ContactRequest.", "")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Enter a valid email address"
	case "phone":
		return "Invalid phone number"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must contain at least %s entries", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", fe.Field(), fe.Param())
	}
	return fe.Field() + " is invalid"
}
