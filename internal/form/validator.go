// Package form binds the HTML forms of the site and validates them with
// go-playground/validator. Field errors are reported by form field name so
// templates can print them next to the matching input.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^[0-9+\-(). ]+$`)

// Validator adapts validator.Validate to echo's Validator interface.
type Validator struct {
	v *validator.Validate
}

// NewValidator registers the custom tags used by the forms:
//
//	usstate   - value is one of States
//	genre     - value is one of Genres
//	phone     - digits and + - ( ) . space only
//	dbid      - decimal integer greater than zero
//	starttime - parseable by ParseStartTime
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	mustRegister(v, "usstate", func(fl validator.FieldLevel) bool {
		_, ok := stateSet[fl.Field().String()]
		return ok
	})
	mustRegister(v, "genre", func(fl validator.FieldLevel) bool {
		_, ok := genreSet[fl.Field().String()]
		return ok
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "dbid", func(fl validator.FieldLevel) bool {
		n, err := strconv.ParseUint(fl.Field().String(), 10, 64)
		return err == nil && n > 0
	})
	mustRegister(v, "starttime", func(fl validator.FieldLevel) bool {
		_, err := ParseStartTime(fl.Field().String())
		return err == nil
	})
	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Validate implements echo.Validator.
func (cv *Validator) Validate(i any) error {
	return cv.v.Struct(i)
}

// Errors maps a form field name to the message shown under it.
type Errors map[string]string

// Has reports whether field has an error.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Get returns the message for field, or "".
func (e Errors) Get(field string) string {
	return e[field]
}

// FieldErrors turns a validation error into per-field messages. Only the
// first failure of each field is kept. It returns nil for errors that did
// not come from the validator.
func FieldErrors(err error) Errors {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := Errors{}
	for _, fe := range ve {
		field := fe.Field()
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i] // genres[2] -> genres
		}
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "min":
		return "Select at least one option."
	case "url":
		return "Invalid URL."
	case "usstate", "genre":
		return "Not a valid choice."
	case "phone":
		return "Invalid phone number."
	case "dbid":
		return "Must be a positive whole number."
	case "starttime":
		return "Invalid date and time, use YYYY-MM-DD HH:MM:SS."
	}
	return "Invalid value."
}
