// Package service implements the catalog, order and payment use cases. Every
// operation takes the authenticated user and applies the role check, then the
// country check, then payload validation.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"foodiehub/apperr"
	"foodiehub/models"
	"foodiehub/store"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("paymenttype", func(fl validator.FieldLevel) bool {
		return models.PaymentType(fl.Field().String()).Valid()
	})
	return v
}

// validateStruct runs the struct tags of v and reports the first failing
// field as an ErrValidation.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%w: %s", apperr.ErrValidation, describeFieldError(verrs[0]))
	}
	return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s%s", field, fe.Param(), unit(fe))
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s%s", field, fe.Param(), unit(fe))
	case "numeric":
		return field + " must contain only digits"
	case "datetime":
		return field + " must be in MM/YY format"
	case "paymenttype":
		return fmt.Sprintf("%s must be one of %s, %s, %s", field,
			models.PaymentCreditCard, models.PaymentDebitCard, models.PaymentPayPal)
	}
	return fmt.Sprintf("%s failed on %q", field, fe.Tag())
}

func unit(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return " characters"
	case reflect.Slice:
		return " entries"
	}
	return ""
}

// lookupErr turns a store miss into apperr.ErrNotFound naming what was missing.
func lookupErr(what string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s %w", what, apperr.ErrNotFound)
	}
	return fmt.Errorf("load %s: %w", what, err)
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

func utcNow() time.Time {
	return time.Now().UTC()
}
