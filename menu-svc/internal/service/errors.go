package service

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"qr-menu/menu-svc/internal/domain"
	"qr-menu/menu-svc/internal/menu"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMenuPrivate       = errors.New("private menu")
	ErrRestaurantBlocked = errors.New("this restaurant has been blocked")
	ErrUnavailable       = errors.New("the menu store is unavailable, please try again")
)

// unavailable marks a store failure as retryable. Not-found passes through.
func unavailable(log *slog.Logger, op string, err error) error {
	if errors.Is(err, domain.ErrRestaurantNotFound) {
		return err
	}
	log.Error("store operation failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput reports the first failing field as a *menu.ValidationError.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return &menu.ValidationError{Field: fe.Field(), Message: fieldMessage(fe)}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "email":
		return fe.Field() + " must be a valid email address"
	default:
		return fe.Field() + " is invalid"
	}
}
