// Package form validates the add/edit donator and donation forms before
// anything is sent to the backend.
package form

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{5,17}$`)

func init() {
	validate = validator.New()

	// A string that is non-empty and not only whitespace.
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(regexp.MustCompile(`\S`).FindString(s)) > 0
	})

	// Loose phone format: optional +, digits, spaces and dashes.
	_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
}

// DonatorForm carries the user-entered donator fields. Name is required;
// contact details are optional but checked for shape when present.
type DonatorForm struct {
	Name    string `validate:"required,notblank"`
	Phone   string `validate:"omitempty,phone"`
	Address string `validate:"omitempty,max=200"`
	Email   string `validate:"omitempty,email"`
}

// DonationForm carries the user-entered donation fields.
type DonationForm struct {
	Amount        float64 `validate:"gte=0"`
	PaidAmount    float64 `validate:"gte=0"`
	PaymentMethod string  `validate:"oneof=Cash Online 'Not Done'"`
	BookNumber    string  `validate:"omitempty,max=50"`
}

// Validate checks v and returns a readable error for the first failing field,
// suitable for surfacing directly to the user.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fmt.Errorf("invalid %s: fails %q", fieldErrs[0].Field(), fieldErrs[0].Tag())
	}

	return err
}
