package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// Phone numbers are stored with the country prefix and a single space,
	// exactly as the address form collects them.
	phoneRegex   = regexp.MustCompile(`^\+91 [0-9]{10}$`)
	pinCodeRegex = regexp.MustCompile(`^[0-9]{6}$`)
)

// NewValidator returns a validator with the storefront's custom rules
// registered. Every handler builds its validator through this.
func NewValidator() *validator.Validate {
	v := validator.New()

	// RegisterValidation only errors on an empty tag name.
	_ = v.RegisterValidation("inphone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pinCodeRegex.MatchString(fl.Field().String())
	})

	return v
}
