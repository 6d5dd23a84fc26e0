package service

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

// newValidator builds the validator shared by the services with the
// custom "password" rule registered: a password must contain an
// uppercase letter, a lowercase letter and a digit. Length limits
// stay with the min/max tags.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		var upper, lower, digit bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsLower(r):
				lower = true
			case unicode.IsDigit(r):
				digit = true
			}
		}
		return upper && lower && digit
	})
	return v
}
