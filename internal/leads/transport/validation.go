package transport

import (
	"github.com/ksquared-16/alloy/platform/phone"
	"github.com/ksquared-16/alloy/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

// RegisterValidations adds the lead intake rules to val.
// phone_digits accepts numbers carrying 10 to 15 digits once formatting is stripped.
func RegisterValidations(val *validator.Validator) error {
	return val.RegisterValidation("phone_digits", func(fl playground.FieldLevel) bool {
		n := len(phone.Digits(fl.Field().String()))
		return n >= 10 && n <= 15
	})
}
