package dto

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var digitsRE = regexp.MustCompile(`^\d+$`)

// RegisterValidators adds the custom binding rules used by request DTOs to
// gin's validator. Call once at startup.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("digits", digits); err != nil {
		return fmt.Errorf("register digits rule: %w", err)
	}
	return nil
}

// digits accepts strings made of ASCII digits only.
func digits(fl validator.FieldLevel) bool {
	return digitsRE.MatchString(fl.Field().String())
}
