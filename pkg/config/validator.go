package config

import (
	"github.com/go-playground/validator/v10"

	"github.com/compozy/deployconf/engine/core"
)

// RegisterCustomValidators registers custom validation functions
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("runtime", validateRuntime)
}

func validateRuntime(fl validator.FieldLevel) bool {
	return core.Runtime(fl.Field().String()).IsValid()
}
