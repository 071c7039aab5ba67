package config

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/idelchi/hill/internal/hill"
)

// registerCustom adds the custom validations used by the Config struct tags.
func registerCustom(validate *validator.Validate) error {
	if err := validate.RegisterValidation("exclusive", validateExclusive); err != nil {
		return fmt.Errorf("registering exclusive validation: %w", err)
	}

	if err := validate.RegisterValidation("padding", validatePadding); err != nil {
		return fmt.Errorf("registering padding validation: %w", err)
	}

	return nil
}

// validateExclusive checks if two fields are mutually exclusive.
// Returns false if both fields hold non-zero values.
func validateExclusive(fl validator.FieldLevel) bool {
	field := fl.Field()
	otherField := fl.Parent().FieldByName(fl.Param())

	if !field.IsValid() || !otherField.IsValid() {
		return true
	}

	return field.IsZero() || otherField.IsZero()
}

// validatePadding accepts the names of the supported padding schemes.
func validatePadding(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}

	return hill.Padding(fl.Field().String()).Valid()
}
