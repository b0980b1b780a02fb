package config

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/vnykmshr/goshout/pkg/format"
)

var (
	configValidator *validator.Validate
	validatorOnce   sync.Once
)

// V returns the shared validator with goshout's custom rules registered.
func V() *validator.Validate {
	validatorOnce.Do(func() {
		configValidator = validator.New(validator.WithRequiredStructEnabled())
		_ = configValidator.RegisterValidation("streamformat", streamFormatValidator)
	})
	return configValidator
}

// streamFormatValidator accepts names present in the format registry.
func streamFormatValidator(fl validator.FieldLevel) bool {
	_, err := format.Get(fl.Field().String())
	return err == nil
}
