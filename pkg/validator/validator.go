package validator

import (
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator for echo request validation
type Validator struct {
	validate *validator.Validate
}

// New creates a new Validator
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate implements echo.Validator
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
