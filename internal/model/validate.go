package model

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// ISO-8601 timestamps in any of the layouts ParseTimestamp accepts.
	validate.RegisterValidation("timestamp", func(fl validator.FieldLevel) bool {
		_, ok := ParseTimestamp(fl.Field().String())
		return ok
	})
}

// Validate checks a decoded review against its field constraints.
func (r Review) Validate() error {
	return validate.Struct(r)
}
