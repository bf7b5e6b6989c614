package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	return v
}

// ValidateStruct runs the `binding` style tags declared on New* input
// structs. There is no HTTP binding layer in front of the engine, so input
// structs are validated at the model boundary instead.
func ValidateStruct(input any) error {
	return validate.Struct(input)
}
