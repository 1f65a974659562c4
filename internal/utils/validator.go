// internal/utils/validator.go
package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// FirstFieldError returns the lowercased name of the first failed field.
// validator reports errors in struct-field declaration order, which is what
// gives the submission workflow its fixed first-failure-wins ordering.
func FirstFieldError(err error) (string, bool) {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		return "", false
	}
	return strings.ToLower(validationErrs[0].Field()), true
}
