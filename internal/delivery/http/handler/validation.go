package handler

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidations adds the custom binding tags used by request types.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("trait", validTrait)
}

// validTrait accepts a personality trait score in [0, 100].
func validTrait(fl validator.FieldLevel) bool {
	score := fl.Field().Float()
	return score >= 0 && score <= 100
}
