package handlers

import (
	"sync"

	"github.com/SscSPs/multicurrency_tracker/internal/utils/currency"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by the request DTOs:
// `currency` accepts ISO 4217 codes known to go-money, in upper case.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("currency", validateCurrency)
	})
}

func validateCurrency(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	return code == currency.Normalize(code) && currency.IsKnown(code)
}
