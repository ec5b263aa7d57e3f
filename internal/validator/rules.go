package validator

import (
	"github.com/go-playground/validator/v10"
)

// Кастомные правила доменной валидации.
// Списки значений дублируют константы из internal/models,
// но без импорта models, чтобы не создавать цикл.

var visaTypes = map[string]bool{
	"tourist":  true,
	"student":  true,
	"work":     true,
	"family":   true,
	"business": true,
}

var applicationStatuses = map[string]bool{
	"draft":     true,
	"submitted": true,
	"in_review": true,
	"approved":  true,
	"rejected":  true,
}

func registerCustomRules(v *validator.Validate) error {
	if err := v.RegisterValidation("visa_type", func(fl validator.FieldLevel) bool {
		return visaTypes[fl.Field().String()]
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("app_status", func(fl validator.FieldLevel) bool {
		return applicationStatuses[fl.Field().String()]
	}); err != nil {
		return err
	}

	return nil
}
