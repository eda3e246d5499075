package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"finmemory/internal/models"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

// singleton instance of the validator
var instance *Validator

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	if instance == nil {
		instance = NewValidator()
	}
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("transaction_kind", validateTransactionKind)
	_ = v.RegisterValidation("positive_amount", validatePositiveAmount)
	_ = v.RegisterValidation("month_key", validateMonthKey)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Custom validation functions

// validateTransactionKind validates that a kind is one of the allowed kinds
func validateTransactionKind(fl validator.FieldLevel) bool {
	return models.IsValidKind(strings.ToLower(fl.Field().String()))
}

// validatePositiveAmount validates that an amount is greater than 0
func validatePositiveAmount(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fl.Field().Int() > 0
	case reflect.Float32, reflect.Float64:
		return fl.Field().Float() > 0
	case reflect.String:
		// Decimal amounts arrive as strings
		value := fl.Field().String()
		matched, _ := regexp.MatchString(`^\d+(\.\d{1,2})?$`, value)
		if !matched {
			return false
		}
		return strings.Trim(value, "0.") != ""
	default:
		return false
	}
}

// validateMonthKey validates a YYYY-MM month key
func validateMonthKey(fl validator.FieldLevel) bool {
	matched, _ := regexp.MatchString(`^\d{4}-(0[1-9]|1[0-2])$`, fl.Field().String())
	return matched
}
