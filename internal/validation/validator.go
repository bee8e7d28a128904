package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("account_type", validateAccountType)
	_ = v.RegisterValidation("account_number", validateAccountNumber)

	// Report json field names in validation errors, not Go struct fields
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// validateAccountType validates that account type is one of the allowed types
func validateAccountType(fl validator.FieldLevel) bool {
	accountType := strings.ToLower(fl.Field().String())
	validTypes := map[string]bool{
		"checking":   true,
		"savings":    true,
		"investment": true,
	}
	return validTypes[accountType]
}

// validateAccountNumber validates the user-supplied account number. Only
// presence and the IBAN upper length bound are enforced; number formats vary
// too much across institutions to constrain the alphabet.
func validateAccountNumber(fl validator.FieldLevel) bool {
	accountNumber := fl.Field().String()
	return accountNumber != "" && len(accountNumber) <= 34
}
