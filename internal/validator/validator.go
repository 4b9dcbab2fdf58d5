package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/neurocare/triage-service/internal/errors"
)

type ValidationErrors = apperrors.ValidationErrors

// Validator is the main validator instance for request payloads
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures to the shared error type
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("triage_label", validateTriageLabel)
	validate.RegisterValidation("export_format", validateExportFormat)
	validate.RegisterValidation("age_at_onset", validateAgeAtOnset)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions

func validateTriageLabel(fl validator.FieldLevel) bool {
	validLabels := []string{"focal", "generalized", "non_epileptic", "unknown"}

	value := fl.Field().String()
	for _, validLabel := range validLabels {
		if validLabel == value {
			return true
		}
	}
	return false
}

func validateExportFormat(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "xlsx" || value == "csv"
}

func validateAgeAtOnset(fl validator.FieldLevel) bool {
	age := fl.Field().Int()
	return age >= 0 && age <= 120
}
