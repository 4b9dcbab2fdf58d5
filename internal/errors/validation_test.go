package errors

import (
	"testing"
)

func TestValidationError(t *testing.T) {
	// Test NewValidationError
	err := NewValidationError("patient_ref", "is required", "")

	if err.Field != "patient_ref" {
		t.Errorf("Expected field to be 'patient_ref', got '%s'", err.Field)
	}

	if err.Message != "is required" {
		t.Errorf("Expected message to be 'is required', got '%s'", err.Message)
	}

	// Test Error method
	expected := "validation error on field 'patient_ref': is required"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	// Test empty ValidationErrors
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	// Test single ValidationError
	errs = append(errs, *NewValidationError("patient_ref", "is required", nil))
	expected := "validation failed: patient_ref is required"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	// Test multiple ValidationErrors
	errs = append(errs, *NewValidationError("age_at_onset", "must be between 0 and 120 years", 200))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("age_at_onset", "must be between 0 and 120 years", "age_at_onset", 200)

	if err.Rule != "age_at_onset" {
		t.Errorf("Expected rule to be 'age_at_onset', got '%s'", err.Rule)
	}

	if err.Field != "age_at_onset" {
		t.Errorf("Expected field to be 'age_at_onset', got '%s'", err.Field)
	}
}
